package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	gwerrors "github.com/jrsteele09/go-google-auth-gateway/internal/errors"
)

const emailClaim = "email"

// Identity is the set of claims taken from a verified ID token. It is used
// immediately and never stored.
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// IdentityVerifier validates a provider ID token and extracts its identity.
type IdentityVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*Identity, error)
}

// OIDCVerifier verifies ID tokens with go-oidc: signature against the
// provider key set, issuer, audience and expiry.
type OIDCVerifier struct {
	verifier   *oidc.IDTokenVerifier
	httpClient *http.Client
}

var _ IdentityVerifier = (*OIDCVerifier)(nil)

type verifierOptions struct {
	httpClient *http.Client
	now        func() time.Time
}

// VerifierOption configures verifier construction.
type VerifierOption func(*verifierOptions)

// WithVerifyHTTPClient sets the HTTP client used for discovery and key fetches.
func WithVerifyHTTPClient(client *http.Client) VerifierOption {
	return func(o *verifierOptions) {
		o.httpClient = client
	}
}

// WithVerifyNowTime sets the clock used for expiry checks (primarily for testing)
func WithVerifyNowTime(now func() time.Time) VerifierOption {
	return func(o *verifierOptions) {
		o.now = now
	}
}

// NewGoogleVerifier discovers Google's key set and returns a verifier that
// accepts ID tokens issued to clientID.
//
// ctx is retained by go-oidc for background key refreshes and must outlive
// the verifier.
func NewGoogleVerifier(ctx context.Context, clientID string, opts ...VerifierOption) (*OIDCVerifier, error) {
	return NewDiscoveredVerifier(ctx, Issuer, clientID, opts...)
}

// NewDiscoveredVerifier performs OIDC discovery against issuer.
func NewDiscoveredVerifier(ctx context.Context, issuer, clientID string, opts ...VerifierOption) (*OIDCVerifier, error) {
	o := applyVerifierOptions(opts)
	if o.httpClient != nil {
		ctx = oidc.ClientContext(ctx, o.httpClient)
	}

	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("[google NewDiscoveredVerifier] failed to create OIDC provider: %w", err)
	}

	return &OIDCVerifier{
		verifier:   provider.Verifier(oidcConfig(clientID, o)),
		httpClient: o.httpClient,
	}, nil
}

// NewVerifier builds a verifier from an explicit key set, skipping discovery.
func NewVerifier(issuer string, keySet oidc.KeySet, clientID string, opts ...VerifierOption) *OIDCVerifier {
	o := applyVerifierOptions(opts)
	return &OIDCVerifier{
		verifier:   oidc.NewVerifier(issuer, keySet, oidcConfig(clientID, o)),
		httpClient: o.httpClient,
	}
}

func applyVerifierOptions(opts []VerifierOption) verifierOptions {
	var o verifierOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func oidcConfig(clientID string, o verifierOptions) *oidc.Config {
	return &oidc.Config{
		ClientID:             clientID,
		SupportedSigningAlgs: []string{oidc.RS256},
		Now:                  o.now,
	}
}

// idTokenClaims are the profile claims Google places in its ID tokens.
type idTokenClaims struct {
	Email         string    `json:"email"`
	EmailVerified claimBool `json:"email_verified"`
	Name          string    `json:"name"`
	Picture       string    `json:"picture"`
}

// Verify validates rawIDToken. Validation failures wrap ErrInvalidToken; a
// valid token without an email wraps ErrMissingField.
func (v *OIDCVerifier) Verify(ctx context.Context, rawIDToken string) (*Identity, error) {
	if strings.TrimSpace(rawIDToken) == "" {
		return nil, fmt.Errorf("%w: %s is required", gwerrors.ErrInvalidRequest, idTokenField)
	}
	if v.httpClient != nil {
		ctx = oidc.ClientContext(ctx, v.httpClient)
	}

	idToken, err := v.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", gwerrors.ErrInvalidToken, err)
	}

	var claims idTokenClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: failed to decode claims: %w", gwerrors.ErrInvalidToken, err)
	}
	if claims.Email == "" {
		return nil, &gwerrors.MissingFieldError{Field: emailClaim, Source: "id token"}
	}

	return &Identity{
		Subject:       idToken.Subject,
		Email:         claims.Email,
		EmailVerified: bool(claims.EmailVerified),
		Name:          claims.Name,
		Picture:       claims.Picture,
	}, nil
}

// claimBool decodes a boolean claim that some issuers encode as a string.
type claimBool bool

func (b *claimBool) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = claimBool(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("email_verified: unexpected value %s", data)
	}
	*b = claimBool(strings.EqualFold(s, "true"))
	return nil
}
