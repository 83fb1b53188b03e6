// Package session mints and verifies the gateway's own bearer tokens.
//
// Sessions are stateless: a token is valid exactly when its signature checks
// out against the process secret and its exp claim lies in the future. There
// is no server-side record and no revocation.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	gwerrors "github.com/jrsteele09/go-google-auth-gateway/internal/errors"
)

const bearerScheme = "bearer"

// Config is the immutable session configuration supplied at construction.
type Config struct {
	Secret string        // HMAC key shared by Issue and Verify
	Expiry time.Duration // lifetime of an issued token
	Issuer string        // iss claim; checked on Verify when non-empty
}

// Token is a freshly issued session token.
type Token struct {
	Value     string
	ExpiresAt time.Time
	ExpiresIn int // seconds
}

// Issuer issues and verifies session tokens.
type Issuer struct {
	cfg     Config
	signer  Signer
	parser  *jwt.Parser
	nowTime func() time.Time
}

// IssuerOption defines a function type to modify the Issuer instance.
type IssuerOption func(*Issuer)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) IssuerOption {
	return func(i *Issuer) {
		i.nowTime = nowFunc
	}
}

// WithSigner replaces the default HMAC signer built from Config.Secret.
func WithSigner(signer Signer) IssuerOption {
	return func(i *Issuer) {
		i.signer = signer
	}
}

// NewIssuer builds an Issuer from cfg. The secret must be non-empty and the
// expiry positive.
func NewIssuer(cfg Config, opts ...IssuerOption) (*Issuer, error) {
	if cfg.Secret == "" {
		return nil, errors.New("[session NewIssuer] secret must not be empty")
	}
	if cfg.Expiry <= 0 {
		return nil, fmt.Errorf("[session NewIssuer] expiry must be positive, got %s", cfg.Expiry)
	}

	i := &Issuer{
		cfg:     cfg,
		signer:  NewHMACSigner(cfg.Secret),
		nowTime: time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{i.signer.GetSigningMethod().Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return i.nowTime() }),
	}
	if cfg.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(cfg.Issuer))
	}
	i.parser = jwt.NewParser(parserOpts...)

	return i, nil
}

// Issue mints a session token whose subject is email.
func (i *Issuer) Issue(email string) (*Token, error) {
	if strings.TrimSpace(email) == "" {
		return nil, errors.New("[session Issue] email must not be empty")
	}

	now := i.nowTime()
	expiresAt := now.Add(i.cfg.Expiry)
	claims := jwt.MapClaims{
		"sub": email,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
		"jti": uuid.New().String(),
	}
	if i.cfg.Issuer != "" {
		claims["iss"] = i.cfg.Issuer
	}

	signed, err := i.signer.Sign(claims)
	if err != nil {
		return nil, gwerrors.Wrapf(err, "[session Issue]")
	}

	return &Token{
		Value:     signed,
		ExpiresAt: time.Unix(expiresAt.Unix(), 0),
		ExpiresIn: int(i.cfg.Expiry.Seconds()),
	}, nil
}

// Verify checks the token's signature and expiry and returns its subject.
// Every failure wraps ErrInvalidSession.
func (i *Issuer) Verify(rawToken string) (string, error) {
	if strings.TrimSpace(rawToken) == "" {
		return "", fmt.Errorf("%w: empty token", gwerrors.ErrInvalidSession)
	}

	token, err := i.parser.ParseWithClaims(rawToken, jwt.MapClaims{}, i.signer.GetVerificationKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", gwerrors.ErrInvalidSession, err)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("%w: token has no subject", gwerrors.ErrInvalidSession)
	}
	return sub, nil
}

// Authenticate resolves the value of an Authorization header to the session
// email. The header must have the form "Bearer <token>"; the scheme is
// matched case-insensitively.
func (i *Issuer) Authenticate(authorizationHeader string) (string, error) {
	header := strings.TrimSpace(authorizationHeader)
	if header == "" {
		return "", fmt.Errorf("%w: missing authorization header", gwerrors.ErrInvalidSession)
	}

	scheme, rawToken, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, bearerScheme) {
		return "", fmt.Errorf("%w: invalid authorization header format", gwerrors.ErrInvalidSession)
	}

	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return "", fmt.Errorf("%w: empty bearer token", gwerrors.ErrInvalidSession)
	}
	return i.Verify(rawToken)
}
