package google

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	gwerrors "github.com/jrsteele09/go-google-auth-gateway/internal/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const idTokenField = "id_token"

// Tokens is the result of an authorization code exchange.
type Tokens struct {
	IDToken     string
	AccessToken string // may be empty
	TokenType   string
	Expiry      time.Time
}

// Exchanger trades an authorization code for provider tokens.
type Exchanger interface {
	Exchange(ctx context.Context, code, redirectURI string) (*Tokens, error)
}

// OAuth2Exchanger exchanges codes against an OAuth2 token endpoint, Google's
// by default. Codes are single-use so a failed exchange is never retried.
type OAuth2Exchanger struct {
	config     oauth2.Config
	httpClient *http.Client
}

var _ Exchanger = (*OAuth2Exchanger)(nil)

// ExchangerOption defines a function type to modify the OAuth2Exchanger instance.
type ExchangerOption func(*OAuth2Exchanger)

// WithTokenURL points the exchanger at a different token endpoint.
func WithTokenURL(tokenURL string) ExchangerOption {
	return func(e *OAuth2Exchanger) {
		if tokenURL != "" {
			e.config.Endpoint.TokenURL = tokenURL
		}
	}
}

// WithExchangeHTTPClient sets the HTTP client used to call the token endpoint.
func WithExchangeHTTPClient(client *http.Client) ExchangerOption {
	return func(e *OAuth2Exchanger) {
		e.httpClient = client
	}
}

// NewExchanger creates an exchanger for the given OAuth client.
func NewExchanger(clientID, clientSecret string, opts ...ExchangerOption) *OAuth2Exchanger {
	endpoint := endpoints.Google
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	e := &OAuth2Exchanger{
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     endpoint,
			Scopes:       DefaultScopes,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Exchange redeems code at the token endpoint. redirectURI must match the one
// the client used when sending the user to the provider.
func (e *OAuth2Exchanger) Exchange(ctx context.Context, code, redirectURI string) (*Tokens, error) {
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: code is required", gwerrors.ErrInvalidRequest)
	}
	if strings.TrimSpace(redirectURI) == "" {
		return nil, fmt.Errorf("%w: redirect_uri is required", gwerrors.ErrInvalidRequest)
	}

	// Copy so concurrent exchanges with different redirect URIs never share state.
	cfg := e.config
	cfg.RedirectURL = redirectURI

	if e.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, e.httpClient)
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, newUpstreamError(err)
	}

	rawIDToken, _ := token.Extra(idTokenField).(string)
	if rawIDToken == "" {
		return nil, &gwerrors.MissingFieldError{Field: idTokenField, Source: "token response"}
	}

	return &Tokens{
		IDToken:     rawIDToken,
		AccessToken: token.AccessToken,
		TokenType:   token.Type(),
		Expiry:      token.Expiry,
	}, nil
}
