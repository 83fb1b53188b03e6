// Package auth turns a Google credential into a gateway session.
package auth

import (
	"context"
	"errors"

	"github.com/jrsteele09/go-google-auth-gateway/google"
	gwerrors "github.com/jrsteele09/go-google-auth-gateway/internal/errors"
	"github.com/jrsteele09/go-google-auth-gateway/session"
)

// Flow names the credential a login started from.
type Flow string

const (
	FlowCode    Flow = "code"
	FlowIDToken Flow = "id_token"
)

// UserInfo is the public profile returned to the client.
type UserInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Session *session.Token
	User    UserInfo
	// GoogleAccessToken is the provider access token from the code flow;
	// empty for the ID token flow.
	GoogleAccessToken string
}

// SessionIssuer mints session tokens for verified emails.
type SessionIssuer interface {
	Issue(email string) (*session.Token, error)
}

// LoginService chains the exchanger, the identity verifier and the session
// issuer. It holds no mutable state and is safe for concurrent use.
type LoginService struct {
	exchanger google.Exchanger
	verifier  google.IdentityVerifier
	issuer    SessionIssuer
}

// ErrCodeFlowDisabled is returned by LoginWithCode when no exchanger is configured.
var ErrCodeFlowDisabled = errors.New("authorization code flow is not configured")

// NewLoginService initializes a LoginService. The exchanger may be nil when
// only the ID token flow is offered.
func NewLoginService(exchanger google.Exchanger, verifier google.IdentityVerifier, issuer SessionIssuer) (*LoginService, error) {
	if verifier == nil {
		return nil, errors.New("[auth NewLoginService] identity verifier is required")
	}
	if issuer == nil {
		return nil, errors.New("[auth NewLoginService] session issuer is required")
	}
	return &LoginService{
		exchanger: exchanger,
		verifier:  verifier,
		issuer:    issuer,
	}, nil
}

// LoginWithCode exchanges an authorization code, verifies the returned ID
// token and issues a session for its email.
func (s *LoginService) LoginWithCode(ctx context.Context, code, redirectURI string) (*LoginResult, error) {
	if s.exchanger == nil {
		return nil, ErrCodeFlowDisabled
	}

	tokens, err := s.exchanger.Exchange(ctx, code, redirectURI)
	if err != nil {
		return nil, gwerrors.Wrapf(err, "[auth LoginWithCode]")
	}

	result, err := s.login(ctx, tokens.IDToken)
	if err != nil {
		return nil, gwerrors.Wrapf(err, "[auth LoginWithCode]")
	}
	result.GoogleAccessToken = tokens.AccessToken
	return result, nil
}

// LoginWithIDToken verifies an ID token obtained by the client and issues a
// session for its email.
func (s *LoginService) LoginWithIDToken(ctx context.Context, rawIDToken string) (*LoginResult, error) {
	result, err := s.login(ctx, rawIDToken)
	if err != nil {
		return nil, gwerrors.Wrapf(err, "[auth LoginWithIDToken]")
	}
	return result, nil
}

// login issues a session only for the email the verifier returned in this call.
func (s *LoginService) login(ctx context.Context, rawIDToken string) (*LoginResult, error) {
	identity, err := s.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(identity.Email)
	if err != nil {
		return nil, gwerrors.Wrapf(err, "failed to issue session")
	}

	return &LoginResult{
		Session: token,
		User: UserInfo{
			Name:    identity.Name,
			Email:   identity.Email,
			Picture: identity.Picture,
		},
	}, nil
}
