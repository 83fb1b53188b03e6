package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-google-auth-gateway/auth"
	gwerrors "github.com/jrsteele09/go-google-auth-gateway/internal/errors"
	"github.com/jrsteele09/go-google-auth-gateway/internal/metrics"
	"github.com/rs/zerolog"
)

const tokenTypeBearer = "bearer"

type codeLoginRequest struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirect_uri"`
}

type idTokenLoginRequest struct {
	IDToken string `json:"id_token"`
}

type tokenResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresIn   int           `json:"expires_in"`
	User        auth.UserInfo `json:"user"`
}

type codeTokenResponse struct {
	tokenResponse
	// GoogleAccessToken is null when Google returned no access token.
	GoogleAccessToken *string `json:"google_access_token"`
}

// IndexHandler is the public liveness greeting.
func (s *Server) IndexHandler() http.HandlerFunc {
	message := fmt.Sprintf("Hello from %s", s.config.GetAppName())
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": message})
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// PreflightHandler only runs for OPTIONS requests without an Origin header;
// CorsMiddleware answers real preflights before it.
func (s *Server) PreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

// GoogleCodeLoginHandler exchanges {code, redirect_uri} for a session token.
func (s *Server) GoogleCodeLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req codeLoginRequest
		if err := decodeJSONBody(w, r, &req); err != nil {
			s.writeLoginError(w, r, auth.FlowCode, err)
			return
		}
		if strings.TrimSpace(req.Code) == "" || strings.TrimSpace(req.RedirectURI) == "" {
			s.writeLoginError(w, r, auth.FlowCode, fmt.Errorf("%w: code and redirect_uri are required", gwerrors.ErrInvalidRequest))
			return
		}

		result, err := s.login.LoginWithCode(r.Context(), req.Code, req.RedirectURI)
		if err != nil {
			s.writeLoginError(w, r, auth.FlowCode, err)
			return
		}

		resp := codeTokenResponse{tokenResponse: newTokenResponse(result)}
		if result.GoogleAccessToken != "" {
			resp.GoogleAccessToken = &result.GoogleAccessToken
		}
		s.writeLoginSuccess(w, r, auth.FlowCode, result, resp)
	}
}

// GoogleIDTokenLoginHandler exchanges {id_token} for a session token.
func (s *Server) GoogleIDTokenLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req idTokenLoginRequest
		if err := decodeJSONBody(w, r, &req); err != nil {
			s.writeLoginError(w, r, auth.FlowIDToken, err)
			return
		}
		if strings.TrimSpace(req.IDToken) == "" {
			s.writeLoginError(w, r, auth.FlowIDToken, fmt.Errorf("%w: id_token is required", gwerrors.ErrInvalidRequest))
			return
		}

		result, err := s.login.LoginWithIDToken(r.Context(), req.IDToken)
		if err != nil {
			s.writeLoginError(w, r, auth.FlowIDToken, err)
			return
		}
		s.writeLoginSuccess(w, r, auth.FlowIDToken, result, newTokenResponse(result))
	}
}

// UserMeHandler returns the email of the session presented to RequireSession.
func (s *Server) UserMeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, ok := UserEmailFromContext(r.Context())
		if !ok {
			writeJSONError(w, detailInvalidSession, http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"msg":        "Session token verified",
			"user_email": email,
		})
	}
}

func newTokenResponse(result *auth.LoginResult) tokenResponse {
	return tokenResponse{
		AccessToken: result.Session.Value,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   result.Session.ExpiresIn,
		User:        result.User,
	}
}

func (s *Server) writeLoginSuccess(w http.ResponseWriter, r *http.Request, flow auth.Flow, result *auth.LoginResult, body any) {
	s.metrics.RecordLogin(string(flow), metrics.ResultSuccess)
	zerolog.Ctx(r.Context()).Info().
		Str("flow", string(flow)).
		Str("email", result.User.Email).
		Time("expires_at", result.Session.ExpiresAt).
		Msg("session issued")

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) writeLoginError(w http.ResponseWriter, r *http.Request, flow auth.Flow, err error) {
	s.metrics.RecordLogin(string(flow), metrics.ResultFailure)
	status, detail := errorResponse(err)

	event := zerolog.Ctx(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		event = zerolog.Ctx(r.Context()).Error()
	}
	event.Err(err).Str("flow", string(flow)).Int("status", status).Msg("login failed")

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeJSONError(w, detail, status)
}
