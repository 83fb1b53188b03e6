package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-google-auth-gateway/internal/metrics"
	"github.com/rs/zerolog"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUserEmail stores the authenticated session email
	ContextKeyUserEmail ContextKey = "user_email"
)

// UserEmailFromContext returns the email RequireSession stored for the request.
func UserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(ContextKeyUserEmail).(string)
	return email, ok && email != ""
}

// RequireSession is middleware that validates the session bearer token in the
// Authorization header before the route handler runs.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			email, err := s.authenticate(r.Header.Get("Authorization"))
			if err != nil {
				s.metrics.RecordSessionCheck(metrics.ResultFailure)
				zerolog.Ctx(r.Context()).Debug().Err(err).Msg("session rejected")
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeJSONError(w, detailInvalidSession, http.StatusUnauthorized)
				return
			}
			s.metrics.RecordSessionCheck(metrics.ResultSuccess)

			ctx := context.WithValue(r.Context(), ContextKeyUserEmail, email)
			next(w, r.WithContext(ctx))
		}
	}
}
