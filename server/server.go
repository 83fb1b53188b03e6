package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-google-auth-gateway/auth"
	"github.com/jrsteele09/go-google-auth-gateway/internal/config"
	"github.com/jrsteele09/go-google-auth-gateway/internal/metrics"
	"github.com/rs/zerolog/log"
)

// LoginService is the login surface the HTTP handlers call.
type LoginService interface {
	LoginWithCode(ctx context.Context, code, redirectURI string) (*auth.LoginResult, error)
	LoginWithIDToken(ctx context.Context, rawIDToken string) (*auth.LoginResult, error)
}

// AuthenticateFunc resolves a raw Authorization header value to the session
// email, or fails with an error wrapping ErrInvalidSession.
type AuthenticateFunc func(authorizationHeader string) (string, error)

type Server struct {
	env            string // Environment (e.g., "DEV", "PROD")
	mux            *http.ServeMux
	routes         []string
	config         config.Config
	login          LoginService
	authenticate   AuthenticateFunc
	metrics        metrics.Recorder
	metricsHandler http.Handler
}

// Option defines a function type to modify the Server instance.
type Option func(*Server)

// WithMetrics records request and login metrics in recorder and serves
// handler on the metrics route.
func WithMetrics(recorder metrics.Recorder, handler http.Handler) Option {
	return func(s *Server) {
		s.metrics = recorder
		s.metricsHandler = handler
	}
}

func New(config config.Config, login LoginService, authenticate AuthenticateFunc, opts ...Option) (*Server, error) {
	if login == nil {
		return nil, errors.New("[Server New] login service is required")
	}
	if authenticate == nil {
		return nil, errors.New("[Server New] authenticate func is required")
	}

	s := &Server{
		env:          config.GetEnv(),
		mux:          http.NewServeMux(),
		config:       config,
		login:        login,
		authenticate: authenticate,
		metrics:      metrics.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}
