package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-google-auth-gateway/auth"
	"github.com/jrsteele09/go-google-auth-gateway/google"
	"github.com/jrsteele09/go-google-auth-gateway/internal/config"
	"github.com/jrsteele09/go-google-auth-gateway/internal/logging"
	"github.com/jrsteele09/go-google-auth-gateway/internal/metrics"
	"github.com/jrsteele09/go-google-auth-gateway/server"
	"github.com/jrsteele09/go-google-auth-gateway/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run() error {
	c, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(os.Stderr, c.GetEnv(), c.GetLogLevel())
	displayAppname(c.GetAppName())
	log.Info().
		Str("env", c.GetEnv()).
		Stringer("cors_allowed_origins", c.GetAllowedOrigins()).
		Dur("session_expiry", c.GetAccessTokenExpiry()).
		Msg("configuration loaded")

	handler, err := newHandler(context.Background(), c)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listenAndServe(srv)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(srv)
}

// newHandler wires the Google clients, the session issuer and the HTTP server.
// baseCtx is kept by go-oidc for key set refreshes.
func newHandler(baseCtx context.Context, c config.Config) (http.Handler, error) {
	httpClient := &http.Client{Timeout: c.GetHTTPClientTimeout()}

	verifier, err := google.NewGoogleVerifier(baseCtx, c.GetGoogleClientID(), google.WithVerifyHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("google verifier: %w", err)
	}

	var exchanger google.Exchanger
	if c.GetGoogleClientSecret() != "" {
		exchanger = google.NewExchanger(c.GetGoogleClientID(), c.GetGoogleClientSecret(),
			google.WithTokenURL(c.GetGoogleTokenURL()),
			google.WithExchangeHTTPClient(httpClient),
		)
	} else {
		log.Warn().Msg("GOOGLE_CLIENT_SECRET not set, authorization code flow disabled")
	}

	issuer, err := session.NewIssuer(session.Config{
		Secret: c.GetSessionSecret(),
		Expiry: c.GetAccessTokenExpiry(),
		Issuer: c.GetSessionIssuer(),
	})
	if err != nil {
		return nil, fmt.Errorf("session issuer: %w", err)
	}

	login, err := auth.NewLoginService(exchanger, verifier, issuer)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	return server.New(c, login, issuer.Authenticate, server.WithMetrics(collector, metrics.Handler(reg)))
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
