package config

import (
	"strings"
	"time"
)

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetHTTPClientTimeout() time.Duration
}

type EnvVars struct {
	Port              string        `env:"PORT" envDefault:"8080"`
	AppName           string        `env:"APP_NAME" envDefault:"Google Auth Gateway"`
	Environment       string        `env:"ENV" envDefault:"DEV"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	HTTPClientTimeout time.Duration `env:"HTTP_CLIENT_TIMEOUT" envDefault:"10s"`
}

var _ EnvConfig = EnvVars{}

// GetPort returns the listen address, e.g. ":8080".
func (e EnvVars) GetPort() string {
	if strings.HasPrefix(e.Port, ":") {
		return e.Port
	}
	return ":" + e.Port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

// GetEnv returns the deployment environment. "DEV" enables console logging
// and the route table printout.
func (e EnvVars) GetEnv() string {
	return strings.ToUpper(e.Environment)
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

func (e EnvVars) GetHTTPClientTimeout() time.Duration {
	return e.HTTPClientTimeout
}
