package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config interface {
	EnvConfig
	CorsConfig
	GoogleConfig
	SessionConfig
}

type mainConfig struct {
	EnvVars
	Cors
	Google
	Session
}

var _ Config = mainConfig{}

// Load reads the configuration from the process environment. Every missing
// required variable is reported in the returned error.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFromMap reads the configuration from the given variables instead of the
// process environment.
func LoadFromMap(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var c mainConfig
	if err := env.ParseWithOptions(&c, opts); err != nil {
		return nil, fmt.Errorf("[config Load] parse env: %w", err)
	}
	if c.AccessTokenExpireMinutes <= 0 {
		return nil, fmt.Errorf("[config Load] %s must be positive, got %d", accessTokenExpiryVar, c.AccessTokenExpireMinutes)
	}
	return c, nil
}
