package config

import "time"

const accessTokenExpiryVar = "ACCESS_TOKEN_EXPIRE_MINUTES"

type SessionConfig interface {
	GetSessionSecret() string
	GetSessionIssuer() string
	GetAccessTokenExpiry() time.Duration
}

type Session struct {
	Secret                   string `env:"JWT_SECRET_KEY,required,notEmpty"`
	Issuer                   string `env:"JWT_ISSUER" envDefault:"google-auth-gateway"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`
}

var _ SessionConfig = Session{}

func (s Session) GetSessionSecret() string {
	return s.Secret
}

func (s Session) GetSessionIssuer() string {
	return s.Issuer
}

func (s Session) GetAccessTokenExpiry() time.Duration {
	return time.Duration(s.AccessTokenExpireMinutes) * time.Minute
}
