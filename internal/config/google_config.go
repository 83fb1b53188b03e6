package config

type GoogleConfig interface {
	GetGoogleClientID() string
	GetGoogleClientSecret() string
	// GetGoogleTokenURL returns an override for Google's token endpoint, or
	// "" to use the published one.
	GetGoogleTokenURL() string
}

type Google struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID,required,notEmpty"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	TokenURL     string `env:"GOOGLE_TOKEN_URL"`
}

var _ GoogleConfig = Google{}

func (g Google) GetGoogleClientID() string {
	return g.ClientID
}

func (g Google) GetGoogleClientSecret() string {
	return g.ClientSecret
}

func (g Google) GetGoogleTokenURL() string {
	return g.TokenURL
}
