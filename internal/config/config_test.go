package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-google-auth-gateway/internal/config"
	"github.com/stretchr/testify/require"
)

func requiredVars() map[string]string {
	return map[string]string{
		"GOOGLE_CLIENT_ID": "client-123.apps.googleusercontent.com",
		"JWT_SECRET_KEY":   "super-secret",
	}
}

func TestLoad_Defaults(t *testing.T) {
	c, err := config.LoadFromMap(requiredVars())
	require.NoError(t, err)

	require.Equal(t, ":8080", c.GetPort())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, "info", c.GetLogLevel())
	require.Equal(t, 10*time.Second, c.GetHTTPClientTimeout())
	require.Equal(t, 30*time.Minute, c.GetAccessTokenExpiry())
	require.Equal(t, "google-auth-gateway", c.GetSessionIssuer())
	require.Equal(t, "super-secret", c.GetSessionSecret())
	require.Equal(t, "client-123.apps.googleusercontent.com", c.GetGoogleClientID())
	require.Empty(t, c.GetGoogleClientSecret())
	require.Empty(t, c.GetGoogleTokenURL())
	require.Empty(t, c.GetAllowedOrigins())
}

func TestLoad_Overrides(t *testing.T) {
	vars := requiredVars()
	vars["PORT"] = ":9000"
	vars["ENV"] = "prod"
	vars["ACCESS_TOKEN_EXPIRE_MINUTES"] = "5"
	vars["CORS_ALLOWED_ORIGINS"] = "https://app.example.com, https://admin.example.com"
	vars["HTTP_CLIENT_TIMEOUT"] = "3s"

	c, err := config.LoadFromMap(vars)
	require.NoError(t, err)

	require.Equal(t, ":9000", c.GetPort())
	require.Equal(t, "PROD", c.GetEnv())
	require.Equal(t, 5*time.Minute, c.GetAccessTokenExpiry())
	require.Equal(t, 3*time.Second, c.GetHTTPClientTimeout())
	origins := c.GetAllowedOrigins()
	require.True(t, origins.IsAllowedOrigin("https://app.example.com"))
	require.True(t, origins.IsAllowedOrigin("https://admin.example.com"))
	require.False(t, origins.IsAllowedOrigin("https://evil.example.com"))
	require.Equal(t, "https://admin.example.com, https://app.example.com", origins.String())
}

func TestLoad_MissingRequired(t *testing.T) {
	_, err := config.LoadFromMap(map[string]string{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "GOOGLE_CLIENT_ID")
	require.Contains(t, err.Error(), "JWT_SECRET_KEY")
}

func TestLoad_InvalidExpiry(t *testing.T) {
	vars := requiredVars()
	vars["ACCESS_TOKEN_EXPIRE_MINUTES"] = "0"
	_, err := config.LoadFromMap(vars)
	require.Error(t, err)
	require.Contains(t, err.Error(), "ACCESS_TOKEN_EXPIRE_MINUTES")
}
