package google_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/jrsteele09/go-google-auth-gateway/google"
	gwerrors "github.com/jrsteele09/go-google-auth-gateway/internal/errors"
	"github.com/stretchr/testify/require"
)

const (
	testClientID     = "client-123.apps.googleusercontent.com"
	testClientSecret = "client-secret"
	testRedirectURI  = "http://localhost:3000/callback"
	testCode         = "4/0AX4XfWh-code"
)

type tokenEndpoint struct {
	status   int
	response map[string]any

	lock  sync.Mutex
	forms []map[string]string
}

func (e *tokenEndpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	form := map[string]string{}
	for k := range r.PostForm {
		form[k] = r.PostForm.Get(k)
	}
	e.lock.Lock()
	e.forms = append(e.forms, form)
	e.lock.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.status)
	_ = json.NewEncoder(w).Encode(e.response)
}

func newTokenServer(t *testing.T, status int, response map[string]any) (*httptest.Server, *tokenEndpoint) {
	t.Helper()
	endpoint := &tokenEndpoint{status: status, response: response}
	srv := httptest.NewServer(endpoint)
	t.Cleanup(srv.Close)
	return srv, endpoint
}

func newTestExchanger(srv *httptest.Server) *google.OAuth2Exchanger {
	return google.NewExchanger(testClientID, testClientSecret,
		google.WithTokenURL(srv.URL+"/token"),
		google.WithExchangeHTTPClient(srv.Client()),
	)
}

func TestExchange_Success(t *testing.T) {
	srv, endpoint := newTokenServer(t, http.StatusOK, map[string]any{
		"access_token": "ya29.access",
		"token_type":   "Bearer",
		"expires_in":   3599,
		"id_token":     "raw.id.token",
	})

	tokens, err := newTestExchanger(srv).Exchange(context.Background(), testCode, testRedirectURI)
	require.NoError(t, err)
	require.Equal(t, "raw.id.token", tokens.IDToken)
	require.Equal(t, "ya29.access", tokens.AccessToken)
	require.Equal(t, "Bearer", tokens.TokenType)
	require.False(t, tokens.Expiry.IsZero())

	require.Len(t, endpoint.forms, 1)
	form := endpoint.forms[0]
	require.Equal(t, "authorization_code", form["grant_type"])
	require.Equal(t, testCode, form["code"])
	require.Equal(t, testRedirectURI, form["redirect_uri"])
	require.Equal(t, testClientID, form["client_id"])
	require.Equal(t, testClientSecret, form["client_secret"])
}

func TestExchange_RedirectURIPerCall(t *testing.T) {
	srv, endpoint := newTokenServer(t, http.StatusOK, map[string]any{
		"access_token": "ya29.access",
		"token_type":   "Bearer",
		"id_token":     "raw.id.token",
	})
	exchanger := newTestExchanger(srv)

	_, err := exchanger.Exchange(context.Background(), testCode, "http://one.example/cb")
	require.NoError(t, err)
	_, err = exchanger.Exchange(context.Background(), testCode, "http://two.example/cb")
	require.NoError(t, err)

	require.Equal(t, "http://one.example/cb", endpoint.forms[0]["redirect_uri"])
	require.Equal(t, "http://two.example/cb", endpoint.forms[1]["redirect_uri"])
}

func TestExchange_MissingIDToken(t *testing.T) {
	srv, _ := newTokenServer(t, http.StatusOK, map[string]any{
		"access_token": "ya29.access",
		"token_type":   "Bearer",
	})

	_, err := newTestExchanger(srv).Exchange(context.Background(), testCode, testRedirectURI)
	require.ErrorIs(t, err, gwerrors.ErrMissingField)
	require.Contains(t, err.Error(), "id_token")
}

func TestExchange_ProviderRejectsCode(t *testing.T) {
	srv, endpoint := newTokenServer(t, http.StatusBadRequest, map[string]any{
		"error":             "invalid_grant",
		"error_description": "Bad Request",
	})

	_, err := newTestExchanger(srv).Exchange(context.Background(), testCode, testRedirectURI)
	require.ErrorIs(t, err, gwerrors.ErrUpstream)

	var upstream *google.UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, http.StatusBadRequest, upstream.StatusCode)
	require.Equal(t, "invalid_grant", upstream.Code)
	require.True(t, upstream.Rejected())
	require.Contains(t, err.Error(), "invalid_grant")

	// single-use codes are never retried
	require.Len(t, endpoint.forms, 1)
}

func TestExchange_InvalidClientCredentials(t *testing.T) {
	tests := map[string]struct {
		status int
		code   string
	}{
		"401 invalid_client": {status: http.StatusUnauthorized, code: "invalid_client"},
		"400 invalid_client": {status: http.StatusBadRequest, code: "invalid_client"},
		"401 unauthorized":   {status: http.StatusUnauthorized, code: "unauthorized_client"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			srv, _ := newTokenServer(t, tt.status, map[string]any{
				"error":             tt.code,
				"error_description": "The OAuth client was not found.",
			})

			_, err := newTestExchanger(srv).Exchange(context.Background(), testCode, testRedirectURI)
			require.ErrorIs(t, err, gwerrors.ErrUpstream)

			var upstream *google.UpstreamError
			require.ErrorAs(t, err, &upstream)
			require.Equal(t, tt.status, upstream.StatusCode)
			require.Equal(t, tt.code, upstream.Code)
			require.False(t, upstream.Rejected())
		})
	}
}

func TestExchange_ProviderFailure(t *testing.T) {
	srv, endpoint := newTokenServer(t, http.StatusServiceUnavailable, map[string]any{})

	_, err := newTestExchanger(srv).Exchange(context.Background(), testCode, testRedirectURI)
	require.ErrorIs(t, err, gwerrors.ErrUpstream)

	var upstream *google.UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Equal(t, http.StatusServiceUnavailable, upstream.StatusCode)
	require.False(t, upstream.Rejected())
	require.Len(t, endpoint.forms, 1)
}

func TestExchange_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	exchanger := google.NewExchanger(testClientID, testClientSecret, google.WithTokenURL(url+"/token"))
	_, err := exchanger.Exchange(context.Background(), testCode, testRedirectURI)
	require.ErrorIs(t, err, gwerrors.ErrUpstream)

	var upstream *google.UpstreamError
	require.ErrorAs(t, err, &upstream)
	require.Zero(t, upstream.StatusCode)
	require.False(t, upstream.Rejected())
}

func TestExchange_InvalidInput(t *testing.T) {
	exchanger := google.NewExchanger(testClientID, testClientSecret)

	_, err := exchanger.Exchange(context.Background(), "", testRedirectURI)
	require.ErrorIs(t, err, gwerrors.ErrInvalidRequest)
	require.Contains(t, err.Error(), "code")

	_, err = exchanger.Exchange(context.Background(), testCode, " ")
	require.ErrorIs(t, err, gwerrors.ErrInvalidRequest)
	require.Contains(t, err.Error(), "redirect_uri")
}
