package google

import (
	"fmt"
	"net/http"

	gwerrors "github.com/jrsteele09/go-google-auth-gateway/internal/errors"
	"golang.org/x/oauth2"
)

const errInvalidClient = "invalid_client"

// UpstreamError reports a failed call to the provider's token endpoint.
// It matches gwerrors.ErrUpstream under errors.Is.
type UpstreamError struct {
	StatusCode  int    // provider HTTP status, 0 when no response was received
	Code        string // OAuth2 "error" field, e.g. "invalid_grant"
	Description string // OAuth2 "error_description" field
	err         error
}

func newUpstreamError(err error) *UpstreamError {
	ue := &UpstreamError{err: err}
	var rErr *oauth2.RetrieveError
	if gwerrors.As(err, &rErr) {
		if rErr.Response != nil {
			ue.StatusCode = rErr.Response.StatusCode
		}
		ue.Code = rErr.ErrorCode
		ue.Description = rErr.ErrorDescription
	}
	return ue
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Code != "" && e.Description != "":
		return fmt.Sprintf("token exchange rejected: %s: %s", e.Code, e.Description)
	case e.Code != "":
		return fmt.Sprintf("token exchange rejected: %s", e.Code)
	case e.StatusCode != 0:
		return fmt.Sprintf("token exchange failed with status %d", e.StatusCode)
	default:
		return fmt.Sprintf("token exchange failed: %v", e.err)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.err
}

func (e *UpstreamError) Is(target error) bool {
	return target == gwerrors.ErrUpstream
}

// Rejected reports whether the provider refused the code itself (expired,
// reused, redirect URI mismatch). A 401 or invalid_client means the
// gateway's own client credentials are wrong and is not a rejection.
func (e *UpstreamError) Rejected() bool {
	if e.StatusCode == http.StatusUnauthorized || e.Code == errInvalidClient {
		return false
	}
	return e.StatusCode >= http.StatusBadRequest && e.StatusCode < http.StatusInternalServerError
}
