package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-google-auth-gateway/auth"
	"github.com/jrsteele09/go-google-auth-gateway/google"
	gwerrors "github.com/jrsteele09/go-google-auth-gateway/internal/errors"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	maxBodyBytes    = 1 << 20

	detailInvalidSession = "Could not validate credentials"
	detailInvalidIDToken = "Invalid Google ID token"
)

// writeJSON writes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONError writes the {"detail": ...} error body.
func writeJSONError(w http.ResponseWriter, detail string, statusCode int) {
	writeJSON(w, statusCode, map[string]string{"detail": detail})
}

// decodeJSONBody reads a size-limited JSON request body into dst.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if gwerrors.As(err, &maxErr) {
			return fmt.Errorf("%w: request body too large", gwerrors.ErrInvalidRequest)
		}
		return fmt.Errorf("%w: request body must be a JSON object", gwerrors.ErrInvalidRequest)
	}
	return nil
}

// errorResponse maps an error from the login path to a status code and a
// client-safe detail message.
func errorResponse(err error) (int, string) {
	var missing *gwerrors.MissingFieldError
	var upstream *google.UpstreamError

	switch {
	case gwerrors.As(err, &missing):
		return http.StatusBadRequest, missingFieldDetail(missing.Field)
	case gwerrors.Is(err, gwerrors.ErrMissingField):
		return http.StatusBadRequest, "Google response is incomplete"
	case gwerrors.As(err, &upstream):
		if upstream.Rejected() {
			detail := "Google rejected the authorization code"
			if upstream.Code != "" {
				detail += ": " + upstream.Code
			}
			return http.StatusBadRequest, detail
		}
		return http.StatusBadGateway, "Google token endpoint unavailable"
	case gwerrors.Is(err, gwerrors.ErrUpstream):
		return http.StatusBadGateway, "Google token endpoint unavailable"
	case gwerrors.Is(err, gwerrors.ErrInvalidToken):
		return http.StatusUnauthorized, detailInvalidIDToken
	case gwerrors.Is(err, gwerrors.ErrInvalidSession):
		return http.StatusUnauthorized, detailInvalidSession
	case gwerrors.Is(err, auth.ErrCodeFlowDisabled):
		return http.StatusNotImplemented, "Authorization code flow is not configured"
	case gwerrors.Is(err, gwerrors.ErrInvalidRequest):
		return http.StatusBadRequest, invalidRequestDetail(err)
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

func missingFieldDetail(field string) string {
	switch field {
	case "id_token":
		return "Google did not return an id_token"
	case "email":
		return "Google account did not provide an email"
	default:
		return "Google response is missing " + field
	}
}

// invalidRequestDetail returns the message after the ErrInvalidRequest prefix,
// which only ever describes the caller's own input.
func invalidRequestDetail(err error) string {
	if _, detail, ok := strings.Cut(err.Error(), gwerrors.ErrInvalidRequest.Error()+": "); ok {
		return detail
	}
	return "Invalid request"
}
