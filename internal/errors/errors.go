package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy for the gateway. Components wrap these with %w and the HTTP
// layer maps them to status codes.
var (
	// ErrInvalidRequest is returned when the caller supplied malformed or
	// incomplete input.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUpstream is returned when the identity provider rejected a request
	// or could not be reached.
	ErrUpstream = errors.New("identity provider error")

	// ErrMissingField is returned when a provider response or a verified token
	// lacks a required field.
	ErrMissingField = errors.New("missing field")

	// ErrInvalidToken is returned when a provider ID token fails verification.
	ErrInvalidToken = errors.New("invalid id token")

	// ErrInvalidSession is returned when a locally issued session token is
	// absent, malformed, badly signed or expired.
	ErrInvalidSession = errors.New("invalid session")
)

// MissingFieldError names the field a provider response or token lacked.
// It matches ErrMissingField under errors.Is.
type MissingFieldError struct {
	Field  string // e.g. "id_token", "email"
	Source string // e.g. "token response", "id token"
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s has no %s", ErrMissingField, e.Source, e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
