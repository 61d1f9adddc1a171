package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSubmitPending is returned when a submit is attempted while another
	// submit for the same form is still in flight
	ErrSubmitPending = errors.New("a submit is already in progress")

	// ErrStaleResponse is returned when a response arrives for a form binding
	// that is no longer current
	ErrStaleResponse = errors.New("response discarded: form was reset or rebound")

	// ErrNotConfirmed is returned when the user declines a destructive action
	ErrNotConfirmed = errors.New("action not confirmed")
)

// AuthError reports a missing or rejected credential.
// Receiving one always means the client is now logged out.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return "authentication required"
	}
	return "authentication required: " + e.Reason
}

// HTTPError is a non-2xx response from the backend
type HTTPError struct {
	Status int
	Detail string
}

func (e *HTTPError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("%s (status %d)", e.Detail, e.Status)
}

// ValidationError is client-side input rejected before any network call
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NetworkError wraps a transport failure (connection refused, DNS, timeout)
type NetworkError struct {
	Op      string
	Err     error
	Timeout bool
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s: backend did not respond in time", e.Op)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IndexError is an out-of-range list position
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Len)
}

// NewValidationError builds a ValidationError for a field
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsAuthError reports whether err is (or wraps) an AuthError
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsValidationError reports whether err is (or wraps) a ValidationError
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// StatusOf returns the HTTP status carried by err, or 0
func StatusOf(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}
