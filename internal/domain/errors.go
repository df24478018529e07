package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for client operations
var (
	// ErrServerOffline indicates the supercloud server is unreachable
	ErrServerOffline = errors.New("server is unreachable")

	// ErrNotAuthenticated indicates a mutating operation was attempted
	// without an active session
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotFound indicates the referenced entity no longer exists
	ErrNotFound = errors.New("not found")
)

// RequestError is a failed server response. It carries the HTTP status and
// the server's errors list (`{errors: [...]}`) so forms can render
// field-level messages verbatim.
type RequestError struct {
	Status int
	Errors []string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.Status, strings.Join(e.Errors, "; "))
}

// IsValidation reports whether the failure carries server-side validation
// messages the UI should attach to form fields.
func (e *RequestError) IsValidation() bool {
	return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
}

// IsAuthorization reports whether the failure means the session is missing
// or invalid and the UI should redirect to login instead of showing a form
// error.
func (e *RequestError) IsAuthorization() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// Unwrap maps not-found responses onto ErrNotFound so callers can match
// with errors.Is.
func (e *RequestError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// ErrorList extracts the server's error messages from err, if it carries
// any. Returns nil for transport-level failures.
func ErrorList(err error) []string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Errors
	}
	return nil
}
