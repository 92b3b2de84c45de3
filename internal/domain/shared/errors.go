// Package shared contains common domain types and errors that are used
// across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base error kinds that can be used for error checking with errors.Is().
// Every kind terminates the process once it reaches the top of the loop; the
// only condition retried anywhere is the dispatcher's rate-limit backoff,
// which is handled inside the dispatcher and never surfaces as an error.
var (
	// ErrConfigMissing indicates a required configuration value is absent.
	ErrConfigMissing = errors.New("required configuration missing")

	// ErrConversion indicates a calendar or numeric construction failed.
	ErrConversion = errors.New("conversion failed")

	// ErrParse indicates a malformed upstream payload.
	ErrParse = errors.New("malformed payload")

	// ErrHTTP indicates a transport failure or an unexpected status code.
	ErrHTTP = errors.New("http request failed")

	// ErrFilesystem indicates checkpoint persistence failed.
	ErrFilesystem = errors.New("checkpoint persistence failed")
)

// FestiveError represents a failure with its origin and kind attached.
type FestiveError struct {
	Domain  string // e.g. "config", "feed", "checkpoint", "webhook"
	Op      string // operation that failed, e.g. "Fetch", "Advance"
	Kind    error  // base kind for errors.Is() checking
	Message string // human-readable message
	Err     error  // underlying error (optional)
}

// Error implements the error interface.
func (e *FestiveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *FestiveError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching against both the kind and the cause.
func (e *FestiveError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewError creates a new FestiveError without an underlying cause.
func NewError(domain, op string, kind error, message string) *FestiveError {
	return &FestiveError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *FestiveError {
	return &FestiveError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Upstream feed errors.
var (
	// ErrSessionExpired is surfaced on a 5xx from the leaderboard API, which
	// is how the upstream responds to an invalid session cookie.
	ErrSessionExpired = NewError("feed", "Fetch", ErrHTTP, "the session cookie might have expired")
)
