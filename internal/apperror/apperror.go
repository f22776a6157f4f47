// Package apperror defines the application error taxonomy and its mapping
// to HTTP status codes. Handlers convert every failure into one of these
// kinds so that transport-level responses stay uniform and never leak
// internal detail.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	// KindInternal is an unexpected failure (storage outage, bug). Callers
	// only ever see a generic 500 message for it.
	KindInternal Kind = iota

	// KindValidation is missing or malformed input.
	KindValidation

	// KindConflict is a duplicate registration. The public API reports it
	// as 400, matching the register endpoint contract.
	KindConflict

	// KindUnauthorized is any credential or token problem. The message is
	// uniform per endpoint and never reveals which check failed.
	KindUnauthorized

	// KindNotFound is a resource that is absent or not owned by the caller.
	// Both causes produce the same response to prevent enumeration.
	KindNotFound
)

// Error is an application error carrying a kind, a caller-facing message,
// and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status for the error kind.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError reports missing or malformed input.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewConflictError reports an already-existing resource.
func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NewUnauthorizedError reports a credential or token failure.
func NewUnauthorizedError(message string, err error) *Error {
	return &Error{Kind: KindUnauthorized, Message: message, Err: err}
}

// NewNotFoundError reports an absent (or not owned) resource.
func NewNotFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// From extracts an *Error from err. Unknown errors are reported as
// KindInternal so that nothing unexpected reaches the transport layer
// with its original message.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("Internal server error", err)
}
