// Package apperrors defines the error taxonomy shared by services and
// handlers. Services return these (usually wrapped with detail); handlers
// map them to HTTP status codes.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated signals a mutation invoked without a resolvable identity.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNotAuthorized signals an authenticated caller that is not the
	// owner/permitted party for the mutation.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrNotFound covers both missing entities and entities the viewer may
	// not see. The two are intentionally conflated so private resources do
	// not leak their existence.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState signals a state-machine guard failure. Wrap it with
	// the name of the missing precondition.
	ErrInvalidState = errors.New("invalid state")
)

// ValidationError reports malformed or out-of-bounds input. The message is
// plain text suitable for direct display.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
