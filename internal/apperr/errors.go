// Package apperr holds the error sentinels shared across the service.
// Handlers map them to HTTP status codes; everything else wraps them
// with fmt.Errorf and %w.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks bad user input. The action is aborted with no
	// state change.
	ErrValidation = errors.New("validation failed")

	// ErrRemote marks a failed create/update/delete/subscribe against
	// the backing store. No retry is attempted.
	ErrRemote = errors.New("remote operation failed")
)

// Validationf builds a user-facing validation error.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Remote wraps a gateway failure for the given operation.
func Remote(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrRemote, op, err)
}
