// Package apperr holds the error kinds that cross the HTTP boundary.
// Lower layers wrap one of these with fmt.Errorf("...: %w", ...) and the
// response writer classifies with errors.Is. Anything that matches none of
// them is treated as a server fault.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// Validation returns an ErrValidation carrying a caller-facing message.
func Validation(message string) error {
	return &validationError{message: message}
}

// Validationf is Validation with formatting.
func Validationf(format string, args ...any) error {
	return &validationError{message: fmt.Sprintf(format, args...)}
}

type validationError struct {
	message string
}

func (e *validationError) Error() string { return e.message }

func (e *validationError) Is(target error) bool { return target == ErrValidation }

// Message returns the caller-facing text of a validation error, or "" when
// err carries none.
func Message(err error) string {
	var v *validationError
	if errors.As(err, &v) {
		return v.message
	}
	return ""
}
