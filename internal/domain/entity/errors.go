package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrInvalidColumn indicates that a column name is not part of the OED table.
	ErrInvalidColumn = errors.New("invalid OED column")

	// ErrInvalidFormat indicates an unsupported response format.
	ErrInvalidFormat = errors.New("invalid response format")

	// ErrInvalidParameter indicates a malformed query parameter (non-integer limit, negative offset, ...).
	ErrInvalidParameter = errors.New("invalid query parameter")
)

// ValidationError represents a validation error with detailed field information.
// It wraps one of the sentinel errors above so callers can match with errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap returns the wrapped sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err was caused by client input rather than by the database.
func IsValidation(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	return errors.Is(err, ErrInvalidColumn) ||
		errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrInvalidParameter)
}
