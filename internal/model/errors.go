package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an operation targets an ID that is not
	// visible in the current collection.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredential is returned when an admin login presents the wrong PIN.
	ErrInvalidCredential = errors.New("invalid admin credential")
)

// ValidationError reports input rejected before any persistence call.
type ValidationError struct {
	// Field names the offending input (e.g. "title", "options").
	Field string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Message
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation returns true if err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFound wraps ErrNotFound with the kind and ID that were missing.
func NotFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
}
