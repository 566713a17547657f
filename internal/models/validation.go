package models

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every ValidationError so callers can match with errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError reports the first invalid field of a submitted record.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
