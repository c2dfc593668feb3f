package domain

import "errors"

// ErrValidation is the sentinel every ValidationError unwraps to.
var ErrValidation = errors.New("validation failed")

// ValidationError reports caller input that was rejected before any
// classification, costing or write took place.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationError builds a ValidationError for checks that live outside
// the entity types, such as cross-record consistency.
func NewValidationError(field, message string) error {
	return invalid(field, message)
}
