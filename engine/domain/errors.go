package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for spec validation and encoding resolution failures.
var (
	ErrUnknownBrand        = errors.New("brand not in encoding catalog")
	ErrUnknownModel        = errors.New("model not in encoding catalog")
	ErrUnknownFuel         = errors.New("unknown fuel type")
	ErrYearOutOfRange      = errors.New("year out of range")
	ErrNegativeEngine      = errors.New("engine displacement must be non-negative")
	ErrNegativeMileage     = errors.New("mileage must be non-negative")
	ErrConditionOutOfRange = errors.New("condition factor must be in (0,1]")
	ErrNegativePower       = errors.New("power must be non-negative")
)

// ValidationError wraps a sentinel with the offending field and value.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}
