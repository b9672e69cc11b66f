package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrEmptyUpdate   = errors.New("no fields provided for update")
	ErrNotFound      = errors.New("order not found")
	ErrStoreWrite    = errors.New("failed to write order to store")
	ErrStoreRead     = errors.New("failed to read order from store")
	ErrConfiguration = errors.New("invalid configuration")
)

// FieldError describes a single rejected payload field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every field rejected while validating a payload.
type ValidationError struct {
	Fields []FieldError
	empty  bool
}

// NewValidationError builds ValidationError from field errors.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// NewEmptyUpdateError reports an update payload that changes nothing.
func NewEmptyUpdateError() *ValidationError {
	return &ValidationError{empty: true}
}

func (e *ValidationError) Error() string {
	if e.empty {
		return ErrEmptyUpdate.Error()
	}
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

// Is lets errors.Is match both ErrValidation and, for empty updates, ErrEmptyUpdate.
func (e *ValidationError) Is(target error) bool {
	if target == ErrValidation {
		return true
	}
	return e.empty && target == ErrEmptyUpdate
}

// ConfigurationError lists required settings missing at boot.
type ConfigurationError struct {
	Missing []string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	switch {
	case len(e.Missing) > 0 && e.Reason != "":
		return fmt.Sprintf("%s: %s (missing %s)", ErrConfiguration, e.Reason, strings.Join(e.Missing, ", "))
	case len(e.Missing) > 0:
		return fmt.Sprintf("%s: missing %s", ErrConfiguration, strings.Join(e.Missing, ", "))
	case e.Reason != "":
		return fmt.Sprintf("%s: %s", ErrConfiguration, e.Reason)
	default:
		return ErrConfiguration.Error()
	}
}

func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}
