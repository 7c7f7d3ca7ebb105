package services

import (
	"errors"
	"strings"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrForbidden          = errors.New("not allowed")
	ErrUnauthorized       = errors.New("missing or invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Validation error codes.
const (
	CodeRequired        = "validation_required"
	CodeInvalidValue    = "validation_invalid_value"
	CodeTooShort        = "validation_min_text_constraint"
	CodeTooMany         = "validation_max_select_constraint"
	CodeValuesMismatch  = "validation_values_mismatch"
	CodeInvalidPassword = "validation_invalid_old_password"
	CodeMissingRelation = "validation_missing_rel_records"
)

type FieldError struct {
	Field   string
	Code    string
	Message string
}

// ValidationError reports rejected input. Fields keep the order in which the
// checks ran.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func (validationError *ValidationError) Error() string {
	if len(validationError.Fields) == 0 {
		return validationError.Message
	}
	parts := make([]string, len(validationError.Fields))
	for i, field := range validationError.Fields {
		parts[i] = field.Field + ": " + field.Message
	}
	return validationError.Message + " (" + strings.Join(parts, "; ") + ")"
}

func (validationError *ValidationError) Add(field, code, message string) {
	validationError.Fields = append(validationError.Fields, FieldError{Field: field, Code: code, Message: message})
}

// OrNil returns nil when no field was rejected.
func (validationError *ValidationError) OrNil() error {
	if len(validationError.Fields) == 0 {
		return nil
	}
	return validationError
}

func newValidationError() *ValidationError {
	return &ValidationError{Message: "Failed to validate the submitted data."}
}

func invalidRequest(message string) *ValidationError {
	return &ValidationError{Message: message}
}
