// Package services provides standardized error types for service layer operations.
package services

import (
	"errors"
	"fmt"
)

// Business Logic Errors - These indicate client errors (4xx responses).
var (
	// Validation Errors (400 Bad Request).
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidSortField = errors.New("invalid sort field")
	ErrInvalidSortOrder = errors.New("invalid sort order")
	ErrInvalidStatus    = errors.New("invalid form status")
	ErrEmptyTenantSlug  = errors.New("tenant slug cannot be empty")

	// Form Validation Errors (400 Bad Request).
	ErrFormNameRequired  = errors.New("form name is required")
	ErrFieldsRequired    = errors.New("form must have at least one field")
	ErrFieldLabelMissing = errors.New("answerable fields must have a label")
	ErrFormNil           = errors.New("form cannot be nil")

	// Business Logic Conflicts (409 Conflict).
	ErrAlreadyPublished = errors.New("form is already published")
	ErrNotPublished     = errors.New("form is not published")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// FieldValidationError carries the per-field error map produced when a
// submitted answer set fails validation.
type FieldValidationError struct {
	Fields map[string]string
}

func (e *FieldValidationError) Error() string {
	return fmt.Sprintf("submission failed validation on %d fields", len(e.Fields))
}

func (e *FieldValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

// AsFieldValidationError extracts the per-field error map, if the error is a
// submission validation failure.
func AsFieldValidationError(err error) (*FieldValidationError, bool) {
	var fve *FieldValidationError
	if errors.As(err, &fve) {
		return fve, true
	}

	return nil, false
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidSortField) ||
		errors.Is(err, ErrInvalidSortOrder) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrEmptyTenantSlug) ||
		errors.Is(err, ErrFormNameRequired) ||
		errors.Is(err, ErrFieldsRequired) ||
		errors.Is(err, ErrFieldLabelMissing) ||
		errors.Is(err, ErrFormNil)
}

// IsConflictError checks if an error is a business logic conflict that should return HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrAlreadyPublished) ||
		errors.Is(err, ErrNotPublished)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
