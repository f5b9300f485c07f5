// Package persistence provides standardized error types for persistence
// operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrFormNotFound indicates a form was not found by the given identifier.
	ErrFormNotFound = errors.New("form not found")

	// ErrFormNotPublished indicates the form exists but is not publicly
	// reachable.
	ErrFormNotPublished = errors.New("form not published")

	// ErrSubmissionNotFound indicates a submission was not found by the
	// given identifier.
	ErrSubmissionNotFound = errors.New("submission not found")

	// ErrInvalidSortField indicates a listing requested an unsupported sort
	// column.
	ErrInvalidSortField = errors.New("invalid sort field")
)

// FormError wraps form-related errors with additional context.
type FormError struct {
	Op     string // Operation being performed (e.g. "GetByID", "Save", "Delete")
	FormID string
	Err    error
}

func (e *FormError) Error() string {
	return fmt.Sprintf("%s operation failed for form %s: %v", e.Op, e.FormID, e.Err)
}

func (e *FormError) Unwrap() error {
	return e.Err
}

func (e *FormError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewFormError creates a new form error with context.
func NewFormError(op, formID string, err error) *FormError {
	return &FormError{Op: op, FormID: formID, Err: err}
}

// SubmissionError wraps submission-related errors with additional context.
type SubmissionError struct {
	Op           string
	SubmissionID string
	Err          error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("%s operation failed for submission %s: %v", e.Op, e.SubmissionID, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

func (e *SubmissionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewSubmissionError creates a new submission error with context.
func NewSubmissionError(op, submissionID string, err error) *SubmissionError {
	return &SubmissionError{Op: op, SubmissionID: submissionID, Err: err}
}

// IsFormNotFound checks if an error indicates a form was not found.
func IsFormNotFound(err error) bool {
	return errors.Is(err, ErrFormNotFound)
}

// IsFormNotPublished checks if an error indicates a form is not published.
func IsFormNotPublished(err error) bool {
	return errors.Is(err, ErrFormNotPublished)
}

// IsSubmissionNotFound checks if an error indicates a submission was not
// found.
func IsSubmissionNotFound(err error) bool {
	return errors.Is(err, ErrSubmissionNotFound)
}

// IsInvalidSortField checks if an error indicates an unsupported sort field.
func IsInvalidSortField(err error) bool {
	return errors.Is(err, ErrInvalidSortField)
}
