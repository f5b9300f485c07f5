// Package validation derives the per-field error map the public renderer
// checks before allowing submission. Only presence is enforced here: format
// rules (email syntax, numeric ranges) are out of scope.
package validation

import (
	"fmt"
	"strings"

	"github.com/formion/formion/pkg/models"
)

const (
	// MessageRequired is attached to any required field left unanswered.
	MessageRequired = "This field is required"
	// MessageSignatureRequired is attached to required signature fields
	// with no captured drawing.
	MessageSignatureRequired = "Signature is required"
)

// Validate walks the fields in the given order and returns error messages
// keyed by field id. The full error set is re-derived from the current
// answer map on every call; an empty result means the form is submittable.
func Validate(fields []models.FormField, answers models.AnswerMap) map[string]string {
	errs := make(map[string]string)

	for _, field := range fields {
		// Content fields are display-only and carry no answer.
		if field.FieldType == models.FieldTypeContent {
			continue
		}

		if !field.Required {
			continue
		}

		value, present := answers[field.ID]

		switch {
		case field.IsSignature():
			if !present || strings.TrimSpace(asText(value)) == "" {
				errs[field.ID] = MessageSignatureRequired
			}
		case field.FieldType == models.FieldTypeCheckbox:
			checked, _ := value.(bool)
			if !checked {
				errs[field.ID] = MessageRequired
			}
		default:
			if !present || strings.TrimSpace(asText(value)) == "" {
				errs[field.ID] = MessageRequired
			}
		}
	}

	return errs
}

// asText coerces an answer value to its textual form for presence checks.
func asText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
