// Package models defines the core domain models for form authoring and submission.
package models

import (
	"strings"

	"github.com/google/uuid"
)

// FieldType identifies the kind of input a form field collects. The set is
// closed; per-type capabilities live in the registry package.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeSelect   FieldType = "select"
	FieldTypeContent  FieldType = "content"
)

// FormFieldOption is one selectable choice of a select field. Duplicate
// values across options are tolerated; disambiguating them is left to the
// form author.
type FormFieldOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FormField is one ordered entry of a form schema.
//
// Invariants maintained by the builder: FieldOrder is unique and contiguous
// (0..n-1) within the owning form after every mutation, Options is populated
// only for select fields, Content only for content fields, and a content
// field is never required.
type FormField struct {
	ID          string            `json:"id"`
	FieldType   FieldType         `json:"field_type"`
	Label       string            `json:"label"`
	Placeholder string            `json:"placeholder,omitempty"`
	Required    bool              `json:"required"`
	FieldOrder  int               `json:"field_order"`
	Options     []FormFieldOption `json:"options,omitempty"`
	Content     string            `json:"content,omitempty"`
}

// IsSignature reports whether the field is rendered and validated as a
// freehand signature. Signature-ness is a label convention, not a field
// type: any field whose label contains "signature" (case-insensitive)
// qualifies. Existing authored forms rely on this.
func (f FormField) IsSignature() bool {
	return strings.Contains(strings.ToLower(f.Label), "signature")
}

// Clone returns a deep copy of the field.
func (f FormField) Clone() FormField {
	clone := f
	if f.Options != nil {
		clone.Options = make([]FormFieldOption, len(f.Options))
		copy(clone.Options, f.Options)
	}

	return clone
}

// CloneFields returns a deep copy of a field list.
func CloneFields(fields []FormField) []FormField {
	if fields == nil {
		return nil
	}

	clones := make([]FormField, len(fields))
	for i, f := range fields {
		clones[i] = f.Clone()
	}

	return clones
}

// NewFieldID generates a unique identifier for a freshly added field.
func NewFieldID() string {
	return "field-" + uuid.NewString()
}
