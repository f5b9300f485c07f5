package models

import (
	"sort"
	"time"
)

// FormStatus represents the lifecycle state of a form.
type FormStatus string

const (
	FormStatusDraft     FormStatus = "draft"     // Editable, not publicly reachable
	FormStatusPublished FormStatus = "published" // Publicly reachable, accepting submissions
)

// Form is an authored, reusable schema of ordered fields that an anonymous
// end user later fills in. It transitions draft <-> published only through
// the explicit publish and unpublish operations.
type Form struct {
	ID          string      `json:"id"`
	TenantSlug  string      `json:"tenant_slug"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Status      FormStatus  `json:"status"`
	Fields      []FormField `json:"fields"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	PublishedAt *time.Time  `json:"published_at,omitempty"`
}

// FormSummary is the read-optimized listing projection of a form.
type FormSummary struct {
	ID          string     `json:"id"`
	TenantSlug  string     `json:"tenant_slug"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      FormStatus `json:"status"`
	FieldCount  int        `json:"field_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Summary projects the form into its listing shape.
func (f *Form) Summary() FormSummary {
	return FormSummary{
		ID:          f.ID,
		TenantSlug:  f.TenantSlug,
		Name:        f.Name,
		Description: f.Description,
		Status:      f.Status,
		FieldCount:  len(f.Fields),
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// SortedFields returns the fields in ascending FieldOrder. Stored orders may
// arrive stale, so display code must go through this instead of trusting
// slice position.
func (f *Form) SortedFields() []FormField {
	fields := CloneFields(f.Fields)
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].FieldOrder < fields[j].FieldOrder
	})

	return fields
}

// Clone returns a deep copy of the form.
func (f *Form) Clone() *Form {
	clone := *f
	clone.Fields = CloneFields(f.Fields)

	if f.PublishedAt != nil {
		at := *f.PublishedAt
		clone.PublishedAt = &at
	}

	return &clone
}

// AnswerMap holds an end user's filled-in values keyed by field id. Values
// are strings, booleans (checkboxes), or opaque image strings (signatures).
// Content fields never contribute an entry.
type AnswerMap map[string]any
