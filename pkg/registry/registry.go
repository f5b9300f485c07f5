// Package registry holds the static catalogue of supported field types and
// their capability profiles. It is the single table consulted when building
// the palette and when deciding which property editors a field exposes;
// adding a field type is a one-row change here.
package registry

import "github.com/formion/formion/pkg/models"

// Definition describes one field type: its palette entry and which
// properties apply to it.
type Definition struct {
	Type  models.FieldType `json:"type"`
	Label string           `json:"label"`
	Icon  string           `json:"icon"`

	// HasPlaceholder reports whether the field accepts a placeholder.
	HasPlaceholder bool `json:"has_placeholder"`
	// Requirable reports whether the field can be marked required.
	Requirable bool `json:"requirable"`
	// HasOptions reports whether the field carries a select option list.
	HasOptions bool `json:"has_options"`
	// HasContent reports whether the field carries opaque rich content.
	HasContent bool `json:"has_content"`
}

// definitions is ordered; All returns it in palette order.
var definitions = []Definition{
	{Type: models.FieldTypeText, Label: "Text", Icon: "font", HasPlaceholder: true, Requirable: true},
	{Type: models.FieldTypeEmail, Label: "Email", Icon: "envelope", HasPlaceholder: true, Requirable: true},
	{Type: models.FieldTypeNumber, Label: "Number", Icon: "hashtag", HasPlaceholder: true, Requirable: true},
	{Type: models.FieldTypeDate, Label: "Date", Icon: "calendar", HasPlaceholder: true, Requirable: true},
	{Type: models.FieldTypeTextarea, Label: "Textarea", Icon: "align-left", HasPlaceholder: true, Requirable: true},
	{Type: models.FieldTypeCheckbox, Label: "Checkbox", Icon: "check-square", Requirable: true},
	{Type: models.FieldTypeSelect, Label: "Select", Icon: "list", HasPlaceholder: true, Requirable: true, HasOptions: true},
	{Type: models.FieldTypeContent, Label: "Content", Icon: "file", HasContent: true},
}

// All returns the palette in display order.
func All() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)

	return out
}

// Get looks up the definition for a field type.
func Get(fieldType models.FieldType) (Definition, bool) {
	for _, def := range definitions {
		if def.Type == fieldType {
			return def, true
		}
	}

	return Definition{}, false
}

// IsKnown reports whether the field type is part of the closed enumeration.
func IsKnown(fieldType models.FieldType) bool {
	_, ok := Get(fieldType)

	return ok
}
