// Package schema validates and decodes externally authored form definitions
// so a whole form can be imported in one call.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/formion/formion/pkg/models"
	"github.com/formion/formion/pkg/registry"
)

var ErrInvalidDefinition = errors.New("invalid form definition")

// formDefinitionSchema is the JSON schema every imported definition must
// satisfy before it is decoded into models.
const formDefinitionSchema = `{
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "fields": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["field_type", "label"],
        "properties": {
          "field_type": {
            "type": "string",
            "enum": ["text", "email", "number", "date", "textarea", "checkbox", "select", "content"]
          },
          "label": {"type": "string"},
          "placeholder": {"type": "string"},
          "required": {"type": "boolean"},
          "content": {"type": "string"},
          "options": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["label", "value"],
              "properties": {
                "label": {"type": "string"},
                "value": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`

type fieldDefinition struct {
	FieldType   models.FieldType         `json:"field_type"`
	Label       string                   `json:"label"`
	Placeholder string                   `json:"placeholder"`
	Required    bool                     `json:"required"`
	Content     string                   `json:"content"`
	Options     []models.FormFieldOption `json:"options"`
}

// FormDefinition is the decoded import payload.
type FormDefinition struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Fields      []fieldDefinition `json:"fields"`
}

// Parse validates raw JSON against the definition schema and materializes
// the field list with fresh ids and positional order.
func Parse(raw []byte) (*FormDefinition, []models.FormField, error) {
	schemaLoader := gojsonschema.NewStringLoader(formDefinitionSchema)
	dataLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidDefinition, err)
	}

	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}

		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidDefinition, strings.Join(details, "; "))
	}

	var definition FormDefinition

	err = json.Unmarshal(raw, &definition)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidDefinition, err)
	}

	fields := make([]models.FormField, 0, len(definition.Fields))

	for i, fd := range definition.Fields {
		def, known := registry.Get(fd.FieldType)
		if !known {
			return nil, nil, fmt.Errorf("%w: unknown field type %s", ErrInvalidDefinition, fd.FieldType)
		}

		if fd.Required && !def.Requirable {
			return nil, nil, fmt.Errorf("%w: field type %s cannot be required", ErrInvalidDefinition, fd.FieldType)
		}

		if len(fd.Options) > 0 && !def.HasOptions {
			return nil, nil, fmt.Errorf("%w: field type %s does not carry options", ErrInvalidDefinition, fd.FieldType)
		}

		if fd.Content != "" && !def.HasContent {
			return nil, nil, fmt.Errorf("%w: field type %s does not carry content", ErrInvalidDefinition, fd.FieldType)
		}

		field := models.FormField{
			ID:          models.NewFieldID(),
			FieldType:   fd.FieldType,
			Label:       fd.Label,
			Placeholder: fd.Placeholder,
			Required:    fd.Required,
			FieldOrder:  i,
			Content:     fd.Content,
		}

		if fd.FieldType == models.FieldTypeSelect {
			field.Options = append([]models.FormFieldOption{}, fd.Options...)
		}

		fields = append(fields, field)
	}

	return &definition, fields, nil
}
