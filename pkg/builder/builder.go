// Package builder owns the editable draft of a form schema and its
// save/publish lifecycle.
package builder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/formion/formion/pkg/models"
	"github.com/formion/formion/pkg/registry"
)

var (
	ErrNameRequired     = errors.New("form name is required")
	ErrNotSaved         = errors.New("form has not been saved yet")
	ErrFieldNotFound    = errors.New("field not found in draft")
	ErrUnknownFieldType = errors.New("unknown field type")
	ErrNoOptions        = errors.New("field does not carry options")
	ErrOptionOutOfRange = errors.New("option index out of range")
	ErrIndexOutOfRange  = errors.New("field index out of range")
)

// Field properties editable through UpdateFieldProperty.
const (
	PropertyLabel       = "label"
	PropertyPlaceholder = "placeholder"
	PropertyRequired    = "required"
	PropertyContent     = "content"
)

// FormClient is the persistence collaborator the builder delegates to. It is
// satisfied by the admin HTTP client and, in tests, by fakes.
type FormClient interface {
	Create(ctx context.Context, name, description string) (*models.Form, error)
	Fetch(ctx context.Context, id string) (*models.Form, error)
	Update(ctx context.Context, id, name, description string, fields []models.FormField) (*models.Form, error)
	Publish(ctx context.Context, id string) (*models.Form, error)
	Unpublish(ctx context.Context, id string) (*models.Form, error)
}

// snapshot captures the last fetched or saved state of the form. Dirty
// detection compares the draft against it structurally.
type snapshot struct {
	name        string
	description string
	fields      string
}

// Session is one editing session over a single form draft. It is not safe for
// concurrent use; one session belongs to one editor.
type Session struct {
	client FormClient

	formID          string
	name            string
	description     string
	status          models.FormStatus
	fields          []models.FormField
	selectedFieldID string

	saved *snapshot
}

// NewSession starts a session over a brand-new, never-saved draft.
func NewSession(client FormClient) *Session {
	return &Session{
		client: client,
		status: models.FormStatusDraft,
		fields: []models.FormField{},
	}
}

// Load starts a session over an existing form fetched from the client.
func Load(ctx context.Context, client FormClient, formID string) (*Session, error) {
	form, err := client.Fetch(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to load form %s: %w", formID, err)
	}

	s := &Session{
		client:      client,
		formID:      form.ID,
		name:        form.Name,
		description: form.Description,
		status:      form.Status,
		fields:      form.SortedFields(),
	}
	s.saved = s.takeSnapshot()

	return s, nil
}

func (s *Session) FormID() string            { return s.formID }
func (s *Session) Name() string              { return s.name }
func (s *Session) Description() string       { return s.description }
func (s *Session) Status() models.FormStatus { return s.status }

// Fields returns a copy of the draft field list in display order.
func (s *Session) Fields() []models.FormField {
	return models.CloneFields(s.fields)
}

func (s *Session) SetName(name string) {
	s.name = name
}

func (s *Session) SetDescription(description string) {
	s.description = description
}

// AddField appends a new field of the given type and selects it.
func (s *Session) AddField(fieldType models.FieldType) (*models.FormField, error) {
	if !registry.IsKnown(fieldType) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFieldType, fieldType)
	}

	field := models.FormField{
		ID:         models.NewFieldID(),
		FieldType:  fieldType,
		Label:      "",
		Required:   false,
		FieldOrder: len(s.fields),
	}

	if fieldType == models.FieldTypeSelect {
		field.Options = []models.FormFieldOption{}
	}

	s.fields = append(s.fields, field)
	s.selectedFieldID = field.ID

	clone := field.Clone()

	return &clone, nil
}

// RemoveField deletes a field and renumbers the remaining ones. Removing the
// selected field clears the selection.
func (s *Session) RemoveField(fieldID string) error {
	index := s.indexOf(fieldID)
	if index < 0 {
		return fmt.Errorf("%w: %s", ErrFieldNotFound, fieldID)
	}

	s.fields = append(s.fields[:index], s.fields[index+1:]...)
	models.RenumberFields(s.fields)

	if s.selectedFieldID == fieldID {
		s.selectedFieldID = ""
	}

	return nil
}

// UpdateFieldProperty replaces a single property on a single field.
func (s *Session) UpdateFieldProperty(fieldID, property string, value any) error {
	index := s.indexOf(fieldID)
	if index < 0 {
		return fmt.Errorf("%w: %s", ErrFieldNotFound, fieldID)
	}

	field := &s.fields[index]

	switch property {
	case PropertyLabel:
		text, err := asString(property, value)
		if err != nil {
			return err
		}

		field.Label = text
	case PropertyPlaceholder:
		text, err := asString(property, value)
		if err != nil {
			return err
		}

		field.Placeholder = text
	case PropertyContent:
		text, err := asString(property, value)
		if err != nil {
			return err
		}

		field.Content = text
	case PropertyRequired:
		flag, ok := value.(bool)
		if !ok {
			return fmt.Errorf("property %s requires a boolean value, got %T", property, value)
		}

		if def, known := registry.Get(field.FieldType); known && !def.Requirable && flag {
			return fmt.Errorf("field type %s cannot be required", field.FieldType)
		}

		field.Required = flag
	default:
		return fmt.Errorf("unknown field property: %s", property)
	}

	return nil
}

// MoveField moves a field between positions and renumbers the list.
func (s *Session) MoveField(fromIndex, toIndex int) error {
	if fromIndex < 0 || fromIndex >= len(s.fields) || toIndex < 0 || toIndex >= len(s.fields) {
		return fmt.Errorf("%w: move %d -> %d over %d fields", ErrIndexOutOfRange, fromIndex, toIndex, len(s.fields))
	}

	s.fields = models.Reorder(s.fields, fromIndex, toIndex)

	return nil
}

// AddOption appends an empty option to a select field.
func (s *Session) AddOption(fieldID string) error {
	field, err := s.optionsField(fieldID)
	if err != nil {
		return err
	}

	field.Options = append(field.Options, models.FormFieldOption{})

	return nil
}

// UpdateOption replaces one property of one option.
func (s *Session) UpdateOption(fieldID string, index int, property string, value string) error {
	field, err := s.optionsField(fieldID)
	if err != nil {
		return err
	}

	if index < 0 || index >= len(field.Options) {
		return fmt.Errorf("%w: %d over %d options", ErrOptionOutOfRange, index, len(field.Options))
	}

	switch property {
	case "label":
		field.Options[index].Label = value
	case "value":
		field.Options[index].Value = value
	default:
		return fmt.Errorf("unknown option property: %s", property)
	}

	return nil
}

// RemoveOption deletes one option. Option values are free text, so no
// renumbering happens.
func (s *Session) RemoveOption(fieldID string, index int) error {
	field, err := s.optionsField(fieldID)
	if err != nil {
		return err
	}

	if index < 0 || index >= len(field.Options) {
		return fmt.Errorf("%w: %d over %d options", ErrOptionOutOfRange, index, len(field.Options))
	}

	field.Options = append(field.Options[:index], field.Options[index+1:]...)

	return nil
}

// SelectField marks a field as the one being edited.
func (s *Session) SelectField(fieldID string) error {
	if s.indexOf(fieldID) < 0 {
		return fmt.Errorf("%w: %s", ErrFieldNotFound, fieldID)
	}

	s.selectedFieldID = fieldID

	return nil
}

func (s *Session) ClearSelection() {
	s.selectedFieldID = ""
}

// SelectedField returns a copy of the currently selected field, or nil.
func (s *Session) SelectedField() *models.FormField {
	index := s.indexOf(s.selectedFieldID)
	if index < 0 {
		return nil
	}

	clone := s.fields[index].Clone()

	return &clone
}

// IsDirty reports whether the draft differs from the last saved state. A
// never-saved draft is dirty once it has a name or any field.
func (s *Session) IsDirty() bool {
	if s.saved == nil {
		return strings.TrimSpace(s.name) != "" || len(s.fields) > 0
	}

	if s.name != s.saved.name {
		return true
	}

	if normalizeDescription(s.description) != normalizeDescription(s.saved.description) {
		return true
	}

	return serializeFields(s.fields) != s.saved.fields
}

// Save creates or updates the form through the client. The draft is kept
// intact on failure so edits are never lost.
func (s *Session) Save(ctx context.Context) error {
	if strings.TrimSpace(s.name) == "" {
		return ErrNameRequired
	}

	if s.formID == "" {
		form, err := s.client.Create(ctx, s.name, s.description)
		if err != nil {
			return fmt.Errorf("failed to create form: %w", err)
		}

		s.formID = form.ID

		if len(s.fields) > 0 {
			form, err = s.client.Update(ctx, s.formID, s.name, s.description, models.CloneFields(s.fields))
			if err != nil {
				return fmt.Errorf("failed to save fields for form %s: %w", s.formID, err)
			}
		}

		s.status = form.Status
		s.saved = s.takeSnapshot()

		return nil
	}

	form, err := s.client.Update(ctx, s.formID, s.name, s.description, models.CloneFields(s.fields))
	if err != nil {
		return fmt.Errorf("failed to update form %s: %w", s.formID, err)
	}

	s.status = form.Status
	s.saved = s.takeSnapshot()

	return nil
}

// TogglePublish flips the form between draft and published through the
// client. It never changes the draft's fields.
func (s *Session) TogglePublish(ctx context.Context) error {
	if s.formID == "" {
		return ErrNotSaved
	}

	if s.status == models.FormStatusPublished {
		form, err := s.client.Unpublish(ctx, s.formID)
		if err != nil {
			return fmt.Errorf("failed to unpublish form %s: %w", s.formID, err)
		}

		s.status = form.Status

		return nil
	}

	form, err := s.client.Publish(ctx, s.formID)
	if err != nil {
		return fmt.Errorf("failed to publish form %s: %w", s.formID, err)
	}

	s.status = form.Status

	return nil
}

func (s *Session) indexOf(fieldID string) int {
	if fieldID == "" {
		return -1
	}

	for i := range s.fields {
		if s.fields[i].ID == fieldID {
			return i
		}
	}

	return -1
}

func (s *Session) optionsField(fieldID string) (*models.FormField, error) {
	index := s.indexOf(fieldID)
	if index < 0 {
		return nil, fmt.Errorf("%w: %s", ErrFieldNotFound, fieldID)
	}

	field := &s.fields[index]
	if field.FieldType != models.FieldTypeSelect {
		return nil, fmt.Errorf("%w: %s is %s", ErrNoOptions, fieldID, field.FieldType)
	}

	return field, nil
}

func (s *Session) takeSnapshot() *snapshot {
	return &snapshot{
		name:        s.name,
		description: s.description,
		fields:      serializeFields(s.fields),
	}
}

// serializeFields renders the full field list to a canonical string so that
// ordering and every property participate in the dirty comparison.
func serializeFields(fields []models.FormField) string {
	data, err := json.Marshal(fields)
	if err != nil {
		return ""
	}

	return string(data)
}

func normalizeDescription(description string) string {
	return strings.TrimSpace(description)
}

func asString(property string, value any) (string, error) {
	text, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("property %s requires a string value, got %T", property, value)
	}

	return text, nil
}
