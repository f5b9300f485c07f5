// Package renderer interprets a published form schema for the public fill-in
// flow: it dispatches fields to input controls, accumulates the answer map,
// and gates submission on the validation engine.
package renderer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/formion/formion/pkg/models"
	"github.com/formion/formion/pkg/validation"
)

var ErrFormNotPublished = errors.New("form is not accepting submissions")

// ControlKind names the input control a field renders as.
type ControlKind string

const (
	ControlText      ControlKind = "text"
	ControlEmail     ControlKind = "email"
	ControlNumber    ControlKind = "number"
	ControlDate      ControlKind = "date"
	ControlTextarea  ControlKind = "textarea"
	ControlCheckbox  ControlKind = "checkbox"
	ControlSelect    ControlKind = "select"
	ControlContent   ControlKind = "content"
	ControlSignature ControlKind = "signature"
)

// Control is one renderable unit of a published form.
type Control struct {
	Field models.FormField
	Kind  ControlKind

	// ContentHTML carries the sanitized rich content for content controls.
	ContentHTML string
}

var (
	contentPolicyOnce sync.Once
	contentPolicy     *bluemonday.Policy
)

// contentSanitizer returns the policy applied to authored rich content
// before it reaches an anonymous visitor's browser.
func contentSanitizer() *bluemonday.Policy {
	contentPolicyOnce.Do(func() {
		contentPolicy = bluemonday.UGCPolicy()
	})

	return contentPolicy
}

// controlKindFor picks the control for a field. A field whose label matches
// the signature predicate renders the signature widget regardless of its
// nominal type.
func controlKindFor(field models.FormField) ControlKind {
	if field.IsSignature() {
		return ControlSignature
	}

	switch field.FieldType {
	case models.FieldTypeEmail:
		return ControlEmail
	case models.FieldTypeNumber:
		return ControlNumber
	case models.FieldTypeDate:
		return ControlDate
	case models.FieldTypeTextarea:
		return ControlTextarea
	case models.FieldTypeCheckbox:
		return ControlCheckbox
	case models.FieldTypeSelect:
		return ControlSelect
	case models.FieldTypeContent:
		return ControlContent
	case models.FieldTypeText:
		return ControlText
	default:
		return ControlText
	}
}

// SubmissionClient is the external collaborator the renderer submits
// through.
type SubmissionClient interface {
	Submit(ctx context.Context, tenantSlug, formID string, answers models.AnswerMap) (string, error)
	PollStatus(ctx context.Context, tenantSlug, submissionID string) (*SubmissionStatus, error)
}

// SubmissionStatus is the poll result for asynchronous post-processing.
type SubmissionStatus struct {
	Ready       bool   `json:"ready"`
	DocumentURL string `json:"document_url,omitempty"`
}

// Session is one anonymous visitor filling in one published form. Not safe
// for concurrent use.
type Session struct {
	client     SubmissionClient
	tenantSlug string

	form     *models.Form
	controls []Control
	answers  models.AnswerMap
	errors   map[string]string
}

// NewSession builds a renderer session over a published form. Draft forms
// are rejected so an unpublished schema is never publicly fillable.
func NewSession(client SubmissionClient, tenantSlug string, form *models.Form) (*Session, error) {
	if form.Status != models.FormStatusPublished {
		return nil, fmt.Errorf("%w: form %s is %s", ErrFormNotPublished, form.ID, form.Status)
	}

	fields := form.SortedFields()
	controls := make([]Control, 0, len(fields))

	for _, field := range fields {
		control := Control{Field: field, Kind: controlKindFor(field)}
		if control.Kind == ControlContent {
			control.ContentHTML = contentSanitizer().Sanitize(field.Content)
		}

		controls = append(controls, control)
	}

	return &Session{
		client:     client,
		tenantSlug: tenantSlug,
		form:       form.Clone(),
		controls:   controls,
		answers:    models.AnswerMap{},
		errors:     map[string]string{},
	}, nil
}

// Controls returns the renderable controls in display order.
func (s *Session) Controls() []Control {
	out := make([]Control, len(s.controls))
	copy(out, s.controls)

	return out
}

// SetAnswer records a visitor's answer for one field. Content fields carry
// no answer and are ignored.
func (s *Session) SetAnswer(fieldID string, value any) {
	for _, control := range s.controls {
		if control.Field.ID != fieldID {
			continue
		}

		if control.Kind == ControlContent {
			return
		}

		s.answers[fieldID] = value

		return
	}
}

// Answer returns the current answer for a field.
func (s *Session) Answer(fieldID string) (any, bool) {
	value, ok := s.answers[fieldID]

	return value, ok
}

// Errors returns the per-field error map from the last Submit call.
func (s *Session) Errors() map[string]string {
	out := make(map[string]string, len(s.errors))
	for id, msg := range s.errors {
		out[id] = msg
	}

	return out
}

// Submit validates the full answer map and, when clean, hands it to the
// submission collaborator. It returns the submission id on success. When
// validation fails, the error map is retained for inline display and no
// network call happens.
func (s *Session) Submit(ctx context.Context) (string, error) {
	s.errors = validation.Validate(s.form.Fields, s.answers)
	if len(s.errors) > 0 {
		return "", fmt.Errorf("form has %d validation errors", len(s.errors))
	}

	submissionID, err := s.client.Submit(ctx, s.tenantSlug, s.form.ID, s.cleanAnswers())
	if err != nil {
		return "", fmt.Errorf("failed to submit form %s: %w", s.form.ID, err)
	}

	return submissionID, nil
}

// cleanAnswers strips entries that must never ship, such as answers
// accidentally keyed to content fields, and trims plain text values.
func (s *Session) cleanAnswers() models.AnswerMap {
	out := models.AnswerMap{}

	for _, control := range s.controls {
		value, ok := s.answers[control.Field.ID]
		if !ok || control.Kind == ControlContent {
			continue
		}

		if text, isText := value.(string); isText && control.Kind != ControlSignature {
			value = strings.TrimSpace(text)
		}

		out[control.Field.ID] = value
	}

	return out
}
