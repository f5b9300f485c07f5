package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/formion/formion/pkg/eventbus"
	"github.com/formion/formion/pkg/events"
	"github.com/formion/formion/pkg/models"
	"github.com/formion/formion/pkg/persistence"
	"github.com/formion/formion/pkg/validation"
)

var (
	// ErrSubmissionNotFound is returned when a submission is not found.
	ErrSubmissionNotFound = persistence.ErrSubmissionNotFound
)

// Submission is the public-side service: it serves published forms, accepts
// validated answer sets and answers status polls.
type Submission struct {
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
}

// NewSubmission creates a new submission service.
func NewSubmission(persistence persistence.Persistence, eventBus eventbus.EventBus) *Submission {
	return &Submission{
		persistence: persistence,
		eventBus:    eventBus,
	}
}

// PublicForm returns a form for the public fill-in flow. A form belonging to
// another tenant is reported as not found so tenant ids cannot be probed;
// a draft form is reported as not accepting submissions.
func (s *Submission) PublicForm(ctx context.Context, tenantSlug, formID string) (*models.Form, error) {
	form, err := s.persistence.FormRepository().GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}

	if form.TenantSlug != tenantSlug {
		return nil, persistence.NewFormError("PublicForm", formID, persistence.ErrFormNotFound)
	}

	if form.Status != models.FormStatusPublished {
		return nil, persistence.NewFormError("PublicForm", formID, persistence.ErrFormNotPublished)
	}

	return form, nil
}

// SubmitResponse is returned to the public renderer after a submission is
// accepted.
type SubmitResponse struct {
	SubmissionID string `json:"submission_id"`
}

// Submit validates the answers against the published form and stores the
// submission. Validation failures carry the per-field error map and never
// touch storage.
func (s *Submission) Submit(ctx context.Context, tenantSlug, formID string, answers models.AnswerMap) (*SubmitResponse, error) {
	form, err := s.PublicForm(ctx, tenantSlug, formID)
	if err != nil {
		return nil, err
	}

	fieldErrors := validation.Validate(form.SortedFields(), answers)
	if len(fieldErrors) > 0 {
		return nil, &FieldValidationError{Fields: fieldErrors}
	}

	now := time.Now().UTC()
	submission := &models.Submission{
		ID:          uuid.New().String(),
		FormID:      form.ID,
		TenantSlug:  tenantSlug,
		Answers:     stripContentAnswers(form, answers),
		Status:      models.SubmissionStatusReceived,
		SubmittedAt: now,
	}

	err = s.persistence.SubmissionRepository().Save(ctx, submission)
	if err != nil {
		return nil, fmt.Errorf("failed to save submission for form %s: %w", formID, err)
	}

	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, form.ID, events.SubmissionReceived{
			BaseEvent:    events.NewBaseEvent(events.SubmissionReceivedEvent, form.ID),
			SubmissionID: submission.ID,
			TenantSlug:   tenantSlug,
			Answers:      submission.Answers,
			HasSignature: hasSignatureAnswer(form, submission.Answers),
			SubmittedAt:  now,
		})
	}

	return &SubmitResponse{SubmissionID: submission.ID}, nil
}

// ListByForm returns a form's submissions for the admin review view,
// newest first.
func (s *Submission) ListByForm(ctx context.Context, formID string) ([]*models.Submission, error) {
	_, err := s.persistence.FormRepository().GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}

	submissions, err := s.persistence.SubmissionRepository().ListByForm(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions for form %s: %w", formID, err)
	}

	return submissions, nil
}

// StatusResponse is the poll result for a submission's post-processing.
type StatusResponse struct {
	Ready       bool   `json:"ready"`
	DocumentURL string `json:"document_url,omitempty"`
}

// Status reports whether a submission's document is ready.
func (s *Submission) Status(ctx context.Context, tenantSlug, submissionID string) (*StatusResponse, error) {
	submission, err := s.persistence.SubmissionRepository().GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	if submission.TenantSlug != tenantSlug {
		return nil, persistence.NewSubmissionError("Status", submissionID, persistence.ErrSubmissionNotFound)
	}

	response := &StatusResponse{Ready: submission.Ready()}
	if response.Ready {
		response.DocumentURL = submission.DocumentURL
	}

	return response, nil
}

// stripContentAnswers drops answers keyed to content fields; they carry no
// user input and must never be stored.
func stripContentAnswers(form *models.Form, answers models.AnswerMap) models.AnswerMap {
	contentIDs := make(map[string]bool)

	for _, field := range form.Fields {
		if field.FieldType == models.FieldTypeContent {
			contentIDs[field.ID] = true
		}
	}

	out := make(models.AnswerMap, len(answers))

	for id, value := range answers {
		if contentIDs[id] {
			continue
		}

		out[id] = value
	}

	return out
}

func hasSignatureAnswer(form *models.Form, answers models.AnswerMap) bool {
	for _, field := range form.Fields {
		if !field.IsSignature() {
			continue
		}

		value, ok := answers[field.ID].(string)
		if ok && value != "" {
			return true
		}
	}

	return false
}
