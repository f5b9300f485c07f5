// Package events defines event types and structures for form lifecycle notifications.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/formion/formion/pkg/models"
)

type EventType string

// Kafka/Watermill topics.
const Topic = "formion.events" // Topic for form and submission events

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Form lifecycle events.
	FormPublishedEvent   EventType = "form.published"
	FormUnpublishedEvent EventType = "form.unpublished"

	// Submission lifecycle events.
	SubmissionReceivedEvent  EventType = "submission.received"
	SubmissionProcessedEvent EventType = "submission.processed"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	FormID    string         `json:"form_id"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func NewBaseEvent(eventType EventType, formID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		FormID:    formID,
		Metadata:  make(map[string]any),
	}
}

type FormPublished struct {
	BaseEvent

	TenantSlug  string     `json:"tenant_slug"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

func (f FormPublished) GetType() EventType {
	return FormPublishedEvent
}

type FormUnpublished struct {
	BaseEvent

	TenantSlug string `json:"tenant_slug"`
}

func (f FormUnpublished) GetType() EventType {
	return FormUnpublishedEvent
}

// SubmissionReceived is emitted when a public submission passes validation
// and has been persisted.
type SubmissionReceived struct {
	BaseEvent

	SubmissionID string           `json:"submission_id"`
	TenantSlug   string           `json:"tenant_slug"`
	Answers      models.AnswerMap `json:"answers"`
	HasSignature bool             `json:"has_signature"`
	SubmittedAt  time.Time        `json:"submitted_at"`
}

func (s SubmissionReceived) GetType() EventType {
	return SubmissionReceivedEvent
}

// SubmissionProcessed is emitted when the document pipeline finishes a
// submission and its receipt is available.
type SubmissionProcessed struct {
	BaseEvent

	SubmissionID string    `json:"submission_id"`
	TenantSlug   string    `json:"tenant_slug"`
	DocumentURL  string    `json:"document_url"`
	DurationMs   int64     `json:"duration_ms"`
	ProcessedAt  time.Time `json:"processed_at"`
}

func (s SubmissionProcessed) GetType() EventType {
	return SubmissionProcessedEvent
}
