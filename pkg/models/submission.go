package models

import "time"

// SubmissionStatus tracks post-submission processing.
type SubmissionStatus string

const (
	SubmissionStatusReceived  SubmissionStatus = "received"  // Stored, document not yet generated
	SubmissionStatusProcessed SubmissionStatus = "processed" // Document artifacts available
)

// Submission is one completed answer set for a published form.
type Submission struct {
	ID           string           `json:"id"`
	FormID       string           `json:"form_id"`
	TenantSlug   string           `json:"tenant_slug"`
	Answers      AnswerMap        `json:"answers"`
	SignatureKey string           `json:"signature_key,omitempty"` // Object store key of the captured signature image
	DocumentURL  string           `json:"document_url,omitempty"`
	Status       SubmissionStatus `json:"status"`
	SubmittedAt  time.Time        `json:"submitted_at"`
	ProcessedAt  *time.Time       `json:"processed_at,omitempty"`
}

// Ready reports whether post-submission processing has finished.
func (s *Submission) Ready() bool {
	return s.Status == SubmissionStatusProcessed
}

// Clone returns a deep copy of the submission.
func (s *Submission) Clone() *Submission {
	clone := *s

	if s.Answers != nil {
		clone.Answers = make(AnswerMap, len(s.Answers))
		for k, v := range s.Answers {
			clone.Answers[k] = v
		}
	}

	if s.ProcessedAt != nil {
		at := *s.ProcessedAt
		clone.ProcessedAt = &at
	}

	return &clone
}
