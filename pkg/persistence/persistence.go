// Package persistence provides the data storage abstraction for forms and
// submissions.
package persistence

import (
	"context"

	"github.com/formion/formion/pkg/models"
)

type Persistence interface {
	FormRepository() FormRepository
	SubmissionRepository() SubmissionRepository
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// ListFormsOptions controls filtering, sorting, and pagination for form
// listings.
type ListFormsOptions struct {
	Limit      int
	Offset     int
	TenantSlug string
	Status     *models.FormStatus
	SortBy     string // created_at, updated_at, name
	SortOrder  string // asc, desc
}

// FormListResult is a page of form summaries.
type FormListResult struct {
	Forms       []models.FormSummary `json:"forms"`
	TotalCount  int64                `json:"total_count"`
	HasNextPage bool                 `json:"has_next_page"`
}

type FormRepository interface {
	GetByID(ctx context.Context, id string) (*models.Form, error)
	Save(ctx context.Context, form *models.Form) error
	Delete(ctx context.Context, id string) error
	ListForms(ctx context.Context, opts ListFormsOptions) (*FormListResult, error)
}

type SubmissionRepository interface {
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	Save(ctx context.Context, submission *models.Submission) error
	ListByForm(ctx context.Context, formID string) ([]*models.Submission, error)
}
