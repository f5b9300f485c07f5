// Package web provides HTTP request and response types for the form API.
package web

import (
	"encoding/json"
	"time"

	"github.com/formion/formion/pkg/models"
)

// CreateFormRequest represents the request body for creating a new form.
type CreateFormRequest struct {
	TenantSlug  string `json:"tenant_slug" validate:"required"`
	Name        string `json:"name"        validate:"required,min=1"`
	Description string `json:"description"`
}

// UpdateFormRequest represents the request body for updating an existing form.
// All fields are optional to support partial updates; Fields, when present,
// replaces the whole field list.
type UpdateFormRequest struct {
	Name        *string             `json:"name,omitempty" validate:"omitempty,min=1"`
	Description *string             `json:"description,omitempty"`
	Fields      *[]models.FormField `json:"fields,omitempty"`
}

// ImportFormRequest represents the request body for importing a complete
// form definition in one call.
type ImportFormRequest struct {
	TenantSlug string          `json:"tenant_slug" validate:"required"`
	Definition json.RawMessage `json:"definition"  validate:"required"`
}

// SubmitFormRequest represents the request body for a public submission.
type SubmitFormRequest struct {
	Answers models.AnswerMap `json:"answers" validate:"required"`
}

// PublicFormResponse is the published form as the anonymous renderer sees
// it. Internal bookkeeping such as tenant slug and timestamps stays out.
type PublicFormResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Fields      []models.FormField `json:"fields"`
	PublishedAt *time.Time         `json:"published_at,omitempty"`
}

// TransformPublicFormResponse projects a form for public consumption with
// fields in display order.
func TransformPublicFormResponse(form *models.Form) PublicFormResponse {
	return PublicFormResponse{
		ID:          form.ID,
		Name:        form.Name,
		Description: form.Description,
		Fields:      form.SortedFields(),
		PublishedAt: form.PublishedAt,
	}
}
