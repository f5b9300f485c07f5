package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/formion/formion/pkg/eventbus"
	"github.com/formion/formion/pkg/events"
	"github.com/formion/formion/pkg/models"
	"github.com/formion/formion/pkg/persistence"
	"github.com/formion/formion/pkg/registry"
)

var (
	// ErrFormNotFound is returned when a form is not found.
	ErrFormNotFound = persistence.ErrFormNotFound
)

// Form is the admin-side service owning the form lifecycle.
type Form struct {
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
}

// NewForm creates a new form service.
func NewForm(persistence persistence.Persistence, eventBus eventbus.EventBus) *Form {
	return &Form{
		persistence: persistence,
		eventBus:    eventBus,
	}
}

// HealthCheck checks the health of the persistence layer.
func (f *Form) HealthCheck(ctx context.Context) (string, bool) {
	if f.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := f.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// ListFormsRequest contains options for listing forms.
type ListFormsRequest struct {
	// Pagination
	Limit  int `validate:"min=1,max=100"`
	Offset int `validate:"min=0"`

	// Filtering
	TenantSlug string
	Status     *models.FormStatus

	// Sorting
	SortBy    string `validate:"oneof=created_at updated_at name"`
	SortOrder string `validate:"oneof=asc desc"`
}

// ListFormsResponse contains the result of listing forms.
type ListFormsResponse struct {
	Forms       []models.FormSummary `json:"forms"`
	TotalCount  int64                `json:"total_count"`
	HasNextPage bool                 `json:"has_next_page"`
}

// ListForms retrieves form summaries with filtering, sorting, and pagination.
func (f *Form) ListForms(ctx context.Context, req ListFormsRequest) (*ListFormsResponse, error) {
	if err := f.validateListFormsRequest(&req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	opts := persistence.ListFormsOptions{
		Limit:      req.Limit,
		Offset:     req.Offset,
		TenantSlug: req.TenantSlug,
		Status:     req.Status,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}

	result, err := f.persistence.FormRepository().ListForms(ctx, opts)
	if err != nil {
		if persistence.IsInvalidSortField(err) {
			return nil, ErrInvalidSortField
		}

		return nil, fmt.Errorf("failed to list forms: %w", err)
	}

	return &ListFormsResponse{
		Forms:       result.Forms,
		TotalCount:  result.TotalCount,
		HasNextPage: result.HasNextPage,
	}, nil
}

func (f *Form) validateListFormsRequest(req *ListFormsRequest) error {
	if req.Limit <= 0 {
		req.Limit = 20
	}

	if req.Limit > 100 {
		req.Limit = 100
	}

	if req.Offset < 0 {
		req.Offset = 0
	}

	if req.SortBy == "" {
		req.SortBy = "created_at"
	}

	if req.SortOrder == "" {
		req.SortOrder = "desc"
	}

	allowedSorts := []string{"created_at", "updated_at", "name"}

	if !slices.Contains(allowedSorts, req.SortBy) {
		return NewValidationError(
			"validateListFormsRequest",
			"INVALID_SORT_FIELD",
			fmt.Sprintf("invalid sort field '%s', allowed: %s", req.SortBy, strings.Join(allowedSorts, ", ")),
			ErrInvalidSortField,
		)
	}

	if req.SortOrder != "asc" && req.SortOrder != "desc" {
		return NewValidationError(
			"validateListFormsRequest",
			"INVALID_SORT_ORDER",
			fmt.Sprintf("invalid sort order '%s', allowed: asc, desc", req.SortOrder),
			ErrInvalidSortOrder,
		)
	}

	if req.Status != nil {
		allowedStatuses := []models.FormStatus{
			models.FormStatusDraft,
			models.FormStatusPublished,
		}

		if !slices.Contains(allowedStatuses, *req.Status) {
			return NewValidationError(
				"validateListFormsRequest",
				"INVALID_STATUS",
				fmt.Sprintf("invalid status '%s'", *req.Status),
				ErrInvalidStatus,
			)
		}
	}

	return nil
}

// FetchByID retrieves a form by its ID.
func (f *Form) FetchByID(ctx context.Context, id string) (*models.Form, error) {
	form, err := f.persistence.FormRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return form, nil
}

// Create adds a new empty draft form.
func (f *Form) Create(ctx context.Context, tenantSlug, name, description string) (*models.Form, error) {
	if strings.TrimSpace(tenantSlug) == "" {
		return nil, ErrEmptyTenantSlug
	}

	if strings.TrimSpace(name) == "" {
		return nil, ErrFormNameRequired
	}

	now := time.Now().UTC()
	form := &models.Form{
		ID:          uuid.New().String(),
		TenantSlug:  tenantSlug,
		Name:        name,
		Description: description,
		Status:      models.FormStatusDraft,
		Fields:      []models.FormField{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := f.persistence.FormRepository().Save(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}

	return form, nil
}

// Update replaces a form's name, description and field list. The stored
// status and timestamps survive; field order is renumbered so the saved list
// always carries contiguous positional indices.
func (f *Form) Update(ctx context.Context, formID, name, description string, fields []models.FormField) (*models.Form, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrFormNameRequired
	}

	if err := f.validateFields(fields); err != nil {
		return nil, err
	}

	existing, err := f.persistence.FormRepository().GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}

	existing.Name = name
	existing.Description = description
	existing.Fields = models.RenumberFields(models.CloneFields(fields))
	existing.UpdatedAt = time.Now().UTC()

	err = f.persistence.FormRepository().Save(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("failed to update form %s: %w", formID, err)
	}

	return existing, nil
}

func (f *Form) validateFields(fields []models.FormField) error {
	for _, field := range fields {
		def, known := registry.Get(field.FieldType)
		if !known {
			return NewValidationError(
				"validateFields",
				"UNKNOWN_FIELD_TYPE",
				fmt.Sprintf("unknown field type '%s'", field.FieldType),
				ErrInvalidRequest,
			)
		}

		if field.Required && !def.Requirable {
			return NewValidationError(
				"validateFields",
				"FIELD_NOT_REQUIRABLE",
				fmt.Sprintf("field type '%s' cannot be required", field.FieldType),
				ErrInvalidRequest,
			)
		}

		if len(field.Options) > 0 && !def.HasOptions {
			return NewValidationError(
				"validateFields",
				"FIELD_HAS_NO_OPTIONS",
				fmt.Sprintf("field type '%s' does not carry options", field.FieldType),
				ErrInvalidRequest,
			)
		}

		if field.Content != "" && !def.HasContent {
			return NewValidationError(
				"validateFields",
				"FIELD_HAS_NO_CONTENT",
				fmt.Sprintf("field type '%s' does not carry content", field.FieldType),
				ErrInvalidRequest,
			)
		}
	}

	return nil
}

// Delete removes a form by its ID.
func (f *Form) Delete(ctx context.Context, formID string) error {
	_, err := f.persistence.FormRepository().GetByID(ctx, formID)
	if err != nil {
		return err
	}

	err = f.persistence.FormRepository().Delete(ctx, formID)
	if err != nil {
		return fmt.Errorf("failed to delete form %s: %w", formID, err)
	}

	return nil
}

// Publish makes a form publicly reachable. A form needs a name, at least
// one field, and a label on every answerable field before it can go live.
func (f *Form) Publish(ctx context.Context, formID string) (*models.Form, error) {
	form, err := f.persistence.FormRepository().GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}

	if form.Status == models.FormStatusPublished {
		return nil, ErrAlreadyPublished
	}

	if strings.TrimSpace(form.Name) == "" {
		return nil, ErrFormNameRequired
	}

	if len(form.Fields) == 0 {
		return nil, ErrFieldsRequired
	}

	for _, field := range form.Fields {
		if def, known := registry.Get(field.FieldType); known && def.HasContent {
			continue
		}

		if strings.TrimSpace(field.Label) == "" {
			return nil, NewValidationError(
				"Publish",
				"FIELD_LABEL_MISSING",
				fmt.Sprintf("field '%s' needs a label before the form can be published", field.ID),
				ErrFieldLabelMissing,
			)
		}
	}

	now := time.Now().UTC()
	form.Status = models.FormStatusPublished
	form.PublishedAt = &now
	form.UpdatedAt = now

	err = f.persistence.FormRepository().Save(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("failed to publish form %s: %w", formID, err)
	}

	f.publishEvent(ctx, form.ID, events.FormPublished{
		BaseEvent:   events.NewBaseEvent(events.FormPublishedEvent, form.ID),
		TenantSlug:  form.TenantSlug,
		PublishedAt: form.PublishedAt,
	})

	return form, nil
}

// Unpublish takes a published form offline again.
func (f *Form) Unpublish(ctx context.Context, formID string) (*models.Form, error) {
	form, err := f.persistence.FormRepository().GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}

	if form.Status != models.FormStatusPublished {
		return nil, ErrNotPublished
	}

	form.Status = models.FormStatusDraft
	form.PublishedAt = nil
	form.UpdatedAt = time.Now().UTC()

	err = f.persistence.FormRepository().Save(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("failed to unpublish form %s: %w", formID, err)
	}

	f.publishEvent(ctx, form.ID, events.FormUnpublished{
		BaseEvent:  events.NewBaseEvent(events.FormUnpublishedEvent, form.ID),
		TenantSlug: form.TenantSlug,
	})

	return form, nil
}

// publishEvent emits a lifecycle event. Event delivery is best effort and
// never fails the triggering operation.
func (f *Form) publishEvent(ctx context.Context, key string, event eventbus.Event) {
	if f.eventBus == nil {
		return
	}

	_ = f.eventBus.Publish(ctx, key, event)
}
