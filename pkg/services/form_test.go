package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formion/formion/pkg/models"
	"github.com/formion/formion/pkg/persistence"
	"github.com/formion/formion/pkg/persistence/file"
)

func TestNewForm(t *testing.T) {
	p := file.NewPersistence(t.TempDir())
	service := NewForm(p, nil)

	assert.NotNil(t, service)
	assert.Equal(t, p, service.persistence)
}

func TestForm_Create(t *testing.T) {
	service := NewForm(file.NewPersistence(t.TempDir()), nil)

	created, err := service.Create(t.Context(), "acme", "Waiver", "Sign before entry")
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "acme", created.TenantSlug)
	assert.Equal(t, models.FormStatusDraft, created.Status)
	assert.Empty(t, created.Fields)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.IsZero())
}

func TestForm_CreateValidation(t *testing.T) {
	service := NewForm(file.NewPersistence(t.TempDir()), nil)

	_, err := service.Create(t.Context(), "acme", "   ", "")
	require.ErrorIs(t, err, ErrFormNameRequired)
	assert.True(t, IsValidationError(err))

	_, err = service.Create(t.Context(), "", "Waiver", "")
	require.ErrorIs(t, err, ErrEmptyTenantSlug)
}

func TestForm_UpdateRenumbersFields(t *testing.T) {
	service := NewForm(file.NewPersistence(t.TempDir()), nil)

	created, err := service.Create(t.Context(), "acme", "Waiver", "")
	require.NoError(t, err)

	// Orders arrive stale on purpose; the saved list must be renumbered.
	fields := []models.FormField{
		{ID: "f-1", FieldType: models.FieldTypeText, Label: "Full Name", Required: true, FieldOrder: 7},
		{ID: "f-2", FieldType: models.FieldTypeCheckbox, Label: "I agree", Required: true, FieldOrder: 3},
	}

	updated, err := service.Update(t.Context(), created.ID, "Waiver v2", "desc", fields)
	require.NoError(t, err)

	assert.Equal(t, "Waiver v2", updated.Name)
	require.Len(t, updated.Fields, 2)
	assert.Equal(t, 0, updated.Fields[0].FieldOrder)
	assert.Equal(t, 1, updated.Fields[1].FieldOrder)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestForm_UpdateValidatesCapabilities(t *testing.T) {
	service := NewForm(file.NewPersistence(t.TempDir()), nil)

	created, err := service.Create(t.Context(), "acme", "Waiver", "")
	require.NoError(t, err)

	_, err = service.Update(t.Context(), created.ID, "Waiver", "", []models.FormField{
		{ID: "f-1", FieldType: models.FieldType("ranking"), Label: "Rank"},
	})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	_, err = service.Update(t.Context(), created.ID, "Waiver", "", []models.FormField{
		{ID: "f-1", FieldType: models.FieldTypeContent, Label: "Terms", Required: true},
	})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	_, err = service.Update(t.Context(), created.ID, "Waiver", "", []models.FormField{
		{ID: "f-1", FieldType: models.FieldTypeText, Label: "Name",
			Options: []models.FormFieldOption{{Label: "A", Value: "a"}}},
	})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestForm_PublishLifecycle(t *testing.T) {
	service := NewForm(file.NewPersistence(t.TempDir()), nil)

	created, err := service.Create(t.Context(), "acme", "Waiver", "")
	require.NoError(t, err)

	// Publishing an empty form is rejected.
	_, err = service.Publish(t.Context(), created.ID)
	require.ErrorIs(t, err, ErrFieldsRequired)

	_, err = service.Update(t.Context(), created.ID, "Waiver", "", []models.FormField{
		{ID: "f-1", FieldType: models.FieldTypeText, Label: "Full Name", Required: true},
	})
	require.NoError(t, err)

	published, err := service.Publish(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FormStatusPublished, published.Status)
	require.NotNil(t, published.PublishedAt)

	_, err = service.Publish(t.Context(), created.ID)
	require.ErrorIs(t, err, ErrAlreadyPublished)
	assert.True(t, IsConflictError(err))

	unpublished, err := service.Unpublish(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FormStatusDraft, unpublished.Status)
	assert.Nil(t, unpublished.PublishedAt)

	_, err = service.Unpublish(t.Context(), created.ID)
	require.ErrorIs(t, err, ErrNotPublished)
}

func TestForm_PublishRequiresFieldLabels(t *testing.T) {
	service := NewForm(file.NewPersistence(t.TempDir()), nil)

	created, err := service.Create(t.Context(), "acme", "Waiver", "")
	require.NoError(t, err)

	_, err = service.Update(t.Context(), created.ID, "Waiver", "", []models.FormField{
		{ID: "f-1", FieldType: models.FieldTypeText, Label: "", Required: true},
	})
	require.NoError(t, err)

	// A blank label on an answerable field keeps the form in draft.
	_, err = service.Publish(t.Context(), created.ID)
	require.ErrorIs(t, err, ErrFieldLabelMissing)
	assert.True(t, IsValidationError(err))

	form, err := service.FetchByID(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FormStatusDraft, form.Status)

	// Content fields carry no label requirement.
	_, err = service.Update(t.Context(), created.ID, "Waiver", "", []models.FormField{
		{ID: "f-1", FieldType: models.FieldTypeContent, Content: "<p>Terms</p>"},
		{ID: "f-2", FieldType: models.FieldTypeText, Label: "Full Name", Required: true},
	})
	require.NoError(t, err)

	published, err := service.Publish(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FormStatusPublished, published.Status)
}

func TestForm_Delete(t *testing.T) {
	service := NewForm(file.NewPersistence(t.TempDir()), nil)

	created, err := service.Create(t.Context(), "acme", "Waiver", "")
	require.NoError(t, err)

	require.NoError(t, service.Delete(t.Context(), created.ID))

	_, err = service.FetchByID(t.Context(), created.ID)
	require.Error(t, err)
	assert.True(t, persistence.IsFormNotFound(err))

	err = service.Delete(t.Context(), "missing")
	require.Error(t, err)
	assert.True(t, persistence.IsFormNotFound(err))
}

func TestForm_ListForms(t *testing.T) {
	service := NewForm(file.NewPersistence(t.TempDir()), nil)

	for _, name := range []string{"Alpha", "Beta", "Gamma"} {
		_, err := service.Create(t.Context(), "acme", name, "")
		require.NoError(t, err)
	}

	_, err := service.Create(t.Context(), "other", "Delta", "")
	require.NoError(t, err)

	response, err := service.ListForms(t.Context(), ListFormsRequest{
		TenantSlug: "acme",
		SortBy:     "name",
		SortOrder:  "asc",
	})
	require.NoError(t, err)

	require.Len(t, response.Forms, 3)
	assert.Equal(t, int64(3), response.TotalCount)
	assert.False(t, response.HasNextPage)
	assert.Equal(t, "Alpha", response.Forms[0].Name)

	page, err := service.ListForms(t.Context(), ListFormsRequest{
		TenantSlug: "acme",
		Limit:      2,
		SortBy:     "name",
		SortOrder:  "asc",
	})
	require.NoError(t, err)
	require.Len(t, page.Forms, 2)
	assert.True(t, page.HasNextPage)
}

func TestForm_ListFormsValidation(t *testing.T) {
	service := NewForm(file.NewPersistence(t.TempDir()), nil)

	_, err := service.ListForms(t.Context(), ListFormsRequest{SortBy: "password"})
	require.ErrorIs(t, err, ErrInvalidSortField)

	_, err = service.ListForms(t.Context(), ListFormsRequest{SortOrder: "sideways"})
	require.ErrorIs(t, err, ErrInvalidSortOrder)

	badStatus := models.FormStatus("archived")
	_, err = service.ListForms(t.Context(), ListFormsRequest{Status: &badStatus})
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestForm_HealthCheck(t *testing.T) {
	service := NewForm(file.NewPersistence(t.TempDir()), nil)

	message, healthy := service.HealthCheck(t.Context())
	assert.True(t, healthy)
	assert.NotEmpty(t, message)
}
