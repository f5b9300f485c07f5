package builder_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formion/formion/pkg/builder"
	"github.com/formion/formion/pkg/models"
)

// fakeFormClient records calls and plays back canned forms.
type fakeFormClient struct {
	createCalls    int
	updateCalls    int
	publishCalls   int
	unpublishCalls int

	forms map[string]*models.Form
	err   error
}

func newFakeFormClient() *fakeFormClient {
	return &fakeFormClient{forms: make(map[string]*models.Form)}
}

func (c *fakeFormClient) Create(_ context.Context, name, description string) (*models.Form, error) {
	c.createCalls++

	if c.err != nil {
		return nil, c.err
	}

	form := &models.Form{
		ID:          "form-1",
		Name:        name,
		Description: description,
		Status:      models.FormStatusDraft,
		Fields:      []models.FormField{},
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	c.forms[form.ID] = form

	return form.Clone(), nil
}

func (c *fakeFormClient) Fetch(_ context.Context, id string) (*models.Form, error) {
	if c.err != nil {
		return nil, c.err
	}

	form, ok := c.forms[id]
	if !ok {
		return nil, errors.New("form not found")
	}

	return form.Clone(), nil
}

func (c *fakeFormClient) Update(_ context.Context, id, name, description string, fields []models.FormField) (*models.Form, error) {
	c.updateCalls++

	if c.err != nil {
		return nil, c.err
	}

	form, ok := c.forms[id]
	if !ok {
		return nil, errors.New("form not found")
	}

	form.Name = name
	form.Description = description
	form.Fields = models.CloneFields(fields)
	form.UpdatedAt = time.Now().UTC()

	return form.Clone(), nil
}

func (c *fakeFormClient) Publish(_ context.Context, id string) (*models.Form, error) {
	c.publishCalls++

	if c.err != nil {
		return nil, c.err
	}

	form := c.forms[id]
	form.Status = models.FormStatusPublished

	return form.Clone(), nil
}

func (c *fakeFormClient) Unpublish(_ context.Context, id string) (*models.Form, error) {
	c.unpublishCalls++

	if c.err != nil {
		return nil, c.err
	}

	form := c.forms[id]
	form.Status = models.FormStatusDraft

	return form.Clone(), nil
}

func TestSession_SaveRequiresName(t *testing.T) {
	client := newFakeFormClient()
	session := builder.NewSession(client)

	err := session.Save(context.Background())
	require.ErrorIs(t, err, builder.ErrNameRequired)
	assert.Zero(t, client.createCalls, "collaborator must not be called on validation failure")
	assert.Zero(t, client.updateCalls)
}

func TestSession_SaveCreateClearsDirty(t *testing.T) {
	client := newFakeFormClient()
	session := builder.NewSession(client)

	assert.False(t, session.IsDirty(), "empty new draft is clean")

	session.SetName("W")
	assert.True(t, session.IsDirty(), "named new draft is dirty")

	err := session.Save(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "form-1", session.FormID())
	assert.False(t, session.IsDirty())
	assert.Equal(t, 1, client.createCalls)
}

func TestSession_AddFieldSelectsAndNumbers(t *testing.T) {
	session := builder.NewSession(newFakeFormClient())

	first, err := session.AddField(models.FieldTypeText)
	require.NoError(t, err)

	second, err := session.AddField(models.FieldTypeSelect)
	require.NoError(t, err)

	assert.Equal(t, 0, first.FieldOrder)
	assert.Equal(t, 1, second.FieldOrder)
	assert.NotNil(t, second.Options, "select fields start with an empty option list")

	selected := session.SelectedField()
	require.NotNil(t, selected)
	assert.Equal(t, second.ID, selected.ID)

	assert.True(t, session.IsDirty())
}

func TestSession_AddFieldRejectsUnknownType(t *testing.T) {
	session := builder.NewSession(newFakeFormClient())

	_, err := session.AddField(models.FieldType("ranking"))
	require.ErrorIs(t, err, builder.ErrUnknownFieldType)
}

func TestSession_RemoveFieldRenumbersAndClearsSelection(t *testing.T) {
	session := builder.NewSession(newFakeFormClient())

	a, _ := session.AddField(models.FieldTypeText)
	b, _ := session.AddField(models.FieldTypeEmail)
	c, _ := session.AddField(models.FieldTypeDate)

	require.NoError(t, session.SelectField(b.ID))
	require.NoError(t, session.RemoveField(b.ID))

	assert.Nil(t, session.SelectedField())

	fields := session.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, []string{a.ID, c.ID}, []string{fields[0].ID, fields[1].ID})
	assert.Equal(t, 0, fields[0].FieldOrder)
	assert.Equal(t, 1, fields[1].FieldOrder)
}

func TestSession_OptionLifecycle(t *testing.T) {
	session := builder.NewSession(newFakeFormClient())

	field, err := session.AddField(models.FieldTypeSelect)
	require.NoError(t, err)

	require.NoError(t, session.AddOption(field.ID))
	require.NoError(t, session.AddOption(field.ID))
	require.NoError(t, session.UpdateOption(field.ID, 0, "label", "First"))
	require.NoError(t, session.UpdateOption(field.ID, 1, "label", "Second"))
	require.NoError(t, session.UpdateOption(field.ID, 1, "value", "second"))

	require.NoError(t, session.RemoveOption(field.ID, 0))

	fields := session.Fields()
	require.Len(t, fields[0].Options, 1)
	assert.Equal(t, "Second", fields[0].Options[0].Label)
	assert.Equal(t, "second", fields[0].Options[0].Value)
}

func TestSession_OptionsRejectedForNonSelect(t *testing.T) {
	session := builder.NewSession(newFakeFormClient())

	field, err := session.AddField(models.FieldTypeText)
	require.NoError(t, err)

	err = session.AddOption(field.ID)
	require.ErrorIs(t, err, builder.ErrNoOptions)
}

func TestSession_UpdateFieldProperty(t *testing.T) {
	session := builder.NewSession(newFakeFormClient())

	field, err := session.AddField(models.FieldTypeText)
	require.NoError(t, err)

	require.NoError(t, session.UpdateFieldProperty(field.ID, builder.PropertyLabel, "Full Name"))
	require.NoError(t, session.UpdateFieldProperty(field.ID, builder.PropertyPlaceholder, "Jane Doe"))
	require.NoError(t, session.UpdateFieldProperty(field.ID, builder.PropertyRequired, true))

	selected := session.SelectedField()
	require.NotNil(t, selected)
	assert.Equal(t, "Full Name", selected.Label)
	assert.Equal(t, "Jane Doe", selected.Placeholder)
	assert.True(t, selected.Required)

	err = session.UpdateFieldProperty(field.ID, builder.PropertyRequired, "yes")
	require.Error(t, err)

	err = session.UpdateFieldProperty(field.ID, "color", "red")
	require.Error(t, err)
}

func TestSession_ContentFieldCannotBeRequired(t *testing.T) {
	session := builder.NewSession(newFakeFormClient())

	field, err := session.AddField(models.FieldTypeContent)
	require.NoError(t, err)

	err = session.UpdateFieldProperty(field.ID, builder.PropertyRequired, true)
	require.Error(t, err)

	require.NoError(t, session.UpdateFieldProperty(field.ID, builder.PropertyContent, "<p>Terms</p>"))
}

func TestSession_MoveFieldMarksDirty(t *testing.T) {
	client := newFakeFormClient()
	session := builder.NewSession(client)

	session.SetName("Waiver")

	a, _ := session.AddField(models.FieldTypeText)
	b, _ := session.AddField(models.FieldTypeEmail)
	c, _ := session.AddField(models.FieldTypeDate)
	d, _ := session.AddField(models.FieldTypeCheckbox)

	require.NoError(t, session.Save(context.Background()))
	assert.False(t, session.IsDirty())

	require.NoError(t, session.MoveField(0, 2))

	fields := session.Fields()
	assert.Equal(t, []string{b.ID, c.ID, a.ID, d.ID},
		[]string{fields[0].ID, fields[1].ID, fields[2].ID, fields[3].ID})
	assert.True(t, session.IsDirty(), "reordering must mark the draft dirty")

	err := session.MoveField(0, 9)
	require.ErrorIs(t, err, builder.ErrIndexOutOfRange)
}

func TestSession_DirtyAfterEveryMutation(t *testing.T) {
	client := newFakeFormClient()
	session := builder.NewSession(client)
	session.SetName("Waiver")

	field, _ := session.AddField(models.FieldTypeSelect)
	require.NoError(t, session.Save(context.Background()))
	require.False(t, session.IsDirty())

	require.NoError(t, session.AddOption(field.ID))
	assert.True(t, session.IsDirty(), "option edits must mark the draft dirty")

	require.NoError(t, session.Save(context.Background()))
	require.False(t, session.IsDirty())

	require.NoError(t, session.UpdateFieldProperty(field.ID, builder.PropertyLabel, "Country"))
	assert.True(t, session.IsDirty())
}

func TestSession_DescriptionBlankEqualsAbsent(t *testing.T) {
	client := newFakeFormClient()
	session := builder.NewSession(client)
	session.SetName("Waiver")

	require.NoError(t, session.Save(context.Background()))
	require.False(t, session.IsDirty())

	session.SetDescription("   ")
	assert.False(t, session.IsDirty(), "blank description is equivalent to none")

	session.SetDescription("Sign before entry")
	assert.True(t, session.IsDirty())
}

func TestSession_SaveFailureKeepsDraft(t *testing.T) {
	client := newFakeFormClient()
	session := builder.NewSession(client)
	session.SetName("Waiver")

	require.NoError(t, session.Save(context.Background()))

	session.SetName("Waiver v2")
	client.err = errors.New("connection refused")

	err := session.Save(context.Background())
	require.Error(t, err)

	assert.Equal(t, "Waiver v2", session.Name(), "draft edits survive a failed save")
	assert.True(t, session.IsDirty())
}

func TestSession_TogglePublish(t *testing.T) {
	client := newFakeFormClient()
	session := builder.NewSession(client)

	err := session.TogglePublish(context.Background())
	require.ErrorIs(t, err, builder.ErrNotSaved)

	session.SetName("Waiver")
	require.NoError(t, session.Save(context.Background()))

	require.NoError(t, session.TogglePublish(context.Background()))
	assert.Equal(t, models.FormStatusPublished, session.Status())
	assert.Equal(t, 1, client.publishCalls)
	assert.False(t, session.IsDirty(), "publishing is not an edit")

	require.NoError(t, session.TogglePublish(context.Background()))
	assert.Equal(t, models.FormStatusDraft, session.Status())
	assert.Equal(t, 1, client.unpublishCalls)
}

func TestLoad_ExistingFormStartsClean(t *testing.T) {
	client := newFakeFormClient()

	seed := builder.NewSession(client)
	seed.SetName("Waiver")
	_, err := seed.AddField(models.FieldTypeText)
	require.NoError(t, err)
	require.NoError(t, seed.Save(context.Background()))

	session, err := builder.Load(context.Background(), client, "form-1")
	require.NoError(t, err)

	assert.Equal(t, "Waiver", session.Name())
	assert.Len(t, session.Fields(), 1)
	assert.False(t, session.IsDirty())

	require.NoError(t, session.RemoveField(session.Fields()[0].ID))
	assert.True(t, session.IsDirty())
}
