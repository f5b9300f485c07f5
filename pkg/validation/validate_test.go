package validation

import (
	"testing"

	"github.com/formion/formion/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AllAnswered(t *testing.T) {
	fields := []models.FormField{
		{ID: "name", FieldType: models.FieldTypeText, Label: "Full Name", Required: true},
		{ID: "email", FieldType: models.FieldTypeEmail, Label: "Email", Required: true},
		{ID: "agree", FieldType: models.FieldTypeCheckbox, Label: "I agree", Required: true},
		{ID: "size", FieldType: models.FieldTypeSelect, Label: "Size", Required: true},
	}
	answers := models.AnswerMap{
		"name":  "Jane Doe",
		"email": "jane@example.com",
		"agree": true,
		"size":  "l",
	}

	assert.Empty(t, Validate(fields, answers))
}

func TestValidate_MissingRequiredField(t *testing.T) {
	fields := []models.FormField{
		{ID: "name", FieldType: models.FieldTypeText, Label: "Full Name", Required: true},
	}

	errs := Validate(fields, models.AnswerMap{})

	require.Len(t, errs, 1)
	assert.Equal(t, MessageRequired, errs["name"])
}

func TestValidate_BlankAnswerIsMissing(t *testing.T) {
	fields := []models.FormField{
		{ID: "name", FieldType: models.FieldTypeText, Label: "Full Name", Required: true},
	}

	errs := Validate(fields, models.AnswerMap{"name": "   "})

	assert.Equal(t, MessageRequired, errs["name"])
}

func TestValidate_OptionalFieldSkipped(t *testing.T) {
	fields := []models.FormField{
		{ID: "nickname", FieldType: models.FieldTypeText, Label: "Nickname", Required: false},
	}

	assert.Empty(t, Validate(fields, models.AnswerMap{}))
}

func TestValidate_RequiredCheckboxUnchecked(t *testing.T) {
	fields := []models.FormField{
		{ID: "agree", FieldType: models.FieldTypeCheckbox, Label: "I agree", Required: true},
	}

	errs := Validate(fields, models.AnswerMap{"agree": false})
	assert.Equal(t, MessageRequired, errs["agree"])

	errs = Validate(fields, models.AnswerMap{})
	assert.Equal(t, MessageRequired, errs["agree"])
}

func TestValidate_RequiredSelectWithoutChoice(t *testing.T) {
	fields := []models.FormField{
		{
			ID:        "size",
			FieldType: models.FieldTypeSelect,
			Label:     "Size",
			Required:  true,
			Options: []models.FormFieldOption{
				{Label: "Small", Value: "s"},
			},
		},
	}

	errs := Validate(fields, models.AnswerMap{})

	assert.Equal(t, MessageRequired, errs["size"])
}

func TestValidate_ContentFieldNeverFlagged(t *testing.T) {
	fields := []models.FormField{
		{ID: "legal", FieldType: models.FieldTypeContent, Label: "Terms", Content: "<p>Terms</p>"},
		{ID: "name", FieldType: models.FieldTypeText, Label: "Name", Required: true},
	}

	errs := Validate(fields, models.AnswerMap{})

	require.Len(t, errs, 1)
	assert.NotContains(t, errs, "legal")
}

func TestValidate_SignatureFieldByLabel(t *testing.T) {
	fields := []models.FormField{
		{ID: "f-name", FieldType: models.FieldTypeText, Label: "Full Name", Required: true},
		{ID: "f-sig", FieldType: models.FieldTypeText, Label: "Signature", Required: true},
	}
	answers := models.AnswerMap{"f-name": "Jane Doe"}

	errs := Validate(fields, answers)

	require.Len(t, errs, 1)
	assert.Equal(t, MessageSignatureRequired, errs["f-sig"])
}

func TestValidate_SignatureWithDataURL(t *testing.T) {
	fields := []models.FormField{
		{ID: "f-sig", FieldType: models.FieldTypeText, Label: "Signature", Required: true},
	}
	answers := models.AnswerMap{"f-sig": "data:image/png;base64,iVBORw0KGgo="}

	assert.Empty(t, Validate(fields, answers))
}

func TestValidate_OrderIndependent(t *testing.T) {
	fields := []models.FormField{
		{ID: "b", FieldType: models.FieldTypeText, Label: "B", Required: true},
		{ID: "a", FieldType: models.FieldTypeText, Label: "A", Required: true},
	}
	answers := models.AnswerMap{"a": "x", "b": "y"}

	assert.Empty(t, Validate(fields, answers))
}
