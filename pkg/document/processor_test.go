package document_test

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formion/formion/pkg/channels/gochannel"
	"github.com/formion/formion/pkg/document"
	"github.com/formion/formion/pkg/eventbus"
	"github.com/formion/formion/pkg/events"
	"github.com/formion/formion/pkg/log"
	"github.com/formion/formion/pkg/models"
	"github.com/formion/formion/pkg/persistence/file"
	"github.com/formion/formion/pkg/storage"
)

func testDataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))
}

func seedSubmission(t *testing.T, p *file.Persistence) (*models.Form, *models.Submission) {
	t.Helper()

	ctx := context.Background()
	now := time.Now().UTC()

	form := &models.Form{
		ID:         "form-1",
		TenantSlug: "acme",
		Name:       "Waiver",
		Status:     models.FormStatusPublished,
		Fields: []models.FormField{
			{ID: "f-name", FieldType: models.FieldTypeText, Label: "Full Name", Required: true, FieldOrder: 0},
			{ID: "f-agree", FieldType: models.FieldTypeCheckbox, Label: "I agree", Required: true, FieldOrder: 1},
			{ID: "f-sig", FieldType: models.FieldTypeText, Label: "Signature", Required: true, FieldOrder: 2},
		},
		CreatedAt:   now,
		UpdatedAt:   now,
		PublishedAt: &now,
	}
	require.NoError(t, p.FormRepository().Save(ctx, form))

	submission := &models.Submission{
		ID:         "sub-1",
		FormID:     form.ID,
		TenantSlug: "acme",
		Answers: models.AnswerMap{
			"f-name":  "Jane Doe",
			"f-agree": true,
			"f-sig":   testDataURL(),
		},
		Status:      models.SubmissionStatusReceived,
		SubmittedAt: now,
	}
	require.NoError(t, p.SubmissionRepository().Save(ctx, submission))

	return form, submission
}

func TestProcessor_Process(t *testing.T) {
	ctx := context.Background()

	p := file.NewPersistence(t.TempDir())
	store := storage.NewMemoryStore()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	defer bus.Close()

	_, _ = seedSubmission(t, p)

	processor := document.NewProcessor(p, store, bus, log.WithModule("test"))

	require.NoError(t, processor.Process(ctx, "sub-1"))

	processed, err := p.SubmissionRepository().GetByID(ctx, "sub-1")
	require.NoError(t, err)

	assert.Equal(t, models.SubmissionStatusProcessed, processed.Status)
	assert.True(t, processed.Ready())
	require.NotNil(t, processed.ProcessedAt)
	assert.NotEmpty(t, processed.DocumentURL)
	assert.Equal(t, "tenants/acme/submissions/sub-1/signature.png", processed.SignatureKey)

	image, err := store.Get(ctx, processed.SignatureKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), image)
	assert.Equal(t, "image/png", store.ContentType(processed.SignatureKey))

	receipt, err := store.Get(ctx, "tenants/acme/submissions/sub-1/receipt.html")
	require.NoError(t, err)

	html := string(receipt)
	assert.Contains(t, html, "Waiver")
	assert.Contains(t, html, "Jane Doe")
	assert.Contains(t, html, "Yes")
	assert.Contains(t, html, testDataURL())
}

func TestProcessor_ProcessIsIdempotent(t *testing.T) {
	ctx := context.Background()

	p := file.NewPersistence(t.TempDir())
	store := storage.NewMemoryStore()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	defer bus.Close()

	seedSubmission(t, p)

	processor := document.NewProcessor(p, store, bus, log.WithModule("test"))

	require.NoError(t, processor.Process(ctx, "sub-1"))

	first, err := p.SubmissionRepository().GetByID(ctx, "sub-1")
	require.NoError(t, err)

	require.NoError(t, processor.Process(ctx, "sub-1"))

	second, err := p.SubmissionRepository().GetByID(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, first.ProcessedAt, second.ProcessedAt, "redelivery must not reprocess")
}

func TestProcessor_StartConsumesReceivedEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := file.NewPersistence(t.TempDir())
	store := storage.NewMemoryStore()

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	defer bus.Close()

	_, submission := seedSubmission(t, p)

	processor := document.NewProcessor(p, store, bus, log.WithModule("test"))
	require.NoError(t, processor.Start(ctx))

	err = bus.Publish(ctx, submission.FormID, events.SubmissionReceived{
		BaseEvent:    events.NewBaseEvent(events.SubmissionReceivedEvent, submission.FormID),
		SubmissionID: submission.ID,
		TenantSlug:   submission.TenantSlug,
		HasSignature: true,
		SubmittedAt:  submission.SubmittedAt,
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, err := p.SubmissionRepository().GetByID(ctx, submission.ID)

		return err == nil && got.Ready()
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDecodeImageDataURL(t *testing.T) {
	contentType, data, err := document.DecodeImageDataURL(testDataURL())
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, []byte("png-bytes"), data)

	_, _, err = document.DecodeImageDataURL("nonsense")
	require.ErrorIs(t, err, document.ErrInvalidDataURL)

	_, _, err = document.DecodeImageDataURL("data:image/png,plain")
	require.ErrorIs(t, err, document.ErrInvalidDataURL)

	_, _, err = document.DecodeImageDataURL("data:text/plain;base64,aGk=")
	require.ErrorIs(t, err, document.ErrInvalidDataURL)

	_, _, err = document.DecodeImageDataURL("data:image/png;base64,%%%")
	require.ErrorIs(t, err, document.ErrInvalidDataURL)
}

func TestRenderReceipt_SkipsContentAndUnanswered(t *testing.T) {
	now := time.Now().UTC()

	form := &models.Form{
		ID:   "form-2",
		Name: "Waiver",
		Fields: []models.FormField{
			{ID: "f-terms", FieldType: models.FieldTypeContent, Label: "Terms", FieldOrder: 0, Content: "<p>Legal</p>"},
			{ID: "f-name", FieldType: models.FieldTypeText, Label: "Full Name", FieldOrder: 1},
			{ID: "f-phone", FieldType: models.FieldTypeText, Label: "Phone", FieldOrder: 2},
		},
	}

	submission := &models.Submission{
		ID:          "sub-2",
		FormID:      form.ID,
		Answers:     models.AnswerMap{"f-name": "Jane Doe"},
		SubmittedAt: now,
	}

	receipt, err := document.RenderReceipt(form, submission, "")
	require.NoError(t, err)

	html := string(receipt)
	assert.Contains(t, html, "Full Name")
	assert.NotContains(t, html, "Terms", "content fields carry no answer")
	assert.NotContains(t, html, "Phone", "unanswered fields are omitted")
}
