// Package document turns received submissions into stored artifacts: the
// captured signature image and a printable HTML receipt.
package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/formion/formion/pkg/eventbus"
	"github.com/formion/formion/pkg/events"
	"github.com/formion/formion/pkg/models"
	"github.com/formion/formion/pkg/persistence"
	"github.com/formion/formion/pkg/storage"
)

const defaultURLExpiry = 24 * time.Hour

// Processor consumes submission.received events, stores the submission's
// artifacts, marks it processed and emits submission.processed.
type Processor struct {
	persistence persistence.Persistence
	store       storage.ObjectStore
	bus         eventbus.EventBus
	logger      *slog.Logger
	urlExpiry   time.Duration
}

func NewProcessor(p persistence.Persistence, store storage.ObjectStore, bus eventbus.EventBus, logger *slog.Logger) *Processor {
	return &Processor{
		persistence: p,
		store:       store,
		bus:         bus,
		logger:      logger.With("module", "document"),
		urlExpiry:   defaultURLExpiry,
	}
}

// Start registers the event handler and begins consuming.
func (p *Processor) Start(ctx context.Context) error {
	err := p.bus.Handle(events.SubmissionReceivedEvent, p.handleSubmissionReceived)
	if err != nil {
		return fmt.Errorf("failed to register submission handler: %w", err)
	}

	return p.bus.Subscribe(ctx)
}

func (p *Processor) handleSubmissionReceived(ctx context.Context, event any) error {
	received, ok := event.(*events.SubmissionReceived)
	if !ok {
		return errors.New("unexpected event payload for submission.received")
	}

	started := time.Now()

	err := p.Process(ctx, received.SubmissionID)
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to process submission",
			"submission_id", received.SubmissionID, "error", err)

		return err
	}

	p.logger.InfoContext(ctx, "Submission processed",
		"submission_id", received.SubmissionID,
		"duration_ms", time.Since(started).Milliseconds())

	return nil
}

// Process stores the signature image and receipt for one submission and
// marks it processed. Processing an already processed submission is a no-op
// so redelivered events stay harmless.
func (p *Processor) Process(ctx context.Context, submissionID string) error {
	started := time.Now()

	submission, err := p.persistence.SubmissionRepository().GetByID(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("failed to load submission %s: %w", submissionID, err)
	}

	if submission.Ready() {
		return nil
	}

	form, err := p.persistence.FormRepository().GetByID(ctx, submission.FormID)
	if err != nil {
		return fmt.Errorf("failed to load form %s: %w", submission.FormID, err)
	}

	signatureDataURL := p.signatureAnswer(form, submission)

	if signatureDataURL != "" {
		key, err := p.storeSignature(ctx, submission, signatureDataURL)
		if err != nil {
			return err
		}

		submission.SignatureKey = key
	}

	documentURL, err := p.storeReceipt(ctx, form, submission, signatureDataURL)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	submission.Status = models.SubmissionStatusProcessed
	submission.ProcessedAt = &now
	submission.DocumentURL = documentURL

	err = p.persistence.SubmissionRepository().Save(ctx, submission)
	if err != nil {
		return fmt.Errorf("failed to save processed submission %s: %w", submissionID, err)
	}

	processed := events.SubmissionProcessed{
		BaseEvent:    events.NewBaseEvent(events.SubmissionProcessedEvent, submission.FormID),
		SubmissionID: submission.ID,
		TenantSlug:   submission.TenantSlug,
		DocumentURL:  documentURL,
		DurationMs:   time.Since(started).Milliseconds(),
		ProcessedAt:  now,
	}

	err = p.bus.Publish(ctx, submission.FormID, processed)
	if err != nil {
		p.logger.WarnContext(ctx, "Failed to publish submission.processed",
			"submission_id", submission.ID, "error", err)
	}

	return nil
}

// signatureAnswer finds the submitted signature data URL, if the form has a
// signature field and the visitor drew one.
func (p *Processor) signatureAnswer(form *models.Form, submission *models.Submission) string {
	for _, field := range form.Fields {
		if !field.IsSignature() {
			continue
		}

		value, ok := submission.Answers[field.ID].(string)
		if ok && strings.HasPrefix(value, "data:") {
			return value
		}
	}

	return ""
}

func (p *Processor) storeSignature(ctx context.Context, submission *models.Submission, dataURL string) (string, error) {
	contentType, data, err := DecodeImageDataURL(dataURL)
	if err != nil {
		return "", fmt.Errorf("submission %s: %w", submission.ID, err)
	}

	ext := strings.TrimPrefix(contentType, "image/")
	key := fmt.Sprintf("tenants/%s/submissions/%s/signature.%s", submission.TenantSlug, submission.ID, ext)

	err = p.store.Put(ctx, key, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to store signature for submission %s: %w", submission.ID, err)
	}

	return key, nil
}

func (p *Processor) storeReceipt(ctx context.Context, form *models.Form, submission *models.Submission, signatureDataURL string) (string, error) {
	// The receipt embeds the signature as a data URL so the document stays
	// self-contained after the presigned image link expires.
	receipt, err := RenderReceipt(form, submission, signatureDataURL)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("tenants/%s/submissions/%s/receipt.html", submission.TenantSlug, submission.ID)

	err = p.store.Put(ctx, key, "text/html; charset=utf-8", bytes.NewReader(receipt), int64(len(receipt)))
	if err != nil {
		return "", fmt.Errorf("failed to store receipt for submission %s: %w", submission.ID, err)
	}

	documentURL, err := p.store.PresignedURL(ctx, key, p.urlExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to link receipt for submission %s: %w", submission.ID, err)
	}

	return documentURL, nil
}
