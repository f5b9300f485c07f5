package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/formion/formion/pkg/models"
	"github.com/formion/formion/pkg/persistence"
)

// SubmissionRepository handles submission-related database operations.
type SubmissionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSubmissionRepository creates a new submission repository.
func NewSubmissionRepository(db *sql.DB, logger *slog.Logger) *SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		logger: logger.With("repository", "submissions"),
	}
}

// GetByID retrieves a submission by its ID.
func (sr *SubmissionRepository) GetByID(ctx context.Context, submissionID string) (*models.Submission, error) {
	query := `
		SELECT id, form_id, tenant_slug, answers, signature_key, document_url,
		       status, submitted_at, processed_at
		FROM submissions
		WHERE id = $1
	`

	submission, err := scanSubmission(sr.db.QueryRowContext(ctx, query, submissionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewSubmissionError("GetByID", submissionID, persistence.ErrSubmissionNotFound)
		}

		return nil, fmt.Errorf("failed to fetch submission %s: %w", submissionID, err)
	}

	return submission, nil
}

// Save inserts or updates a submission.
func (sr *SubmissionRepository) Save(ctx context.Context, submission *models.Submission) error {
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = time.Now().UTC()
	}

	answersJSON, err := json.Marshal(submission.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers for submission %s: %w", submission.ID, err)
	}

	query := `
		INSERT INTO submissions (id, form_id, tenant_slug, answers, signature_key,
		                         document_url, status, submitted_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			answers = EXCLUDED.answers,
			signature_key = EXCLUDED.signature_key,
			document_url = EXCLUDED.document_url,
			status = EXCLUDED.status,
			processed_at = EXCLUDED.processed_at
	`

	_, err = sr.db.ExecContext(ctx, query,
		submission.ID, submission.FormID, submission.TenantSlug, answersJSON,
		submission.SignatureKey, submission.DocumentURL, string(submission.Status),
		submission.SubmittedAt, submission.ProcessedAt)
	if err != nil {
		return fmt.Errorf("failed to save submission %s: %w", submission.ID, err)
	}

	return nil
}

// ListByForm returns all submissions for a form, newest first.
func (sr *SubmissionRepository) ListByForm(ctx context.Context, formID string) ([]*models.Submission, error) {
	query := `
		SELECT id, form_id, tenant_slug, answers, signature_key, document_url,
		       status, submitted_at, processed_at
		FROM submissions
		WHERE form_id = $1
		ORDER BY submitted_at DESC
	`

	rows, err := sr.db.QueryContext(ctx, query, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions for form %s: %w", formID, err)
	}
	defer rows.Close()

	submissions := make([]*models.Submission, 0)

	for rows.Next() {
		submission, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}

		submissions = append(submissions, submission)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submissions: %w", err)
	}

	return submissions, nil
}

func scanSubmission(row rowScanner) (*models.Submission, error) {
	var (
		submission  models.Submission
		status      string
		answersJSON []byte
		processedAt sql.NullTime
	)

	err := row.Scan(&submission.ID, &submission.FormID, &submission.TenantSlug,
		&answersJSON, &submission.SignatureKey, &submission.DocumentURL,
		&status, &submission.SubmittedAt, &processedAt)
	if err != nil {
		return nil, err
	}

	submission.Status = models.SubmissionStatus(status)

	if err := json.Unmarshal(answersJSON, &submission.Answers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
	}

	if processedAt.Valid {
		submission.ProcessedAt = &processedAt.Time
	}

	return &submission, nil
}
