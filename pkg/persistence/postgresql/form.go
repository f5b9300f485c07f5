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

// FormRepository handles form-related database operations. Fields are
// stored as a JSONB document alongside the scalar columns.
type FormRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewFormRepository creates a new form repository.
func NewFormRepository(db *sql.DB, logger *slog.Logger) *FormRepository {
	return &FormRepository{
		db:     db,
		logger: logger.With("repository", "forms"),
	}
}

// GetByID retrieves a form by its ID.
func (fr *FormRepository) GetByID(ctx context.Context, formID string) (*models.Form, error) {
	query := `
		SELECT id, tenant_slug, name, description, status, fields,
		       created_at, updated_at, published_at
		FROM forms
		WHERE id = $1
	`

	row := fr.db.QueryRowContext(ctx, query, formID)

	form, err := scanForm(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewFormError("GetByID", formID, persistence.ErrFormNotFound)
		}

		return nil, fmt.Errorf("failed to fetch form %s: %w", formID, err)
	}

	return form, nil
}

// Save inserts or updates a form.
func (fr *FormRepository) Save(ctx context.Context, form *models.Form) error {
	now := time.Now().UTC()
	if form.CreatedAt.IsZero() {
		form.CreatedAt = now
	}

	form.UpdatedAt = now

	fieldsJSON, err := json.Marshal(form.Fields)
	if err != nil {
		return fmt.Errorf("failed to marshal fields for form %s: %w", form.ID, err)
	}

	query := `
		INSERT INTO forms (id, tenant_slug, name, description, status, fields,
		                   created_at, updated_at, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			tenant_slug = EXCLUDED.tenant_slug,
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			status = EXCLUDED.status,
			fields = EXCLUDED.fields,
			updated_at = EXCLUDED.updated_at,
			published_at = EXCLUDED.published_at
	`

	_, err = fr.db.ExecContext(ctx, query,
		form.ID, form.TenantSlug, form.Name, form.Description, string(form.Status),
		fieldsJSON, form.CreatedAt, form.UpdatedAt, form.PublishedAt)
	if err != nil {
		return fmt.Errorf("failed to save form %s: %w", form.ID, err)
	}

	return nil
}

// Delete removes a form by its ID. Deleting a missing form is not an error.
func (fr *FormRepository) Delete(ctx context.Context, id string) error {
	_, err := fr.db.ExecContext(ctx, "DELETE FROM forms WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete form %s: %w", id, err)
	}

	return nil
}

// ListForms returns paginated and filtered form summaries.
func (fr *FormRepository) ListForms(ctx context.Context, opts persistence.ListFormsOptions) (*persistence.FormListResult, error) {
	if opts.Limit <= 0 || opts.Limit > 100 {
		opts.Limit = 20
	}

	if opts.SortBy == "" {
		opts.SortBy = "created_at"
	}

	if opts.SortOrder == "" {
		opts.SortOrder = "desc"
	}

	// Sort parameters are interpolated into the statement and must come
	// from the allowlist.
	allowedSorts := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"name":       true,
	}
	if !allowedSorts[opts.SortBy] {
		return nil, fmt.Errorf("%w: %s", persistence.ErrInvalidSortField, opts.SortBy)
	}

	order := "DESC"
	if opts.SortOrder == "asc" {
		order = "ASC"
	}

	where := "WHERE 1=1"
	args := make([]any, 0, 4)

	if opts.TenantSlug != "" {
		args = append(args, opts.TenantSlug)
		where += fmt.Sprintf(" AND tenant_slug = $%d", len(args))
	}

	if opts.Status != nil {
		args = append(args, string(*opts.Status))
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var totalCount int64

	err := fr.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM forms "+where, args...).Scan(&totalCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count forms: %w", err)
	}

	args = append(args, opts.Limit, opts.Offset)
	query := fmt.Sprintf(`
		SELECT id, tenant_slug, name, description, status,
		       jsonb_array_length(fields), created_at, updated_at
		FROM forms
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, where, opts.SortBy, order, len(args)-1, len(args))

	rows, err := fr.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}
	defer rows.Close()

	summaries := make([]models.FormSummary, 0, opts.Limit)

	for rows.Next() {
		var (
			summary models.FormSummary
			status  string
		)

		err = rows.Scan(&summary.ID, &summary.TenantSlug, &summary.Name, &summary.Description,
			&status, &summary.FieldCount, &summary.CreatedAt, &summary.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan form summary: %w", err)
		}

		summary.Status = models.FormStatus(status)
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate form summaries: %w", err)
	}

	return &persistence.FormListResult{
		Forms:       summaries,
		TotalCount:  totalCount,
		HasNextPage: int64(opts.Offset+len(summaries)) < totalCount,
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForm(row rowScanner) (*models.Form, error) {
	var (
		form        models.Form
		status      string
		fieldsJSON  []byte
		publishedAt sql.NullTime
	)

	err := row.Scan(&form.ID, &form.TenantSlug, &form.Name, &form.Description,
		&status, &fieldsJSON, &form.CreatedAt, &form.UpdatedAt, &publishedAt)
	if err != nil {
		return nil, err
	}

	form.Status = models.FormStatus(status)

	if err := json.Unmarshal(fieldsJSON, &form.Fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal fields: %w", err)
	}

	if publishedAt.Valid {
		form.PublishedAt = &publishedAt.Time
	}

	return &form, nil
}
