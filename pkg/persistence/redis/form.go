package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/formion/formion/pkg/models"
	"github.com/formion/formion/pkg/persistence"
)

// FormRepository handles form-related Redis operations.
type FormRepository struct {
	client *goredis.Client
}

// NewFormRepository creates a new form repository.
func NewFormRepository(client *goredis.Client) *FormRepository {
	return &FormRepository{client: client}
}

// GetByID retrieves a form by its ID.
func (fr *FormRepository) GetByID(ctx context.Context, formID string) (*models.Form, error) {
	body, err := fr.client.Get(ctx, formKeyPrefix+formID).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, persistence.NewFormError("GetByID", formID, persistence.ErrFormNotFound)
		}

		return nil, fmt.Errorf("failed to fetch form %s: %w", formID, err)
	}

	var form models.Form

	err = json.Unmarshal(body, &form)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal form %s: %w", formID, err)
	}

	return &form, nil
}

// Save writes a form blob and maintains the listing index.
func (fr *FormRepository) Save(ctx context.Context, form *models.Form) error {
	now := time.Now().UTC()
	if form.CreatedAt.IsZero() {
		form.CreatedAt = now
	}

	form.UpdatedAt = now

	data, err := json.Marshal(form)
	if err != nil {
		return fmt.Errorf("failed to marshal form %s: %w", form.ID, err)
	}

	pipe := fr.client.TxPipeline()
	pipe.Set(ctx, formKeyPrefix+form.ID, data, 0)
	pipe.SAdd(ctx, formIndexKey, form.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save form %s: %w", form.ID, err)
	}

	return nil
}

// Delete removes a form and its index entry. Deleting a missing form is not
// an error.
func (fr *FormRepository) Delete(ctx context.Context, id string) error {
	pipe := fr.client.TxPipeline()
	pipe.Del(ctx, formKeyPrefix+id)
	pipe.SRem(ctx, formIndexKey, id)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete form %s: %w", id, err)
	}

	return nil
}

// ListForms loads all indexed forms and filters, sorts, and paginates in
// memory, mirroring the file backend.
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

	allowedSorts := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"name":       true,
	}
	if !allowedSorts[opts.SortBy] {
		return nil, fmt.Errorf("%w: %s", persistence.ErrInvalidSortField, opts.SortBy)
	}

	ids, err := fr.client.SMembers(ctx, formIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read form index: %w", err)
	}

	filtered := make([]*models.Form, 0, len(ids))

	for _, id := range ids {
		form, err := fr.GetByID(ctx, id)
		if err != nil {
			// Index entries may outlive their blobs briefly; skip holes.
			if persistence.IsFormNotFound(err) {
				continue
			}

			return nil, err
		}

		if opts.TenantSlug != "" && form.TenantSlug != opts.TenantSlug {
			continue
		}

		if opts.Status != nil && form.Status != *opts.Status {
			continue
		}

		filtered = append(filtered, form)
	}

	sortForms(filtered, opts.SortBy, opts.SortOrder)

	totalCount := int64(len(filtered))
	startIdx := opts.Offset
	endIdx := opts.Offset + opts.Limit

	if startIdx >= len(filtered) {
		return &persistence.FormListResult{
			Forms:       make([]models.FormSummary, 0),
			TotalCount:  totalCount,
			HasNextPage: false,
		}, nil
	}

	if endIdx > len(filtered) {
		endIdx = len(filtered)
	}

	page := make([]models.FormSummary, 0, endIdx-startIdx)
	for _, form := range filtered[startIdx:endIdx] {
		page = append(page, form.Summary())
	}

	return &persistence.FormListResult{
		Forms:       page,
		TotalCount:  totalCount,
		HasNextPage: endIdx < len(filtered),
	}, nil
}

func sortForms(forms []*models.Form, sortBy, sortOrder string) {
	sort.Slice(forms, func(i, j int) bool {
		var less bool

		switch sortBy {
		case "updated_at":
			less = forms[i].UpdatedAt.Before(forms[j].UpdatedAt)
		case "name":
			less = forms[i].Name < forms[j].Name
		default:
			less = forms[i].CreatedAt.Before(forms[j].CreatedAt)
		}

		if sortOrder == "desc" {
			return !less
		}

		return less
	})
}
