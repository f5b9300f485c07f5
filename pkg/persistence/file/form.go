package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/formion/formion/pkg/models"
	"github.com/formion/formion/pkg/persistence"
)

// FormRepository handles form-related file operations.
type FormRepository struct {
	root string
}

// NewFormRepository creates a new form repository.
func NewFormRepository(root string) *FormRepository {
	return &FormRepository{root: root}
}

// GetByID retrieves a form by its ID from the file system.
func (fr *FormRepository) GetByID(_ context.Context, formID string) (*models.Form, error) {
	filePath := filepath.Clean(path.Join(fr.root, "forms", formID+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
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

// Save writes a form to the file system, stamping timestamps.
func (fr *FormRepository) Save(_ context.Context, form *models.Form) error {
	err := os.MkdirAll(path.Join(fr.root, "forms"), 0750)
	if err != nil {
		return fmt.Errorf("failed to create forms directory: %w", err)
	}

	now := time.Now().UTC()
	if form.CreatedAt.IsZero() {
		form.CreatedAt = now
	}

	form.UpdatedAt = now

	data, err := json.MarshalIndent(form, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal form %s: %w", form.ID, err)
	}

	filePath := path.Join(fr.root, "forms", form.ID+".json")

	return os.WriteFile(filePath, data, 0600)
}

// Delete removes a form by its ID. Deleting a missing form is not an error.
func (fr *FormRepository) Delete(_ context.Context, id string) error {
	filePath := path.Join(fr.root, "forms", id+".json")

	err := os.Remove(filePath)
	if err != nil && os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to delete form %s: %w", id, err)
	}

	return nil
}

// ListForms returns paginated and filtered form summaries with in-memory
// operations.
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

	root := os.DirFS(path.Join(fr.root, "forms"))

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list form files: %w", err)
	}

	filtered := make([]*models.Form, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		formID := file[:len(file)-5] // Trim .json

		form, err := fr.GetByID(ctx, formID)
		if err != nil {
			return nil, fmt.Errorf("failed to load form %s: %w", formID, err)
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

// sortForms sorts forms in-place based on the specified field and order.
func sortForms(forms []*models.Form, sortBy, sortOrder string) {
	sort.SliceStable(forms, func(i, j int) bool {
		a, b := forms[i], forms[j]
		if sortOrder == "desc" {
			a, b = b, a
		}

		switch sortBy {
		case "updated_at":
			return a.UpdatedAt.Before(b.UpdatedAt)
		case "name":
			return a.Name < b.Name
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
}
