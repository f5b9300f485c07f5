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

// SubmissionRepository handles submission-related file operations.
type SubmissionRepository struct {
	root string
}

// NewSubmissionRepository creates a new submission repository.
func NewSubmissionRepository(root string) *SubmissionRepository {
	return &SubmissionRepository{root: root}
}

// GetByID retrieves a submission by its ID from the file system.
func (sr *SubmissionRepository) GetByID(_ context.Context, submissionID string) (*models.Submission, error) {
	filePath := filepath.Clean(path.Join(sr.root, "submissions", submissionID+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewSubmissionError("GetByID", submissionID, persistence.ErrSubmissionNotFound)
		}

		return nil, fmt.Errorf("failed to fetch submission %s: %w", submissionID, err)
	}

	var submission models.Submission

	err = json.Unmarshal(body, &submission)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal submission %s: %w", submissionID, err)
	}

	return &submission, nil
}

// Save writes a submission to the file system.
func (sr *SubmissionRepository) Save(_ context.Context, submission *models.Submission) error {
	err := os.MkdirAll(path.Join(sr.root, "submissions"), 0750)
	if err != nil {
		return fmt.Errorf("failed to create submissions directory: %w", err)
	}

	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(submission, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal submission %s: %w", submission.ID, err)
	}

	filePath := path.Join(sr.root, "submissions", submission.ID+".json")

	return os.WriteFile(filePath, data, 0600)
}

// ListByForm returns all submissions for a form, newest first.
func (sr *SubmissionRepository) ListByForm(ctx context.Context, formID string) ([]*models.Submission, error) {
	root := os.DirFS(path.Join(sr.root, "submissions"))

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list submission files: %w", err)
	}

	submissions := make([]*models.Submission, 0)

	for _, file := range jsonFiles {
		submissionID := file[:len(file)-5] // Trim .json

		submission, err := sr.GetByID(ctx, submissionID)
		if err != nil {
			return nil, fmt.Errorf("failed to load submission %s: %w", submissionID, err)
		}

		if submission.FormID == formID {
			submissions = append(submissions, submission)
		}
	}

	sort.Slice(submissions, func(i, j int) bool {
		return submissions[i].SubmittedAt.After(submissions[j].SubmittedAt)
	})

	return submissions, nil
}
