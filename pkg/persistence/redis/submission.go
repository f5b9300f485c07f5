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

// SubmissionRepository handles submission-related Redis operations.
type SubmissionRepository struct {
	client *goredis.Client
}

// NewSubmissionRepository creates a new submission repository.
func NewSubmissionRepository(client *goredis.Client) *SubmissionRepository {
	return &SubmissionRepository{client: client}
}

// GetByID retrieves a submission by its ID.
func (sr *SubmissionRepository) GetByID(ctx context.Context, submissionID string) (*models.Submission, error) {
	body, err := sr.client.Get(ctx, submissionKeyPrefix+submissionID).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
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

// Save writes a submission blob and indexes it under its form.
func (sr *SubmissionRepository) Save(ctx context.Context, submission *models.Submission) error {
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = time.Now().UTC()
	}

	data, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("failed to marshal submission %s: %w", submission.ID, err)
	}

	pipe := sr.client.TxPipeline()
	pipe.Set(ctx, submissionKeyPrefix+submission.ID, data, 0)
	pipe.SAdd(ctx, fmt.Sprintf(formSubmissionsKey, submission.FormID), submission.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save submission %s: %w", submission.ID, err)
	}

	return nil
}

// ListByForm returns all submissions for a form, newest first.
func (sr *SubmissionRepository) ListByForm(ctx context.Context, formID string) ([]*models.Submission, error) {
	ids, err := sr.client.SMembers(ctx, fmt.Sprintf(formSubmissionsKey, formID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read submission index for form %s: %w", formID, err)
	}

	submissions := make([]*models.Submission, 0, len(ids))

	for _, id := range ids {
		submission, err := sr.GetByID(ctx, id)
		if err != nil {
			if persistence.IsSubmissionNotFound(err) {
				continue
			}

			return nil, err
		}

		submissions = append(submissions, submission)
	}

	sort.Slice(submissions, func(i, j int) bool {
		return submissions[i].SubmittedAt.After(submissions[j].SubmittedAt)
	})

	return submissions, nil
}
