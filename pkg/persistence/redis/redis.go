// Package redis provides Redis-backed persistence for forms and
// submissions. Entities are stored as JSON blobs with index sets for
// listings; it suits small deployments where Postgres is overkill but
// multiple API instances share state.
package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/formion/formion/pkg/persistence"
)

const (
	formKeyPrefix       = "formion:forms:"
	formIndexKey        = "formion:forms"
	submissionKeyPrefix = "formion:submissions:"
	formSubmissionsKey  = "formion:forms:%s:submissions"
)

// Persistence implements persistence.Persistence on Redis.
type Persistence struct {
	client         *goredis.Client
	formRepo       *FormRepository
	submissionRepo *SubmissionRepository
}

// NewPersistence connects to Redis using a redis:// URL.
func NewPersistence(ctx context.Context, redisURL string) (*Persistence, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := goredis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &Persistence{
		client:         client,
		formRepo:       NewFormRepository(client),
		submissionRepo: NewSubmissionRepository(client),
	}, nil
}

func (p *Persistence) FormRepository() persistence.FormRepository {
	return p.formRepo
}

func (p *Persistence) SubmissionRepository() persistence.SubmissionRepository {
	return p.submissionRepo
}

// HealthCheck pings the Redis server.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (p *Persistence) Close(_ context.Context) error {
	return p.client.Close()
}
