// Package storage abstracts object storage for signature images and
// generated documents.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrObjectNotFound = errors.New("object not found")

// ObjectStore persists opaque blobs keyed by object name.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	// PresignedURL returns a time-limited link for downloading the object.
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	HealthCheck(ctx context.Context) error
}
