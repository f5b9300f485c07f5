package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/formion/formion/pkg/storage"
)

// NewObjectStore builds an object store from a storage URL. MinIO is
// the production backend, the in-memory store exists for local runs.
func NewObjectStore(ctx context.Context, storageURL string) (storage.ObjectStore, error) {
	switch {
	case strings.HasPrefix(storageURL, "minio://"):
		return storage.NewMinioStore(ctx, storageURL)
	case strings.HasPrefix(storageURL, "memory://"), storageURL == "memory":
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", storageURL)
	}
}
