package storage

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// MemoryStore keeps objects in process memory. It backs tests and local
// development without a running MinIO.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	types   map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (m *MemoryStore) Put(_ context.Context, key, contentType string, body io.Reader, _ int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read object %s: %w", key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects[key] = data
	m.types[key] = contentType

	return nil
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s: %w", key, ErrObjectNotFound)
	}

	out := make([]byte, len(data))
	copy(out, data)

	return out, nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, key)
	delete(m.types, key)

	return nil
}

func (m *MemoryStore) PresignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.objects[key]; !ok {
		return "", fmt.Errorf("object %s: %w", key, ErrObjectNotFound)
	}

	return "memory://" + key, nil
}

func (m *MemoryStore) HealthCheck(_ context.Context) error {
	return nil
}

// ContentType reports the stored content type, for assertions in tests.
func (m *MemoryStore) ContentType(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.types[key]
}
