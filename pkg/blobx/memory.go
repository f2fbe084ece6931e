package blobx

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aussiebroadwan/opsdesk/pkg/idx"
)

// MemoryStore is an in-process Store for tests and local development.
// It mimics the URL shape of S3Store and can be told to fail.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	// FailUploads and FailDeletes, when set, make the respective call
	// return ErrUnavailable. Tests use these to exercise error paths.
	FailUploads bool
	FailDeletes bool
}

var _ Store = (*MemoryStore)(nil)

const memoryBaseURL = "https://blob.internal/opsdesk/"

// NewMemoryStore returns an empty in-memory blob store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (m *MemoryStore) Upload(ctx context.Context, data []byte, contentType, folder string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailUploads {
		return "", fmt.Errorf("%w: put refused", ErrUnavailable)
	}

	key := strings.Trim(folder, "/") + "/" + idx.New().String()
	buf := make([]byte, len(data))
	copy(buf, data)
	m.objects[key] = buf

	return memoryBaseURL + key, nil
}

func (m *MemoryStore) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailDeletes {
		return fmt.Errorf("%w: delete refused", ErrUnavailable)
	}

	key, ok := strings.CutPrefix(url, memoryBaseURL)
	if !ok {
		return fmt.Errorf("%w: %q", ErrBadRef, url)
	}

	delete(m.objects, key)
	return nil
}

// Len reports how many objects the store currently holds.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// Has reports whether url still resolves to a stored object.
func (m *MemoryStore) Has(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, ok := strings.CutPrefix(url, memoryBaseURL)
	if !ok {
		return false
	}
	_, ok = m.objects[key]
	return ok
}
