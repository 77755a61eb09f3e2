package draft

import (
	"context"
	"slices"
	"sync"

	"github.com/Rrens/interaction-drafts/internal/domain"
)

// MemoryBackend keeps drafts in process memory
type MemoryBackend struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{docs: make(map[string][]byte)}
}

func (b *MemoryBackend) Name() string {
	return "memory"
}

func (b *MemoryBackend) Read(_ context.Context, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.docs[key]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	return slices.Clone(data), nil
}

func (b *MemoryBackend) Write(_ context.Context, key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.docs[key] = slices.Clone(data)
	return nil
}
