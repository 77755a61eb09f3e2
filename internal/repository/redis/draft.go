package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rrens/interaction-drafts/internal/domain"
	"github.com/redis/go-redis/v9"
)

const draftPrefix = "draft:"

// DraftBackend stores draft documents as plain Redis strings without expiry
type DraftBackend struct {
	client *Client
}

// NewDraftBackend creates a new Redis draft backend
func NewDraftBackend(client *Client) *DraftBackend {
	return &DraftBackend{client: client}
}

func (b *DraftBackend) Name() string {
	return "redis"
}

// Read returns the document stored under key
func (b *DraftBackend) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.rdb.Get(ctx, draftPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return data, nil
}

// Write replaces the document stored under key
func (b *DraftBackend) Write(ctx context.Context, key string, data []byte) error {
	if err := b.client.rdb.Set(ctx, draftPrefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set draft: %w", err)
	}
	return nil
}

// Delete removes the document stored under key
func (b *DraftBackend) Delete(ctx context.Context, key string) error {
	return b.client.rdb.Del(ctx, draftPrefix+key).Err()
}
