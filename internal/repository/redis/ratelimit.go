package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "ratelimit:sync:"

// Decision is the outcome of one rate limit check
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// RateLimiter throttles remote sync calls with a fixed one-minute window per client
type RateLimiter struct {
	client *Client
	limit  int64
}

// NewRateLimiter allows requestsPerMinute+burst calls per window
func NewRateLimiter(client *Client, requestsPerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  int64(requestsPerMinute + burst),
	}
}

// Allow counts one call for client in the current window
func (r *RateLimiter) Allow(ctx context.Context, client string) (Decision, error) {
	key := rateLimitPrefix + client
	resetAt := time.Now().Truncate(time.Minute).Add(time.Minute)

	pipe := r.client.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireAt(ctx, key, resetAt)
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return Decision{}, fmt.Errorf("failed to execute rate limit check: %w", err)
	}

	count := incr.Val()
	return Decision{
		Allowed:   count <= r.limit,
		Remaining: int(max(r.limit-count, 0)),
		ResetAt:   resetAt,
	}, nil
}

// Reset clears the counter for client
func (r *RateLimiter) Reset(ctx context.Context, client string) error {
	return r.client.rdb.Del(ctx, rateLimitPrefix+client).Err()
}
