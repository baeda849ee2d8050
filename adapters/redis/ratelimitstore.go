// Package redis provides Redis implementations of storage ports, for
// deployments where limiter state must be shared across instances.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/calcstack/calcd/domain/ratelimit"
	"github.com/calcstack/calcd/ports"
)

// RateLimitStore implements ports.RateLimitStore using Redis.
// INCR is atomic server-side, so concurrent takers each observe a
// distinct count. Window expiry is a real key TTL, which also makes
// Cleanup a no-op.
type RateLimitStore struct {
	rdb    *redis.Client
	prefix string
}

// Option configures a RateLimitStore.
type Option func(*RateLimitStore)

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *RateLimitStore) { s.prefix = prefix }
}

// NewRateLimitStore creates a new Redis rate limit store.
func NewRateLimitStore(rdb *redis.Client, opts ...Option) *RateLimitStore {
	s := &RateLimitStore{
		rdb:    rdb,
		prefix: "calcd:ratelimit",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Take atomically increments the window count for a key.
func (s *RateLimitStore) Take(ctx context.Context, key string, cfg ratelimit.Config, now time.Time) (int, time.Time, error) {
	rkey := s.prefix + ":" + key

	pipe := s.rdb.Pipeline()
	incr := pipe.Incr(ctx, rkey)
	ttl := pipe.PTTL(ctx, rkey)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, err
	}

	count := int(incr.Val())
	remaining := ttl.Val()

	// First request of a window, or a key left without TTL, starts the
	// window clock here.
	if count == 1 || remaining < 0 {
		if err := s.rdb.PExpire(ctx, rkey, cfg.Window).Err(); err != nil {
			return 0, time.Time{}, err
		}
		remaining = cfg.Window
	}

	return count, now.Add(remaining), nil
}

// Cleanup is a no-op: window keys expire via TTL.
func (s *RateLimitStore) Cleanup(ctx context.Context, horizon time.Time) (int64, error) {
	return 0, nil
}

// Ensure interface compliance.
var _ ports.RateLimitStore = (*RateLimitStore)(nil)
