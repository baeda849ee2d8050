// Package memory provides in-memory implementations of storage ports,
// suitable for single-instance deployments and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/calcstack/calcd/domain/ratelimit"
	"github.com/calcstack/calcd/ports"
)

// RateLimitStore is an in-memory implementation of ports.RateLimitStore.
// The mutex makes the read-check-write sequence atomic: concurrent
// requests for the same key serialize here and cannot race past the
// limit.
type RateLimitStore struct {
	mu    sync.Mutex
	state map[string]ratelimit.WindowState
}

// NewRateLimitStore creates a new in-memory rate limit store.
func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{
		state: make(map[string]ratelimit.WindowState),
	}
}

// Take atomically increments the window count for key and returns the
// post-increment count with the window reset time.
func (s *RateLimitStore) Take(ctx context.Context, key string, cfg ratelimit.Config, now time.Time) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.state[key]
	if now.After(state.WindowEnd) || state.WindowEnd.IsZero() {
		state = ratelimit.WindowState{WindowEnd: now.Add(cfg.Window)}
	}
	state.Count++
	s.state[key] = state

	return state.Count, state.WindowEnd, nil
}

// Cleanup evicts windows that ended before the horizon.
func (s *RateLimitStore) Cleanup(ctx context.Context, horizon time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted int64
	for key, state := range s.state {
		if state.WindowEnd.Before(horizon) {
			delete(s.state, key)
			evicted++
		}
	}
	return evicted, nil
}

// Clear removes all state (for testing).
func (s *RateLimitStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = make(map[string]ratelimit.WindowState)
}

// Ensure interface compliance.
var _ ports.RateLimitStore = (*RateLimitStore)(nil)
