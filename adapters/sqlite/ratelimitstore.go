package sqlite

import (
	"context"
	"time"

	"github.com/calcstack/calcd/domain/ratelimit"
	"github.com/calcstack/calcd/ports"
)

// RateLimitStore implements ports.RateLimitStore using SQLite.
type RateLimitStore struct {
	db *DB
}

// NewRateLimitStore creates a new SQLite rate limit store.
func NewRateLimitStore(db *DB) *RateLimitStore {
	return &RateLimitStore{db: db}
}

// Take atomically increments the window count for a key.
// The upsert resets expired windows and increments live ones in a single
// statement, so concurrent takers serialize inside SQLite and cannot both
// observe the same count.
func (s *RateLimitStore) Take(ctx context.Context, key string, cfg ratelimit.Config, now time.Time) (int, time.Time, error) {
	now = now.UTC()
	windowEnd := now.Add(cfg.Window)

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO rate_limit_windows (key, count, window_end)
		VALUES (?, 1, ?)
		ON CONFLICT(key) DO UPDATE SET
			count = CASE
				WHEN rate_limit_windows.window_end < ? THEN 1
				ELSE rate_limit_windows.count + 1
			END,
			window_end = CASE
				WHEN rate_limit_windows.window_end < ? THEN excluded.window_end
				ELSE rate_limit_windows.window_end
			END
		RETURNING count, window_end
	`, key, windowEnd, now, now)

	var count int
	var resetAt time.Time
	if err := row.Scan(&count, &resetAt); err != nil {
		return 0, time.Time{}, err
	}
	return count, resetAt, nil
}

// Cleanup removes windows that ended before the horizon.
func (s *RateLimitStore) Cleanup(ctx context.Context, horizon time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM rate_limit_windows WHERE window_end < ?
	`, horizon.UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Ensure interface compliance.
var _ ports.RateLimitStore = (*RateLimitStore)(nil)
