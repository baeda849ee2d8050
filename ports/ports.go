// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/.
package ports

import (
	"context"
	"time"

	"github.com/calcstack/calcd/domain/audit"
	"github.com/calcstack/calcd/domain/ratelimit"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// Random abstracts randomness for testability.
type Random interface {
	// Bytes generates n random bytes.
	Bytes(n int) ([]byte, error)
	// Uint32s generates n bias-free unsigned 32-bit draws.
	Uint32s(n int) ([]uint32, error)
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// -----------------------------------------------------------------------------
// Data Store Ports
// -----------------------------------------------------------------------------

// RateLimitStore tracks request counts per identifier in fixed windows.
//
// Take is the single atomic operation: it increments the window count for
// key and returns the post-increment count together with the window reset
// time. Implementations must make the read-check-write sequence atomic so
// concurrent requests for the same key cannot race past the limit. The
// caller converts the count into an allow/deny decision with
// ratelimit.FromCount.
type RateLimitStore interface {
	Take(ctx context.Context, key string, cfg ratelimit.Config, now time.Time) (count int, resetAt time.Time, err error)

	// Cleanup removes windows that ended before the horizon, returning
	// how many were evicted. Stores with native TTL may no-op.
	Cleanup(ctx context.Context, horizon time.Time) (int64, error)
}

// AuditStore persists usage records (append-only).
type AuditStore interface {
	// RecordBatch appends multiple usage records.
	RecordBatch(ctx context.Context, records []audit.Record) error

	// Summary aggregates usage between start and end for the admin
	// analytics endpoint.
	Summary(ctx context.Context, start, end time.Time) (audit.Summary, error)
}

// -----------------------------------------------------------------------------
// Application Ports
// -----------------------------------------------------------------------------

// AuditRecorder queues a usage record for asynchronous persistence.
// Implementations are fire-and-forget: failures are reported through
// metrics/logs, never to the request path.
type AuditRecorder interface {
	Record(r audit.Record)
}

// SolveResult is the outcome of an AI math query.
type SolveResult struct {
	Answer      string
	Steps       []string
	Explanation string
	Source      string // "local" or "gateway"
}

// Solver answers free-text math queries.
type Solver interface {
	Solve(ctx context.Context, query string) (SolveResult, error)
}
