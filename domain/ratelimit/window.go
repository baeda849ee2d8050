// Package ratelimit provides pure rate limiting algorithms.
// All functions are deterministic - same input always produces same output.
package ratelimit

import "time"

// WindowState represents the current state of a rate limit window (value type).
type WindowState struct {
	Count     int       // Requests observed in current window
	WindowEnd time.Time // When current window ends
}

// CheckResult represents the outcome of a rate limit check (value type).
type CheckResult struct {
	Allowed   bool
	Remaining int       // Requests remaining in window
	ResetAt   time.Time // When limit resets
	Reason    string    // If not allowed, why
}

// Config holds rate limit configuration (value type).
type Config struct {
	Limit  int           // Requests per window
	Window time.Duration // Window duration
}

// Reasons for denial
const (
	ReasonLimitExceeded = "rate_limit_exceeded"
)

// Check performs a rate limit check.
// This is a PURE function - no side effects, deterministic.
//
// Parameters:
//   - state: current window state
//   - cfg: rate limit configuration
//   - now: current timestamp
//
// Returns:
//   - result: whether request is allowed and metadata
//   - newState: updated state (caller must persist atomically)
func Check(state WindowState, cfg Config, now time.Time) (CheckResult, WindowState) {
	// A window that has aged out behaves as if no record exists
	if now.After(state.WindowEnd) || state.WindowEnd.IsZero() {
		state = WindowState{
			Count:     0,
			WindowEnd: now.Add(cfg.Window),
		}
	}

	if state.Count < cfg.Limit {
		state.Count++
		return CheckResult{
			Allowed:   true,
			Remaining: cfg.Limit - state.Count,
			ResetAt:   state.WindowEnd,
		}, state
	}

	// Over limit - state is not mutated on rejection
	return CheckResult{
		Allowed:   false,
		Remaining: 0,
		ResetAt:   state.WindowEnd,
		Reason:    ReasonLimitExceeded,
	}, state
}

// FromCount converts a post-increment window count (as returned by an
// atomic store Take) into a CheckResult.
// This is a PURE function.
func FromCount(count int, cfg Config, resetAt time.Time) CheckResult {
	if count > cfg.Limit {
		return CheckResult{
			Allowed:   false,
			Remaining: 0,
			ResetAt:   resetAt,
			Reason:    ReasonLimitExceeded,
		}
	}
	return CheckResult{
		Allowed:   true,
		Remaining: cfg.Limit - count,
		ResetAt:   resetAt,
	}
}

// CalculateDelay returns how long to wait before retrying.
// This is a PURE function.
func CalculateDelay(result CheckResult, now time.Time) time.Duration {
	if result.Allowed {
		return 0
	}
	delay := result.ResetAt.Sub(now)
	if delay < 0 {
		return 0
	}
	return delay
}

// RetryAfterSeconds returns the Retry-After header value for a denied
// check, rounded up so a client never retries early.
func RetryAfterSeconds(result CheckResult, now time.Time) int {
	delay := CalculateDelay(result, now)
	secs := int((delay + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
