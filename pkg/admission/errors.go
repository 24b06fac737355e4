package admission

import (
	"errors"
	"fmt"
	"time"
)

// Sentinels for errors.Is checks; the typed errors below carry the detail.
var (
	ErrRateLimited   = errors.New("request rate limited")
	ErrQuotaExceeded = errors.New("daily quota exceeded")
)

// RateLimitedError reports a per-key cooldown rejection with no stale
// result available to serve instead.
type RateLimitedError struct {
	Key        string
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("key %q rate limited, retry after %s", e.Key, e.RetryAfter.Round(time.Second))
}

func (e *RateLimitedError) Is(target error) bool { return target == ErrRateLimited }

// QuotaExceededError reports that the daily analysis budget is spent.
type QuotaExceededError struct {
	Limit    int
	ResetsAt time.Time
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("daily quota of %d analyses exceeded, resets at %s", e.Limit, e.ResetsAt.Format(time.RFC3339))
}

func (e *QuotaExceededError) Is(target error) bool { return target == ErrQuotaExceeded }
