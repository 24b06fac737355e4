// Package admission decides whether an analysis request runs, serves
// from cache, serves stale, or is rejected. It enforces a per-key
// cooldown and a global daily quota, and coalesces concurrent requests
// for the same key into one computation.
package admission

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/safeharbor-labs/vidguard/pkg/analysis"
	"github.com/safeharbor-labs/vidguard/pkg/evidence"
)

// Metrics receives controller outcomes. Implemented by telemetry; a nil
// Metrics disables recording.
type Metrics interface {
	ObserveEvaluation(outcome string)
	SetQuotaUsed(used, limit int)
}

// Evaluation outcomes reported to Metrics.
const (
	OutcomeCacheHit      = "cache_hit"
	OutcomeComputed      = "computed"
	OutcomeCoalesced     = "coalesced"
	OutcomeStaleServed   = "stale_served"
	OutcomeRateLimited   = "rate_limited"
	OutcomeQuotaExceeded = "quota_exceeded"
	OutcomeError         = "error"
)

// Config holds the admission knobs.
type Config struct {
	// CacheTTL is the freshness window; entries older than this are
	// stale but still servable under rate limiting.
	CacheTTL time.Duration
	// Cooldown is the minimum gap between computed analyses of one key.
	Cooldown time.Duration
	// DailyQuota caps computed analyses per UTC day. Zero disables it.
	DailyQuota int
}

// Controller front-ends the analyzer. Exported fields are set before
// first use and not mutated afterwards.
type Controller struct {
	Analyzer *analysis.Analyzer
	Gatherer *evidence.Gatherer
	Store    Store
	Config   Config
	Metrics  Metrics

	// Clock is injectable for tests; defaults to time.Now.
	Clock func() time.Time

	flights singleflight.Group

	mu         sync.Mutex
	lastAccess map[string]time.Time
	day        string
	used       int
}

// NewController wires a controller with an in-memory store unless one is
// supplied later.
func NewController(an *analysis.Analyzer, g *evidence.Gatherer, store Store, cfg Config) *Controller {
	if store == nil {
		store = NewMemoryStore(0)
	}
	return &Controller{
		Analyzer:   an,
		Gatherer:   g,
		Store:      store,
		Config:     cfg,
		Clock:      time.Now,
		lastAccess: make(map[string]time.Time),
	}
}

// Evaluate returns the analysis for key, from cache when fresh, stale
// when the key is throttled, and computed otherwise. Concurrent calls
// for the same key share one computation and one quota charge.
func (c *Controller) Evaluate(ctx context.Context, key string, hints evidence.Hints) (*analysis.Result, error) {
	now := c.Clock()
	if entry, ok, err := c.Store.Get(ctx, key); err == nil && ok && now.Sub(entry.StoredAt) < c.Config.CacheTTL {
		c.observe(OutcomeCacheHit)
		return entry.Result, nil
	}

	return c.fly(ctx, key, hints)
}

// Refresh recomputes key even when a fresh cache entry exists. Cooldown
// and quota still apply, so a throttled refresh falls back to the
// cached entry like any other call.
func (c *Controller) Refresh(ctx context.Context, key string, hints evidence.Hints) (*analysis.Result, error) {
	return c.fly(ctx, key, hints)
}

func (c *Controller) fly(ctx context.Context, key string, hints evidence.Hints) (*analysis.Result, error) {
	v, err, shared := c.flights.Do(key, func() (any, error) {
		return c.compute(ctx, key, hints)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.observe(OutcomeCoalesced)
	}
	return v.(*analysis.Result), nil
}

// compute runs inside a singleflight flight: admission check, evidence
// gathering, analysis, cache write.
func (c *Controller) compute(ctx context.Context, key string, hints evidence.Hints) (*analysis.Result, error) {
	now := c.Clock()
	if err := c.admit(key, now); err != nil {
		switch err.(type) {
		case *RateLimitedError:
			// Throttled keys get their last known result, however old.
			if entry, ok, serr := c.Store.Get(ctx, key); serr == nil && ok {
				c.observe(OutcomeStaleServed)
				return entry.Result, nil
			}
			c.observe(OutcomeRateLimited)
		case *QuotaExceededError:
			// The daily quota is a hard wall: no stale fallback.
			c.observe(OutcomeQuotaExceeded)
		}
		return nil, err
	}

	// Detach from caller cancellation: once admitted and charged against
	// the quota, the computation should complete and populate the cache
	// even if the first caller gives up.
	bundle, err := c.Gatherer.Gather(context.WithoutCancel(ctx), key, hints)
	if err != nil {
		c.observe(OutcomeError)
		return nil, err
	}
	res := c.Analyzer.Analyze(bundle)
	if err := c.Store.Put(context.WithoutCancel(ctx), key, res); err != nil {
		log.Printf("[WARN] result cache write failed for %s: %v", key, err)
	}
	c.observe(OutcomeComputed)
	return res, nil
}

// admit applies the daily reset, the per-key cooldown, and the quota,
// and on success records the access. The critical section is short: no
// I/O happens under the lock.
func (c *Controller) admit(key string, now time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	day := now.UTC().Format("2006-01-02")
	if day != c.day {
		c.day = day
		c.used = 0
		// Fresh map so per-key tracking cannot grow without bound.
		c.lastAccess = make(map[string]time.Time)
	}

	if last, ok := c.lastAccess[key]; ok {
		if wait := c.Config.Cooldown - now.Sub(last); wait > 0 {
			return &RateLimitedError{Key: key, RetryAfter: wait}
		}
	}

	if c.Config.DailyQuota > 0 && c.used >= c.Config.DailyQuota {
		midnight := now.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
		return &QuotaExceededError{Limit: c.Config.DailyQuota, ResetsAt: midnight}
	}

	c.lastAccess[key] = now
	c.used++
	if c.Metrics != nil {
		c.Metrics.SetQuotaUsed(c.used, c.Config.DailyQuota)
	}
	return nil
}

// Stats is a point-in-time snapshot for the health endpoint.
type Stats struct {
	CachedEntries int    `json:"cached_entries"`
	QuotaUsed     int    `json:"quota_used"`
	QuotaLimit    int    `json:"quota_limit"`
	Day           string `json:"day"`
	TrackedKeys   int    `json:"tracked_keys"`
}

func (c *Controller) Stats(ctx context.Context) Stats {
	n, err := c.Store.Len(ctx)
	if err != nil {
		n = -1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		CachedEntries: n,
		QuotaUsed:     c.used,
		QuotaLimit:    c.Config.DailyQuota,
		Day:           c.day,
		TrackedKeys:   len(c.lastAccess),
	}
}

func (c *Controller) observe(outcome string) {
	if c.Metrics != nil {
		c.Metrics.ObserveEvaluation(outcome)
	}
}
