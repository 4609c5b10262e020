// Package fetch is the rate-limited request layer shared by every catalog call:
// a TTL response cache, a retrying HTTP fetch and a two-lane serial queue.
package fetch

import "time"

// Defaults tuned to stay under the upstream's published rate limit.
const (
	DefaultCriticalDelay   = 200 * time.Millisecond
	DefaultBackgroundDelay = 800 * time.Millisecond
	DefaultMaxRetries      = 3
	DefaultBaseBackoff     = 1000 * time.Millisecond
	DefaultCacheTTL        = 300000 * time.Millisecond
	DefaultCacheMaxEntries = 100
)

// Config tunes the queue lanes, retry policy and response cache.
// Zero fields fall back to the defaults above.
type Config struct {
	CriticalDelay   time.Duration
	BackgroundDelay time.Duration
	MaxRetries      int
	BaseBackoff     time.Duration
	CacheTTL        time.Duration
	CacheMaxEntries int

	// SeparateRateLimitBudget gives 429 responses their own budget of MaxRetries
	// waits instead of consuming regular attempts.
	SeparateRateLimitBudget bool
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		CriticalDelay:   DefaultCriticalDelay,
		BackgroundDelay: DefaultBackgroundDelay,
		MaxRetries:      DefaultMaxRetries,
		BaseBackoff:     DefaultBaseBackoff,
		CacheTTL:        DefaultCacheTTL,
		CacheMaxEntries: DefaultCacheMaxEntries,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	c.CriticalDelay = coalesce(c.CriticalDelay, d.CriticalDelay)
	c.BackgroundDelay = coalesce(c.BackgroundDelay, d.BackgroundDelay)
	c.MaxRetries = coalesce(c.MaxRetries, d.MaxRetries)
	c.BaseBackoff = coalesce(c.BaseBackoff, d.BaseBackoff)
	c.CacheTTL = coalesce(c.CacheTTL, d.CacheTTL)
	c.CacheMaxEntries = coalesce(c.CacheMaxEntries, d.CacheMaxEntries)
	return c
}

func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
