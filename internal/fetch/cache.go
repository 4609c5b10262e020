package fetch

import (
	"sync"
	"time"
)

// Cache stores shaped payloads by request URL.
type Cache interface {
	Get(key string) (Payload, bool)
	Set(key string, p Payload, ttl time.Duration)
}

type cacheEntry struct {
	payload   Payload
	expiresAt time.Time
}

// TTLCache is a bounded in-memory Cache. Entries expire lazily on lookup;
// reaching the entry cap clears the whole map rather than evicting one entry.
type TTLCache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewTTLCache creates a cache with the given default ttl and entry cap.
func NewTTLCache(ttl time.Duration, maxEntries int) *TTLCache {
	return &TTLCache{
		entries:    make(map[string]cacheEntry),
		ttl:        coalesce(ttl, DefaultCacheTTL),
		maxEntries: coalesce(maxEntries, DefaultCacheMaxEntries),
		now:        time.Now,
	}
}

// Get returns the payload for key unless it has expired, in which case the
// entry is evicted.
func (c *TTLCache) Get(key string) (Payload, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return Payload{}, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return Payload{}, false
	}
	return e.payload, true
}

// Set installs or overwrites key. ttl <= 0 uses the cache default.
func (c *TTLCache) Set(key string, p Payload, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		clear(c.entries)
	}
	c.entries[key] = cacheEntry{payload: p, expiresAt: c.now().Add(ttl)}
}

// Len returns the number of stored entries, expired or not.
func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every entry.
func (c *TTLCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}
