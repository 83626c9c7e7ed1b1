package travel

import (
	"sync"
	"time"
)

// Clock returns the current time. Injected so tests can advance time
// deterministically instead of sleeping.
type Clock func() time.Time

// Cache is the estimator's cache abstraction. Implementations must be safe
// for concurrent use; redundant population of the same key under concurrent
// misses is acceptable.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	Clear()
}

type cacheEntry struct {
	value   interface{}
	expires time.Time
}

// TTLCache is an in-memory cache whose entries expire after a fixed TTL.
type TTLCache struct {
	ttl     time.Duration
	now     Clock
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// DefaultTTL is the cache lifetime used when none is configured.
const DefaultTTL = time.Hour

// NewTTLCache creates a TTL cache. A zero ttl falls back to DefaultTTL and a
// nil clock falls back to time.Now.
func NewTTLCache(ttl time.Duration, now Clock) *TTLCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &TTLCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached value for key if it has not expired.
func (c *TTLCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expires) {
		return nil, false
	}
	return entry.value, true
}

// Set stores value under key with the cache's TTL.
func (c *TTLCache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expires: c.now().Add(c.ttl)}
}

// Clear drops all entries.
func (c *TTLCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
