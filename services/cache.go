package services

import (
	"sync"
	"time"
)

// QueryCache holds server responses keyed by resource. Entries carry a TTL;
// a stale entry is refetched on the next read and replaced wholesale, which
// is also how poll ticks update their resources.
type QueryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value     interface{}
	fetchedAt time.Time
	ttl       time.Duration
}

var queryCacheInstance = NewQueryCache()

// NewQueryCache creates an empty query cache.
func NewQueryCache() *QueryCache {
	return &QueryCache{entries: make(map[string]cacheEntry)}
}

// GetQueryCache returns the shared query cache instance
func GetQueryCache() *QueryCache {
	return queryCacheInstance
}

// ResetQueryCache replaces the shared cache with an empty one (primarily for testing)
func ResetQueryCache() {
	queryCacheInstance = NewQueryCache()
}

// Get returns the cached value for a key. ok is false when the key is
// missing or the entry has gone stale.
func (c *QueryCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, found := c.entries[key]
	if !found {
		return nil, false
	}
	if entry.ttl > 0 && time.Since(entry.fetchedAt) > entry.ttl {
		return nil, false
	}
	return entry.value, true
}

// Peek returns the cached value even when stale. Staff views prefer stale
// data over nothing while a poll is failing.
func (c *QueryCache) Peek(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, found := c.entries[key]
	if !found {
		return nil, false
	}
	return entry.value, true
}

// Put stores a value under a key with a TTL. A ttl of 0 never goes stale
// and must be replaced explicitly.
func (c *QueryCache) Put(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, fetchedAt: time.Now(), ttl: ttl}
}

// Invalidate drops a single key.
func (c *QueryCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear drops every entry. Used on logout so the next identity starts cold.
func (c *QueryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Fetch returns the cached value for key, or runs fetch and stores its
// result when the key is missing or stale.
func (c *QueryCache) Fetch(key string, ttl time.Duration, fetch func() (interface{}, error)) (interface{}, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}
	value, err := fetch()
	if err != nil {
		return nil, err
	}
	c.Put(key, value, ttl)
	return value, nil
}
