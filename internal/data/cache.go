package data

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// CacheEntry is one cached value with its expiry.
type CacheEntry struct {
	Value     any
	ExpiresAt time.Time
}

// Cache is an in-memory TTL cache for loaded datasets and stored analysis
// results. It is constructor-injected: create one in main and pass it to
// whatever needs it. There is no ambient global instance.
//
// A nil *Cache is valid and caches nothing, so callers don't need to guard.
type Cache struct {
	mu    sync.RWMutex
	store map[string]CacheEntry
	ttl   time.Duration
}

// NewCache creates a cache with the given TTL. A non-positive TTL disables
// expiry (entries live until Invalidate).
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		store: make(map[string]CacheEntry),
		ttl:   ttl,
	}
}

// Get returns the cached value for key if present and not expired.
func (c *Cache) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[key]
	if !ok {
		return nil, false
	}
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Value, true
}

// Set stores a value under key with the cache's TTL.
func (c *Cache) Set(key string, value any) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := CacheEntry{Value: value}
	if c.ttl > 0 {
		entry.ExpiresAt = time.Now().Add(c.ttl)
	}
	c.store[key] = entry
}

// Invalidate drops every entry. Expired entries are also dropped lazily on
// Get, so no background sweeper runs.
func (c *Cache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]CacheEntry)
}

// Len returns the number of entries currently held, expired or not.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// DatasetKey builds a deterministic cache key for a dataset reference plus
// filter signature. The key is hashed to keep it a fixed size.
func DatasetKey(parts ...string) string {
	joined := ""
	for i, p := range parts {
		if i > 0 {
			joined += ":"
		}
		joined += p
	}
	hash := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(hash[:])
}

// FilterSignature renders filter parameters into a stable key fragment.
func FilterSignature(period string, block string, islands []string, convention string) string {
	return fmt.Sprintf("%s|%s|%v|%s", period, block, islands, convention)
}
