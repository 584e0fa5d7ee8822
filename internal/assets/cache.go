package assets

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Default cache policy: entries live for ten minutes and expired entries
// are swept every twenty.
const (
	DefaultCacheTTL     = 10 * time.Minute
	DefaultCacheCleanup = 20 * time.Minute
)

// Cache stores fetched assets across renders. Implementations must be safe
// for concurrent use.
type Cache interface {
	Get(key string) (Asset, bool)
	Set(key string, a Asset)
}

// TTLCache is a Cache with per-entry expiry backed by go-cache.
type TTLCache struct {
	c *cache.Cache
}

// NewTTLCache creates a cache whose entries expire after ttl and are
// evicted every cleanup interval.
func NewTTLCache(ttl, cleanup time.Duration) *TTLCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if cleanup <= 0 {
		cleanup = DefaultCacheCleanup
	}
	return &TTLCache{c: cache.New(ttl, cleanup)}
}

// Get returns a cached asset.
func (t *TTLCache) Get(key string) (Asset, bool) {
	v, ok := t.c.Get(key)
	if !ok {
		return Asset{}, false
	}
	a, ok := v.(Asset)
	return a, ok
}

// Set stores an asset with the default TTL.
func (t *TTLCache) Set(key string, a Asset) {
	t.c.SetDefault(key, a)
}

// Len reports the number of entries, including expired ones not yet swept.
func (t *TTLCache) Len() int {
	return t.c.ItemCount()
}

// Compile-time interface check.
var _ Cache = (*TTLCache)(nil)
