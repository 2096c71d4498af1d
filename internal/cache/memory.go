package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps recently generated narratives in memory with TTL
// eviction, fronting the disk layer so repeated rows within one batch run
// hit neither disk nor the provider.
type MemoryCache struct {
	narratives *gocache.Cache
}

// NewMemoryCache creates a memory cache with the given default TTL and
// eviction sweep interval.
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		narratives: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get returns the cached narrative for the key, if still live.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	val, found := c.narratives.Get(key)
	if !found {
		return nil, false
	}
	narrative, ok := val.(string)
	if !ok {
		return nil, false
	}
	return []byte(narrative), true
}

// Set stores a narrative under the key with the given TTL.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	c.narratives.Set(key, string(value), ttl)
	return nil
}

// Delete removes the entry for the key.
func (c *MemoryCache) Delete(key string) error {
	c.narratives.Delete(key)
	return nil
}

// Clear drops every cached narrative.
func (c *MemoryCache) Clear() error {
	c.narratives.Flush()
	return nil
}
