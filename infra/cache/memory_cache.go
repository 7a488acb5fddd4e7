package cache

import (
	"sync"
	"time"
)

type cacheEntry struct {
	payload   map[string]any
	expiresAt time.Time
}

// MemoryCache implements cache.StatusCache using in-memory storage.
type MemoryCache struct {
	cache map[string]*cacheEntry
	mu    sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		cache: make(map[string]*cacheEntry),
	}

	// Start cleanup goroutine
	go c.cleanup()

	return c
}

// Get retrieves a cached payload. Expired or absent entries return nil.
func (c *MemoryCache) Get(key string) (map[string]any, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.cache[key]
	if !exists {
		return nil, nil
	}

	if time.Now().After(entry.expiresAt) {
		return nil, nil
	}

	return entry.payload, nil
}

// Set stores a payload with a TTL.
func (c *MemoryCache) Set(key string, payload map[string]any, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[key] = &cacheEntry{
		payload:   payload,
		expiresAt: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes a payload from the cache.
func (c *MemoryCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.cache, key)
	return nil
}

func (c *MemoryCache) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for key, entry := range c.cache {
			if now.After(entry.expiresAt) {
				delete(c.cache, key)
			}
		}
		c.mu.Unlock()
	}
}
