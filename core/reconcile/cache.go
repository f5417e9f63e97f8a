package reconcile

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache keeps combined results for snapshot pairs that did not change on disk.
// Concurrent requests for the same key share a single computation.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	sf      singleflight.Group
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	result *CombinedResult
	built  time.Time
}

// NewCache creates a cache whose entries live for ttl. A zero ttl disables caching.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *Cache) expired(e *cacheEntry) bool {
	if c.ttl <= 0 {
		return true // No caching
	}
	return c.now().Sub(e.built) > c.ttl
}

// GetOrBuild returns the cached result for key, or calls build and stores its
// result. hit reports whether the value came from the cache. Errors are never
// cached. A nil cache or an empty key always builds.
//
// Every caller receives its own copy; the stored result is never handed out.
func (c *Cache) GetOrBuild(key string, build func() (*CombinedResult, error)) (result *CombinedResult, hit bool, err error) {
	if c == nil || c.ttl <= 0 || key == "" {
		result, err = build()
		return result, false, err
	}

	// Fast path: fresh entry
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && !c.expired(entry) {
		return entry.result.Clone(), true, nil
	}

	// Slow path: one build per key at a time
	v, err, _ := c.sf.Do(key, func() (interface{}, error) {
		c.mu.RLock()
		entry, ok := c.entries[key]
		c.mu.RUnlock()
		if ok && !c.expired(entry) {
			return entry.result, nil
		}

		built, err := build()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = &cacheEntry{result: built, built: c.now()}
		c.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*CombinedResult).Clone(), false, nil
}

// Invalidate drops the entry for key.
func (c *Cache) Invalidate(key string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Purge drops expired entries and returns how many were removed.
func (c *Cache) Purge() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if c.expired(entry) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
