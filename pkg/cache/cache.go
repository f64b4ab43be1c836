// Package cache provides URL-keyed response caches for the archive
// client. Entries are never evicted implicitly; callers control
// freshness through Invalidate and Clear.
package cache

import "sync"

// MemoryCache is a process-lifetime in-memory cache. It is safe for
// concurrent use; inserts are idempotent because a URL always maps to
// the same fetched body.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string][]byte),
	}
}

// Get returns the cached body for url, if present.
func (c *MemoryCache) Get(url string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	body, ok := c.entries[url]
	return body, ok
}

// Set stores the body for url.
func (c *MemoryCache) Set(url string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = body
}

// Invalidate removes a single entry.
func (c *MemoryCache) Invalidate(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, url)
}

// Clear removes all entries.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string][]byte)
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
