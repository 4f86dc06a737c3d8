package viewer

import "sync"

// PageCache holds rendered page JPEGs for one viewing session.
//
// The cache only grows: a slot is written at most once and never evicted,
// so a page URL handed to the client stays valid for the session's
// lifetime. Writers race only on first fill; later Puts are no-ops.
type PageCache struct {
	mu    sync.RWMutex
	pages map[int][]byte
}

// NewPageCache creates an empty cache.
func NewPageCache() *PageCache {
	return &PageCache{pages: make(map[int][]byte)}
}

// Get returns the cached JPEG for the 1-based page n, if present.
func (c *PageCache) Get(n int) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.pages[n]
	return data, ok
}

// Put stores data for page n unless the slot is already filled.
// Returns true if the slot was written.
func (c *PageCache) Put(n int, data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.pages[n]; ok {
		return false
	}
	c.pages[n] = data
	return true
}

// Len reports how many pages are cached.
func (c *PageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}
