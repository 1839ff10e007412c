package view

import (
	"strings"
	"sync"
	"time"

	"github.com/diewo77/marketplace/i18n"
)

// Cache stores rendered page bodies keyed by the full request path
// (locale prefix included). Action handlers invalidate by logical prefix
// after a mutation so every locale variant of an affected page is dropped
// and the next view reflects the change.
type Cache struct {
	mu    sync.RWMutex
	pages map[string]cacheEntry
	ttl   time.Duration
}

type cacheEntry struct {
	body      []byte
	expiresAt time.Time
}

// NewCache creates a page cache. ttl bounds staleness for pages no mutation
// ever touches; invalidation is the primary freshness mechanism.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{pages: make(map[string]cacheEntry), ttl: ttl}
}

// Get returns the cached body for a request path, if fresh.
func (c *Cache) Get(path string) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.pages[path]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.body, true
}

// Put stores a rendered body for a request path.
func (c *Cache) Put(path string, body []byte) {
	buf := make([]byte, len(body))
	copy(buf, body)
	c.mu.Lock()
	c.pages[path] = cacheEntry{body: buf, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate drops every cached rendering whose logical path falls under one
// of the given logical prefixes, across all locales.
func (c *Cache) Invalidate(logicalPrefixes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.pages {
		_, logical := i18n.FromPath(key)
		for _, prefix := range logicalPrefixes {
			if underPrefix(logical, prefix) {
				delete(c.pages, key)
				break
			}
		}
	}
}

// InvalidateAll clears the entire cache. Used for settings changes that
// affect every rendered page (header, footer, site name).
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.pages = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// underPrefix matches on segment boundaries; "/" means the home page itself,
// not everything under it (use InvalidateAll for that).
func underPrefix(path, prefix string) bool {
	if prefix == "/" {
		return path == "/" || path == ""
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}
