package services

import (
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/notesearch/internal/core/domain"
)

// DefaultCacheTTL is how long a cached response stays fresh.
const DefaultCacheTTL = 5 * time.Minute

// ResponseCache holds recent search responses keyed by normalised query
// text. It is owned by a session controller and passed in at construction.
type ResponseCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

type cacheEntry struct {
	response *domain.SearchResponse
	storedAt time.Time
}

// NewResponseCache creates a cache whose entries expire after ttl.
// A non-positive ttl uses DefaultCacheTTL.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ResponseCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// CacheKey normalises a query for cache lookups.
func CacheKey(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

// Get returns a copy of the fresh response cached for query.
func (c *ResponseCache) Get(query string) (*domain.SearchResponse, bool) {
	key := CacheKey(query)
	if key == "" {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.response.Clone(), true
}

// Put caches a copy of resp for query.
func (c *ResponseCache) Put(query string, resp *domain.SearchResponse) {
	key := CacheKey(query)
	if key == "" || resp == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{response: resp.Clone(), storedAt: c.now()}
}

// Invalidate drops the entry for query.
func (c *ResponseCache) Invalidate(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, CacheKey(query))
}

// Clear drops all entries.
func (c *ResponseCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Len returns the number of entries, fresh or not.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
