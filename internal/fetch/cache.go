package fetch

import (
	"sync"

	"github.com/powderline/snowday/internal/domain"
)

// headerIfModifiedSince is the conditional-request header carrying the
// validation token back to the source.
const headerIfModifiedSince = "If-Modified-Since"

type cacheEntry struct {
	token  string
	record domain.ConditionRecord
}

// ValidationCache maps a source URL to the last validation token and the
// last successfully normalized record for that URL, so an unchanged page is
// never re-extracted. One entry per URL, last write wins, no expiry: at one
// entry per resort the cache is bounded by configuration, not time.
//
// The cache is safe for concurrent use by per-resort goroutines. Concurrent
// updates for the same URL are not coordinated beyond last-write-wins.
type ValidationCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewValidationCache creates an empty cache.
func NewValidationCache() *ValidationCache {
	return &ValidationCache{entries: make(map[string]cacheEntry)}
}

// ConditionalHeaders returns the conditional-request headers for a URL, or
// an empty map when no token is known.
func (c *ValidationCache) ConditionalHeaders(url string) map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[url]
	if !ok || entry.token == "" {
		return map[string]string{}
	}
	return map[string]string{headerIfModifiedSince: entry.token}
}

// Update unconditionally overwrites the stored token and record for a URL.
func (c *ValidationCache) Update(url, token string, record domain.ConditionRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = cacheEntry{token: token, record: record}
}

// Get returns the last stored record for a URL.
func (c *ValidationCache) Get(url string) (domain.ConditionRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[url]
	return entry.record, ok
}
