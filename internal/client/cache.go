package client

import (
	"strings"
	"sync"
	"time"
)

type cacheEntry struct {
	payload   []byte
	timestamp time.Time
}

// responseCache is a TTL-only response cache keyed by request URL.
// Eviction is purely time-based: no entry cap, no LRU. Entries are
// scoped to the process lifetime and cleared wholesale on logout.
type responseCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func newResponseCache(ttl time.Duration) *responseCache {
	return &responseCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// get returns the cached payload for key. An entry is usable only while
// its age is strictly less than the TTL; at or past the TTL it is
// treated as absent and dropped.
func (c *responseCache) get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.timestamp) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return entry.payload, true
}

// set stores payload under key, replacing any prior entry with a fresh
// timestamp.
func (c *responseCache) set(key string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{payload: payload, timestamp: c.now()}
}

// invalidatePrefix drops every entry whose key starts with prefix.
func (c *responseCache) invalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

func (c *responseCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]cacheEntry)
}
