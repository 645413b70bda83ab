// querycache.go provides an in-memory implementation of QueryCache.
//
// This adapter caches query results in memory for testing and single-process
// deployments. Entries expire lazily on read after the configured TTL.
// All operations are thread-safe. Data is lost on process restart.
package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Synthetixio/v3-data/internal/ports/outbound"
)

// Compile-time check that QueryCache implements outbound.QueryCache
var _ outbound.QueryCache = (*QueryCache)(nil)

type cacheEntry struct {
	data      json.RawMessage
	expiresAt time.Time
}

// QueryCache is an in-memory implementation of the QueryCache port.
type QueryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
	closed  bool
}

// NewQueryCache creates a new in-memory query cache. A zero TTL means entries
// never expire.
func NewQueryCache(ttl time.Duration) *QueryCache {
	return &QueryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached value for key, or nil on a miss or expired entry.
func (c *QueryCache) Get(ctx context.Context, key string) (json.RawMessage, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, nil
	}
	return entry.data, nil
}

// Set stores a value under key.
func (c *QueryCache) Set(ctx context.Context, key string, data json.RawMessage) error {
	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = c.now().Add(c.ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{data: data, expiresAt: expiresAt}
	return nil
}

// Delete removes a cached entry.
func (c *QueryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Ping always succeeds for the in-memory cache.
func (c *QueryCache) Ping(ctx context.Context) error {
	return nil
}

// Close marks the cache as closed.
func (c *QueryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}
