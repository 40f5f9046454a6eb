package cache

import (
	"context"
	"path"
	"sync"
	"time"

	"github.com/callsheethq/callsheet/internal/priority/domain"
)

// MemoryResultCache is an in-process ResultCache used in tests and in
// cache-less deployments. Entries honor their TTL lazily on read.
type MemoryResultCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryResultCache creates an empty in-memory cache.
func NewMemoryResultCache() *MemoryResultCache {
	return &MemoryResultCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get retrieves a non-expired entry, reporting domain.ErrCacheMiss otherwise.
func (c *MemoryResultCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, domain.ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, domain.ErrCacheMiss
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, nil
}

// Set stores a value; a zero TTL stores without expiration.
func (c *MemoryResultCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: make([]byte, len(value))}
	copy(entry.value, value)
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

// Invalidate removes every key matching the wildcard pattern.
func (c *MemoryResultCache) Invalidate(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if ok, err := path.Match(pattern, key); err == nil && ok {
			delete(c.entries, key)
		}
	}
	return nil
}

// Len reports how many entries are held, expired ones included.
func (c *MemoryResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ domain.ResultCache = (*MemoryResultCache)(nil)
