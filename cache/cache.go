package cache

import (
	"context"
	"sync"

	"github.com/normanwashere/patient-portal-prototype-sub001/gate"
)

// Key identifies one decision. Revision is the registry revision the tenant
// features were read at, so a feature or tenant change never serves a stale
// decision. Owner separates resolvers sharing one cache; revisions are only
// comparable within a single owner's feature source.
type Key struct {
	Owner    uint64
	Portal   string
	Kind     gate.DecisionKind
	Role     gate.Role
	Subject  string
	TenantID string
	Revision uint64
}

// Entry stores a resolved decision.
type Entry struct {
	Decision gate.Decision
}

// Cache stores resolved decisions.
type Cache interface {
	Get(ctx context.Context, key Key) (Entry, bool)
	Set(ctx context.Context, key Key, entry Entry)
	Clear(ctx context.Context)
}

// NoopCache ignores all cache operations.
type NoopCache struct{}

// Get implements Cache.
func (NoopCache) Get(context.Context, Key) (Entry, bool) {
	return Entry{}, false
}

// Set implements Cache.
func (NoopCache) Set(context.Context, Key, Entry) {}

// Clear implements Cache.
func (NoopCache) Clear(context.Context) {}

// MemoryCache keeps decisions for the newest revision it has seen. Entries
// written for an older revision are ignored and a newer revision drops
// everything cached before it. Share one MemoryCache only between resolvers
// reading the same registry: resolvers over different registries stay
// correct but keep evicting each other.
type MemoryCache struct {
	mu       sync.RWMutex
	revision uint64
	entries  map[Key]Entry
}

// NewMemoryCache returns an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[Key]Entry{}}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key Key) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	return entry, ok
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key Key, entry Entry) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if key.Revision < c.revision {
		return
	}
	if key.Revision > c.revision || c.entries == nil {
		c.entries = map[Key]Entry{}
		c.revision = key.Revision
	}
	c.entries[key] = entry
}

// Clear implements Cache.
func (c *MemoryCache) Clear(context.Context) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[Key]Entry{}
}

// Len returns the number of cached decisions.
func (c *MemoryCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var (
	_ Cache = NoopCache{}
	_ Cache = (*MemoryCache)(nil)
)
