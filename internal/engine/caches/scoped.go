package caches

import (
	"maps"
	"slices"
	"sync"

	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/engine/ttlstore"
)

// Set is a set of identifiers.
type Set map[string]struct{}

// NewSet builds a set from ids.
func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is a member.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []string {
	return slices.Sorted(maps.Keys(s))
}

// maxTrackedScopes bounds the per-scope invalidation generations kept for
// SetIfUnchanged. Past it the table is reset and older tokens are rejected.
const maxTrackedScopes = 1024

// ScopedSetCache caches one identifier set per scope. Callers compute the set
// and populate the cache; the cache never fetches on its own.
type ScopedSetCache struct {
	name  string
	store *ttlstore.Store[Set]

	mu          sync.Mutex
	gen         uint64
	clearedAt   uint64
	invalidated map[string]uint64
}

// NewScopedSetCache creates a scoped-set cache. The name is how invalidation
// rules refer to it.
func NewScopedSetCache(name string, cfg domain.CacheConfig) *ScopedSetCache {
	return &ScopedSetCache{
		name:        name,
		store:       ttlstore.New[Set](cfg),
		invalidated: make(map[string]uint64),
	}
}

// Name returns the name the cache was registered under.
func (c *ScopedSetCache) Name() string {
	return c.name
}

// Get returns a copy of the set cached for scope.
func (c *ScopedSetCache) Get(scope string) (Set, bool) {
	s, ok := c.store.Get(scope)
	if !ok {
		return nil, false
	}
	return maps.Clone(s), true
}

// Set caches a copy of members for scope.
func (c *ScopedSetCache) Set(scope string, members Set) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(scope, members)
}

// Generation returns the current invalidation generation. Callers take it
// before computing a set they pass to SetIfUnchanged.
func (c *ScopedSetCache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// SetIfUnchanged caches a copy of members for scope unless the scope was
// invalidated, or the cache cleared, after gen was taken. It reports whether
// the set was stored.
func (c *ScopedSetCache) SetIfUnchanged(scope string, gen uint64, members Set) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.clearedAt > gen || c.invalidated[scope] > gen {
		return false
	}
	c.set(scope, members)
	return true
}

func (c *ScopedSetCache) set(scope string, members Set) {
	cp := maps.Clone(members)
	if cp == nil {
		cp = Set{}
	}
	c.store.Set(scope, cp)
}

// Invalidate drops the set cached for scope regardless of its age.
func (c *ScopedSetCache) Invalidate(scope string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	if len(c.invalidated) >= maxTrackedScopes {
		c.clearedAt = c.gen
		clear(c.invalidated)
	}
	c.invalidated[scope] = c.gen
	c.store.Delete(scope)
}

// Clear drops every cached set.
func (c *ScopedSetCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.clearedAt = c.gen
	clear(c.invalidated)
	c.store.Clear()
}

// EvictExpired removes every stale set.
func (c *ScopedSetCache) EvictExpired() int {
	return c.store.EvictExpired()
}

// Stats reports the state of the underlying store.
func (c *ScopedSetCache) Stats() domain.StoreStats {
	return c.store.Stats()
}
