// Package querycache implements the client-side query cache: results
// addressed by hierarchical keys, with a staleness window and prefix
// invalidation.
package querycache

import (
	"container/list"
	"slices"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/keep/internal/core/domain"
)

// maxHistory bounds the invalidations remembered for SetIfUnchanged. Tokens
// older than the retained history are treated as invalidated.
const maxHistory = 256

// Cache is an in-process query cache. Entries older than the stale time, or
// invalidated since they were stored, are never served.
type Cache struct {
	mu         sync.Mutex
	entries    map[uint64]*list.Element
	order      *list.List
	staleTime  time.Duration
	maxEntries int

	gen     uint64
	history []invalidated
}

// invalidated records one Invalidate or Clear call.
type invalidated struct {
	gen    uint64
	prefix domain.QueryKey
	exact  bool
}

func (r invalidated) covers(key domain.QueryKey) bool {
	if r.exact {
		return key.Equal(r.prefix)
	}
	return key.HasPrefix(r.prefix)
}

type entry struct {
	hash     uint64
	key      domain.QueryKey
	value    any
	storedAt time.Time
	stale    bool
}

// New creates a query cache.
func New(staleTime time.Duration, maxEntries int) *Cache {
	return &Cache{
		entries:    make(map[uint64]*list.Element),
		order:      list.New(),
		staleTime:  staleTime,
		maxEntries: maxEntries,
	}
}

// hashKey hashes the segments, each followed by a NUL byte, so that segment
// boundaries are part of the hash.
func hashKey(key domain.QueryKey) uint64 {
	d := xxhash.New()
	for _, s := range key {
		_, _ = d.WriteString(s)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

// Get returns the cached result for key if it is fresh.
func (c *Cache) Get(key domain.QueryKey) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[hashKey(key)]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry) //nolint:forcetypeassert // list only holds *entry
	if !e.key.Equal(key) {
		return nil, false
	}
	if e.stale || time.Since(e.storedAt) >= c.staleTime {
		c.remove(el)
		return nil, false
	}
	return e.value, true
}

// Set stores value for key, replacing any previous entry. When the cache is
// full the oldest entry is evicted.
func (c *Cache) Set(key domain.QueryKey, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, value)
}

// Generation returns the current invalidation generation. Readers take it
// before loading the data they later pass to SetIfUnchanged.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// SetIfUnchanged stores value for key unless an invalidation covering key ran
// after gen was taken. It reports whether the value was stored.
func (c *Cache) SetIfUnchanged(key domain.QueryKey, gen uint64, value any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.invalidatedSince(key, gen) {
		return false
	}
	c.set(key, value)
	return true
}

func (c *Cache) invalidatedSince(key domain.QueryKey, gen uint64) bool {
	if gen >= c.gen {
		return false
	}
	if len(c.history) == 0 || c.history[0].gen > gen+1 {
		return true
	}
	for _, r := range c.history {
		if r.gen > gen && r.covers(key) {
			return true
		}
	}
	return false
}

func (c *Cache) record(prefix domain.QueryKey, exact bool) {
	c.gen++
	c.history = append(c.history, invalidated{gen: c.gen, prefix: slices.Clone(prefix), exact: exact})
	if len(c.history) > maxHistory {
		c.history = slices.Delete(c.history, 0, len(c.history)-maxHistory)
	}
}

func (c *Cache) set(key domain.QueryKey, value any) {
	if len(key) == 0 || c.maxEntries <= 0 {
		return
	}

	h := hashKey(key)
	if el, ok := c.entries[h]; ok {
		c.remove(el)
	}
	for c.order.Len() >= c.maxEntries {
		c.remove(c.order.Front())
	}

	stored := make(domain.QueryKey, len(key))
	copy(stored, key)
	c.entries[h] = c.order.PushBack(&entry{
		hash:     h,
		key:      stored,
		value:    value,
		storedAt: time.Now(),
	})
}

// Invalidate marks matching entries stale. With exact set only key itself
// matches; otherwise every key that starts with prefix does. It returns the
// number of entries that were fresh before the call. Reads in flight for a
// matching key can no longer store their result through SetIfUnchanged.
func (c *Cache) Invalidate(prefix domain.QueryKey, exact bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.record(prefix, exact)

	count := 0
	for el := c.order.Front(); el != nil; el = el.Next() {
		e := el.Value.(*entry) //nolint:forcetypeassert // list only holds *entry
		if e.stale {
			continue
		}
		if exact && !e.key.Equal(prefix) {
			continue
		}
		if !exact && !e.key.HasPrefix(prefix) {
			continue
		}
		e.stale = true
		count++
	}
	return count
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.record(nil, false)
	c.entries = make(map[uint64]*list.Element)
	c.order.Init()
}

// Len returns the number of stored entries, including stale ones not yet
// collected.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Keys returns the keys of every fresh entry, oldest first.
func (c *Cache) Keys() []domain.QueryKey {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]domain.QueryKey, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		e := el.Value.(*entry) //nolint:forcetypeassert // list only holds *entry
		if e.stale || time.Since(e.storedAt) >= c.staleTime {
			continue
		}
		keys = append(keys, e.key)
	}
	return keys
}

func (c *Cache) remove(el *list.Element) {
	e := el.Value.(*entry) //nolint:forcetypeassert // list only holds *entry
	delete(c.entries, e.hash)
	c.order.Remove(el)
}
