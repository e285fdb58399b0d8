// Package ttlstore implements a bounded key-value store with per-store
// time-to-live and oldest-first eviction.
package ttlstore

import (
	"container/list"
	"sync"
	"time"

	"go.trai.ch/keep/internal/core/domain"
)

// Store is a keyed map of timestamped entries.
//
// Expiry is detected lazily: Get deletes an entry whose age has reached the
// ttl. When the store is full, Set evicts the entry that was inserted first,
// regardless of how recently it was read.
type Store[V any] struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	// order holds keys from oldest (front) to newest (back) insertion.
	order   *list.List
	ttl     time.Duration
	maxSize int

	hits        uint64
	misses      uint64
	evictions   uint64
	expirations uint64
}

type record[V any] struct {
	key   string
	entry domain.Entry[V]
}

// New creates a store with the given configuration.
// A non-positive TTL makes every entry stale on its next read.
// A non-positive MaxSize makes the store retain nothing.
func New[V any](cfg domain.CacheConfig) *Store[V] {
	return &Store[V]{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		ttl:     cfg.TTL,
		maxSize: cfg.MaxSize,
	}
}

// Get returns the value for key if it is present and younger than the ttl.
// An expired entry is removed as a side effect of the lookup.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero V
	el, ok := s.entries[key]
	if !ok {
		s.misses++
		return zero, false
	}

	rec := el.Value.(*record[V])
	if rec.entry.Expired(time.Now(), s.ttl) {
		s.remove(el)
		s.expirations++
		s.misses++
		return zero, false
	}

	s.hits++
	return rec.entry.Data, true
}

// Has reports whether Get would return a value for key.
func (s *Store[V]) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

// Set stores value under key, replacing any previous entry.
// If the store is full the oldest-inserted entry is evicted first.
// An empty key is ignored.
func (s *Store[V]) Set(key string, value V) {
	if key == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxSize <= 0 {
		return
	}

	// A replaced entry counts as a fresh insertion.
	if el, ok := s.entries[key]; ok {
		s.remove(el)
	}

	if len(s.entries) >= s.maxSize {
		if oldest := s.order.Front(); oldest != nil {
			s.remove(oldest)
			s.evictions++
		}
	}

	rec := &record[V]{
		key:   key,
		entry: domain.Entry[V]{Data: value, StoredAt: time.Now()},
	}
	s.entries[key] = s.order.PushBack(rec)
}

// Delete removes key unconditionally.
func (s *Store[V]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.entries[key]; ok {
		s.remove(el)
	}
}

// Clear removes every entry.
func (s *Store[V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*list.Element)
	s.order.Init()
}

// EvictExpired removes every entry whose age has reached the ttl and returns
// how many were removed. Get already ignores such entries, so calling this is
// only needed to release memory.
func (s *Store[V]) EvictExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for el := s.order.Front(); el != nil; {
		next := el.Next()
		if el.Value.(*record[V]).entry.Expired(now, s.ttl) {
			s.remove(el)
			s.expirations++
			removed++
		}
		el = next
	}
	return removed
}

// Len returns the number of stored entries, including ones that have expired
// but were not read since.
func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Stats returns a snapshot of the store's size, limits and counters.
func (s *Store[V]) Stats() domain.StoreStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.StoreStats{
		Size:        len(s.entries),
		MaxSize:     s.maxSize,
		TTL:         s.ttl,
		Hits:        s.hits,
		Misses:      s.misses,
		Evictions:   s.evictions,
		Expirations: s.expirations,
	}
}

// remove must be called with s.mu held.
func (s *Store[V]) remove(el *list.Element) {
	rec := s.order.Remove(el).(*record[V])
	delete(s.entries, rec.key)
}
