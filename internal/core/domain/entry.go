package domain

import "time"

// Entry is a single cached value and the time it was stored.
// Entries are replaced on every set and never mutated in place.
type Entry[V any] struct {
	Data     V
	StoredAt time.Time
}

// Age returns how long the entry has been stored at the given instant.
func (e Entry[V]) Age(now time.Time) time.Duration {
	return now.Sub(e.StoredAt)
}

// Expired reports whether the entry is stale under the given ttl.
// A non-positive ttl makes every entry stale.
func (e Entry[V]) Expired(now time.Time, ttl time.Duration) bool {
	return e.Age(now) >= ttl
}

// CacheConfig tunes the freshness and size trade-off of one cache instance.
type CacheConfig struct {
	TTL     time.Duration
	MaxSize int
}

// StoreStats is a point-in-time view of a TTL store.
type StoreStats struct {
	Size        int
	MaxSize     int
	TTL         time.Duration
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	Expirations uint64
}
