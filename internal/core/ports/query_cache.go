package ports

import "go.trai.ch/keep/internal/core/domain"

// QueryCache is the client-side cache of query results addressed by
// hierarchical keys.
//
//go:generate go run go.uber.org/mock/mockgen -source=query_cache.go -destination=mocks/mock_query_cache.go -package=mocks
type QueryCache interface {
	// Get returns a fresh cached result for key.
	Get(key domain.QueryKey) (any, bool)

	// Set stores a result for key.
	Set(key domain.QueryKey, value any)

	// Generation returns a token identifying the invalidations applied so far.
	// Take it before reading the data that will be cached.
	Generation() uint64

	// SetIfUnchanged stores a result for key unless an invalidation covering
	// key ran after gen was taken. It reports whether the result was stored.
	SetIfUnchanged(key domain.QueryKey, gen uint64, value any) bool

	// Invalidate marks entries stale so that the next Get misses.
	// With exact set only the key itself is affected, otherwise every key
	// beginning with prefix. It returns the number of entries affected.
	Invalidate(prefix domain.QueryKey, exact bool) int
}
