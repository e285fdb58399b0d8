package domain

import "time"

// ConfigFileName is the default name of the cache tuning file.
const ConfigFileName = "keep.yaml"

// ConfigEnvVar overrides the path of the cache tuning file.
const ConfigEnvVar = "KEEP_CONFIG"

// Config holds every tunable of the cache layer. It is read once at process
// start and never changed afterwards.
type Config struct {
	// Blob caches encoded binary objects. Objects are immutable once uploaded
	// so they are kept longer than anything else.
	Blob CacheConfig
	// Identity caches principal projections. Kept short because principals
	// can change through external administration.
	Identity CacheConfig
	// ClosedItems caches the per-workspace set of closed item IDs.
	ClosedItems CacheConfig
	// QueryStaleTime is the staleness window of the client-side query cache.
	QueryStaleTime time.Duration
	// QueryMaxEntries bounds the client-side query cache.
	QueryMaxEntries int
	// ChunkSize is the upstream ceiling of identifiers per query.
	ChunkSize int
	// FetchConcurrency caps concurrent upstream fetches in one batch. Zero means unbounded.
	FetchConcurrency int
	// SweepInterval is how often expired entries are swept. Zero disables the sweeper.
	SweepInterval time.Duration
	// FixturePath points the fixture upstream at a YAML data file.
	FixturePath string
}

// Default tunables.
const (
	DefaultBlobTTL          = 30 * time.Minute
	DefaultBlobMaxSize      = 500
	DefaultIdentityTTL      = 5 * time.Minute
	DefaultIdentityMaxSize  = 1000
	DefaultClosedItemsTTL   = 2 * time.Minute
	DefaultClosedItemsMax   = 200
	DefaultQueryStaleTime   = time.Minute
	DefaultQueryMaxEntries  = 2000
	DefaultChunkSize        = 30
	DefaultFetchConcurrency = 0
	DefaultSweepInterval    = time.Minute
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Blob:             CacheConfig{TTL: DefaultBlobTTL, MaxSize: DefaultBlobMaxSize},
		Identity:         CacheConfig{TTL: DefaultIdentityTTL, MaxSize: DefaultIdentityMaxSize},
		ClosedItems:      CacheConfig{TTL: DefaultClosedItemsTTL, MaxSize: DefaultClosedItemsMax},
		QueryStaleTime:   DefaultQueryStaleTime,
		QueryMaxEntries:  DefaultQueryMaxEntries,
		ChunkSize:        DefaultChunkSize,
		FetchConcurrency: DefaultFetchConcurrency,
		SweepInterval:    DefaultSweepInterval,
	}
}
