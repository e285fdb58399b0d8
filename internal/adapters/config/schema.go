package config

// Keepfile represents the structure of the keep.yaml configuration file.
// Every field is optional; unset fields keep their default.
type Keepfile struct {
	Caches        CachesDTO   `yaml:"caches"`
	Query         QueryDTO    `yaml:"query"`
	Upstream      UpstreamDTO `yaml:"upstream"`
	SweepInterval string      `yaml:"sweepInterval"`
}

// CachesDTO groups the per-cache tunables.
type CachesDTO struct {
	Blob        *CacheDTO `yaml:"blob"`
	Identity    *CacheDTO `yaml:"identity"`
	ClosedItems *CacheDTO `yaml:"closedItems"`
}

// CacheDTO tunes one cache instance.
type CacheDTO struct {
	TTL     string `yaml:"ttl"`
	MaxSize *int   `yaml:"maxSize"`
}

// QueryDTO tunes the client-side query cache.
type QueryDTO struct {
	StaleTime  string `yaml:"staleTime"`
	MaxEntries *int   `yaml:"maxEntries"`
}

// UpstreamDTO tunes how the upstream service is queried.
type UpstreamDTO struct {
	ChunkSize        *int   `yaml:"chunkSize"`
	FetchConcurrency *int   `yaml:"fetchConcurrency"`
	Fixture          string `yaml:"fixture"`
}
