package domain

import "go.trai.ch/zerr"

var (
	// ErrUpstreamFetchFailed is returned when a single key could not be fetched from the backing service.
	ErrUpstreamFetchFailed = zerr.New("upstream fetch failed")

	// ErrUpstreamQueryFailed is returned when a chunked document query fails for one chunk.
	ErrUpstreamQueryFailed = zerr.New("upstream query failed")

	// ErrObjectNotFound is returned by the upstream service when an object, principal or document does not exist.
	ErrObjectNotFound = zerr.New("object not found")

	// ErrInvalidChunkSize is returned when a chunked query is requested with a non-positive chunk size.
	ErrInvalidChunkSize = zerr.New("chunk size must be positive")

	// ErrRuleAlreadyRegistered is returned when two invalidation rules are registered for the same mutation kind.
	ErrRuleAlreadyRegistered = zerr.New("invalidation rule already registered")

	// ErrInvalidRule is returned when an invalidation rule has no trigger kind or no effect.
	ErrInvalidRule = zerr.New("invalid invalidation rule")

	// ErrInvalidKeyPattern is returned when a key pattern is empty or references an unknown placeholder.
	ErrInvalidKeyPattern = zerr.New("invalid key pattern")

	// ErrUnknownScopedSet is returned when a rule references a scoped-set cache that was not registered.
	ErrUnknownScopedSet = zerr.New("unknown scoped-set cache")

	// ErrMutationFailed is returned when the wrapped write function fails.
	ErrMutationFailed = zerr.New("mutation failed")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a config value is out of range.
	ErrInvalidConfig = zerr.New("invalid config value")

	// ErrFixtureReadFailed is returned when the upstream fixture file cannot be read.
	ErrFixtureReadFailed = zerr.New("failed to read upstream fixture")

	// ErrFixtureParseFailed is returned when the upstream fixture file cannot be parsed.
	ErrFixtureParseFailed = zerr.New("failed to parse upstream fixture")
)
