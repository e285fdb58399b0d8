// Package batch coordinates cache-aware upstream fetches: single-key
// read-through, multi-key batch fetches and chunked identifier queries.
package batch

import (
	"context"
	"sync"

	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports"
	"go.trai.ch/keep/internal/engine/ttlstore"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the value for one key from upstream.
type FetchFunc[V any] func(ctx context.Context, key string) (V, error)

// Option configures a Coordinator.
type Option func(*options)

type options struct {
	limit        int
	singleFlight bool
}

// WithConcurrency caps the number of concurrent upstream fetches of one
// batch. Zero or a negative value leaves the batch unbounded.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.limit = n
	}
}

// WithSingleFlight collapses concurrent misses on the same key into one
// upstream fetch. It is off by default: without it two callers missing the
// same key at once both fetch and both write the store.
func WithSingleFlight() Option {
	return func(o *options) {
		o.singleFlight = true
	}
}

// Coordinator fronts one TTL store with an upstream fetch function.
type Coordinator[V any] struct {
	name   string
	store  *ttlstore.Store[V]
	fetch  FetchFunc[V]
	logger ports.Logger
	tracer ports.Tracer
	opts   options
	sf     singleflight.Group
}

// NewCoordinator creates a coordinator. The name identifies the cache in logs
// and spans.
func NewCoordinator[V any](
	name string,
	store *ttlstore.Store[V],
	fetch FetchFunc[V],
	logger ports.Logger,
	tracer ports.Tracer,
	opts ...Option,
) *Coordinator[V] {
	c := &Coordinator[V]{
		name:   name,
		store:  store,
		fetch:  fetch,
		logger: logger,
		tracer: tracer,
	}
	for _, opt := range opts {
		opt(&c.opts)
	}
	return c
}

// Get returns the cached value for key, fetching and storing it on a miss.
// A failed fetch is logged and reported as absent.
func (c *Coordinator[V]) Get(ctx context.Context, key string) (V, bool) {
	if v, ok := c.store.Get(key); ok {
		return v, true
	}
	return c.load(ctx, key)
}

// BatchGet returns the values for keys. Cached keys are served from the
// store; every missing key is fetched concurrently. Keys whose fetch failed
// are logged and left out of the result, so the map may be partial.
// Duplicate keys are fetched at most once.
func (c *Coordinator[V]) BatchGet(ctx context.Context, keys []string) map[string]V {
	ctx, span := c.tracer.Start(ctx, "batch."+c.name)
	defer span.End()

	result := make(map[string]V, len(keys))
	missing := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))

	for _, key := range keys {
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		if v, ok := c.store.Get(key); ok {
			result[key] = v
			continue
		}
		missing = append(missing, key)
	}

	span.SetAttribute("keys.requested", len(keys))
	span.SetAttribute("keys.cached", len(result))
	span.SetAttribute("keys.missing", len(missing))

	if len(missing) == 0 {
		return result
	}

	var (
		mu     sync.Mutex
		failed int
		g      errgroup.Group
	)
	if c.opts.limit > 0 {
		g.SetLimit(c.opts.limit)
	}

	for _, key := range missing {
		g.Go(func() error {
			v, ok := c.load(ctx, key)

			mu.Lock()
			defer mu.Unlock()
			if !ok {
				failed++
				return nil
			}
			result[key] = v
			return nil
		})
	}

	// Fetch failures are absorbed per key, so Wait never reports an error.
	_ = g.Wait()

	span.SetAttribute("keys.failed", failed)
	return result
}

// Store exposes the underlying TTL store.
func (c *Coordinator[V]) Store() *ttlstore.Store[V] {
	return c.store
}

func (c *Coordinator[V]) load(ctx context.Context, key string) (V, bool) {
	var zero V

	if !c.opts.singleFlight {
		return c.fetchAndStore(ctx, key)
	}

	res, _, _ := c.sf.Do(key, func() (any, error) {
		v, ok := c.fetchAndStore(ctx, key)
		return loaded[V]{value: v, ok: ok}, nil
	})
	l, ok := res.(loaded[V])
	if !ok || !l.ok {
		return zero, false
	}
	return l.value, true
}

type loaded[V any] struct {
	value V
	ok    bool
}

func (c *Coordinator[V]) fetchAndStore(ctx context.Context, key string) (V, bool) {
	v, err := c.fetch(ctx, key)
	if err != nil {
		enhanced := zerr.With(zerr.Wrap(err, domain.ErrUpstreamFetchFailed.Error()), "cache", c.name)
		c.logger.Error(zerr.With(enhanced, "key", key))
		var zero V
		return zero, false
	}
	c.store.Set(key, v)
	return v, true
}
