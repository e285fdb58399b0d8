// Package caches provides the specialized object caches that front the
// upstream services. Each cache owns one TTL store exclusively.
package caches

import (
	"context"
	"encoding/base64"

	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports"
	"go.trai.ch/keep/internal/engine/batch"
	"go.trai.ch/keep/internal/engine/ttlstore"
)

// DefaultMediaType is used by DataURI when the caller does not name one.
const DefaultMediaType = "application/octet-stream"

// BlobCache caches binary objects as base64 text.
type BlobCache struct {
	coord *batch.Coordinator[string]
}

// NewBlobCache creates a blob cache reading from the attachments bucket.
func NewBlobCache(
	cfg domain.CacheConfig,
	objects ports.ObjectStore,
	logger ports.Logger,
	tracer ports.Tracer,
	opts ...batch.Option,
) *BlobCache {
	fetch := func(ctx context.Context, id string) (string, error) {
		raw, err := objects.Fetch(ctx, domain.BucketAttachments, id)
		if err != nil {
			return "", err
		}
		return base64.StdEncoding.EncodeToString(raw), nil
	}

	return &BlobCache{
		coord: batch.NewCoordinator("blob", ttlstore.New[string](cfg), fetch, logger, tracer, opts...),
	}
}

// Get returns the encoded object, fetching it on a miss.
func (c *BlobCache) Get(ctx context.Context, id string) (string, bool) {
	return c.coord.Get(ctx, id)
}

// BatchGet returns the encoded objects that could be loaded.
func (c *BlobCache) BatchGet(ctx context.Context, ids []string) map[string]string {
	return c.coord.BatchGet(ctx, ids)
}

// DataURI returns the object as a data reference that can be embedded
// directly, e.g. data:image/png;base64,....
func (c *BlobCache) DataURI(ctx context.Context, id, mediaType string) (string, bool) {
	encoded, ok := c.Get(ctx, id)
	if !ok {
		return "", false
	}
	if mediaType == "" {
		mediaType = DefaultMediaType
	}
	return "data:" + mediaType + ";base64," + encoded, true
}

// Delete drops one object from the cache.
func (c *BlobCache) Delete(id string) {
	c.coord.Store().Delete(id)
}

// Clear drops every cached object.
func (c *BlobCache) Clear() {
	c.coord.Store().Clear()
}

// EvictExpired removes every stale object.
func (c *BlobCache) EvictExpired() int {
	return c.coord.Store().EvictExpired()
}

// Stats reports the state of the underlying store.
func (c *BlobCache) Stats() domain.StoreStats {
	return c.coord.Store().Stats()
}
