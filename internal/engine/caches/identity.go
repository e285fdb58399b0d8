package caches

import (
	"context"

	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports"
	"go.trai.ch/keep/internal/engine/batch"
	"go.trai.ch/keep/internal/engine/ttlstore"
	"go.trai.ch/zerr"
)

// IdentityCache caches the safe projection of principal records. The full
// record never reaches the store.
type IdentityCache struct {
	coord *batch.Coordinator[domain.PrincipalView]
}

// NewIdentityCache creates an identity cache backed by svc.
func NewIdentityCache(
	cfg domain.CacheConfig,
	svc ports.IdentityService,
	logger ports.Logger,
	tracer ports.Tracer,
	opts ...batch.Option,
) *IdentityCache {
	fetch := func(ctx context.Context, id string) (domain.PrincipalView, error) {
		p, err := svc.LookupPrincipal(ctx, id)
		if err != nil {
			return domain.PrincipalView{}, err
		}
		if p == nil {
			return domain.PrincipalView{}, zerr.With(zerr.Wrap(domain.ErrObjectNotFound, "empty principal record"), "principal", id)
		}
		return p.View(), nil
	}

	return &IdentityCache{
		coord: batch.NewCoordinator("identity", ttlstore.New[domain.PrincipalView](cfg), fetch, logger, tracer, opts...),
	}
}

// Get returns the principal view, fetching it on a miss.
func (c *IdentityCache) Get(ctx context.Context, id string) (domain.PrincipalView, bool) {
	return c.coord.Get(ctx, id)
}

// BatchGet returns the principal views that could be loaded.
func (c *IdentityCache) BatchGet(ctx context.Context, ids []string) map[string]domain.PrincipalView {
	return c.coord.BatchGet(ctx, ids)
}

// Delete drops one principal, e.g. after an administrative change.
func (c *IdentityCache) Delete(id string) {
	c.coord.Store().Delete(id)
}

// Clear drops every cached principal.
func (c *IdentityCache) Clear() {
	c.coord.Store().Clear()
}

// EvictExpired removes every stale principal.
func (c *IdentityCache) EvictExpired() int {
	return c.coord.Store().EvictExpired()
}

// Stats reports the state of the underlying store.
func (c *IdentityCache) Stats() domain.StoreStats {
	return c.coord.Store().Stats()
}
