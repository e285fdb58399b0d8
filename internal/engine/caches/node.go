package caches

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/keep/internal/adapters/config"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/keep/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/keep/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/keep/internal/adapters/upstream"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports"
	"go.trai.ch/keep/internal/engine/batch"
)

const (
	// BlobNodeID is the unique identifier for the blob cache Graft node.
	BlobNodeID graft.ID = "engine.blob_cache"
	// IdentityNodeID is the unique identifier for the identity cache Graft node.
	IdentityNodeID graft.ID = "engine.identity_cache"
	// ClosedItemsNodeID is the unique identifier for the closed-items scoped-set cache Graft node.
	ClosedItemsNodeID graft.ID = "engine.closed_items_cache"
)

func init() {
	graft.Register(graft.Node[*BlobCache]{
		ID:        BlobNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ConfigNodeID,
			upstream.ObjectStoreNodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*BlobCache, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			objects, err := graft.Dep[ports.ObjectStore](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return NewBlobCache(cfg.Blob, objects, log, tracer, batch.WithConcurrency(cfg.FetchConcurrency)), nil
		},
	})

	graft.Register(graft.Node[*IdentityCache]{
		ID:        IdentityNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ConfigNodeID,
			upstream.IdentityNodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*IdentityCache, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}

			svc, err := graft.Dep[ports.IdentityService](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return NewIdentityCache(cfg.Identity, svc, log, tracer, batch.WithConcurrency(cfg.FetchConcurrency)), nil
		},
	})

	graft.Register(graft.Node[*ScopedSetCache]{
		ID:        ClosedItemsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID},
		Run: func(ctx context.Context) (*ScopedSetCache, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewScopedSetCache(domain.ScopedSetClosedItems, cfg.ClosedItems), nil
		},
	})
}
