package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/keep/internal/adapters/config"     //nolint:depguard // Wired in app layer
	"go.trai.ch/keep/internal/adapters/logger"     //nolint:depguard // Wired in app layer
	"go.trai.ch/keep/internal/adapters/querycache" //nolint:depguard // Wired in app layer
	"go.trai.ch/keep/internal/adapters/telemetry"  //nolint:depguard // Wired in app layer
	"go.trai.ch/keep/internal/adapters/upstream"   //nolint:depguard // Wired in app layer
	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports"
	"go.trai.ch/keep/internal/engine/caches"
	"go.trai.ch/keep/internal/engine/invalidation"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.ConfigNodeID,
			caches.BlobNodeID,
			caches.IdentityNodeID,
			caches.ClosedItemsNodeID,
			upstream.DocumentStoreNodeID,
			upstream.DocumentWriterNodeID,
			querycache.NodeID,
			invalidation.MutatorNodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(a, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	cfg, err := graft.Dep[domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	blobs, err := graft.Dep[*caches.BlobCache](ctx)
	if err != nil {
		return nil, err
	}

	identities, err := graft.Dep[*caches.IdentityCache](ctx)
	if err != nil {
		return nil, err
	}

	closed, err := graft.Dep[*caches.ScopedSetCache](ctx)
	if err != nil {
		return nil, err
	}

	documents, err := graft.Dep[ports.DocumentStore](ctx)
	if err != nil {
		return nil, err
	}

	writer, err := graft.Dep[ports.DocumentWriter](ctx)
	if err != nil {
		return nil, err
	}

	queries, err := graft.Dep[ports.QueryCache](ctx)
	if err != nil {
		return nil, err
	}

	mutator, err := graft.Dep[*invalidation.Mutator](ctx)
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

	return New(cfg, blobs, identities, closed, documents, writer, queries, mutator, log, tracer), nil
}
