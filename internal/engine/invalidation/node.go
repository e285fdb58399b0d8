package invalidation

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/keep/internal/adapters/logger"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/keep/internal/adapters/notifier"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/keep/internal/adapters/querycache" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/keep/internal/adapters/telemetry"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/keep/internal/core/ports"
	"go.trai.ch/keep/internal/engine/caches"
)

const (
	// GraphNodeID is the unique identifier for the invalidation graph Graft node.
	GraphNodeID graft.ID = "engine.invalidation_graph"
	// MutatorNodeID is the unique identifier for the mutator Graft node.
	MutatorNodeID graft.ID = "engine.mutator"
)

func init() {
	graft.Register(graft.Node[*Graph]{
		ID:        GraphNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			querycache.NodeID,
			caches.ClosedItemsNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Graph, error) {
			queries, err := graft.Dep[ports.QueryCache](ctx)
			if err != nil {
				return nil, err
			}

			closed, err := graft.Dep[*caches.ScopedSetCache](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			g := NewGraph(queries, log)
			g.AttachScopedSet(closed.Name(), closed)
			if err := g.RegisterAll(DefaultRules()...); err != nil {
				return nil, err
			}
			return g, nil
		},
	})

	graft.Register(graft.Node[*Mutator]{
		ID:        MutatorNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			GraphNodeID,
			notifier.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Mutator, error) {
			g, err := graft.Dep[*Graph](ctx)
			if err != nil {
				return nil, err
			}

			n, err := graft.Dep[ports.Notifier](ctx)
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

			return NewMutator(g, n, log, tracer), nil
		},
	})
}
