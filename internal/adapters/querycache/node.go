package querycache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/keep/internal/adapters/config"
	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports"
)

// NodeID is the unique identifier for the query cache Graft node.
const NodeID graft.ID = "adapter.query_cache"

func init() {
	graft.Register(graft.Node[ports.QueryCache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID},
		Run: func(ctx context.Context) (ports.QueryCache, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return New(cfg.QueryStaleTime, cfg.QueryMaxEntries), nil
		},
	})
}
