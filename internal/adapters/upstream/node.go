package upstream

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/keep/internal/adapters/config"
	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports"
)

const (
	// FixtureNodeID is the unique identifier for the fixture Graft node.
	FixtureNodeID graft.ID = "adapter.upstream.fixture"
	// ObjectStoreNodeID is the unique identifier for the object store Graft node.
	ObjectStoreNodeID graft.ID = "adapter.upstream.objects"
	// IdentityNodeID is the unique identifier for the identity service Graft node.
	IdentityNodeID graft.ID = "adapter.upstream.identity"
	// DocumentStoreNodeID is the unique identifier for the document store Graft node.
	DocumentStoreNodeID graft.ID = "adapter.upstream.documents"
	// DocumentWriterNodeID is the unique identifier for the document writer Graft node.
	DocumentWriterNodeID graft.ID = "adapter.upstream.writer"
)

func init() {
	graft.Register(graft.Node[*Fixture]{
		ID:        FixtureNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID},
		Run: func(ctx context.Context) (*Fixture, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			if cfg.FixturePath == "" {
				return New(), nil
			}
			return Load(cfg.FixturePath)
		},
	})

	graft.Register(graft.Node[ports.ObjectStore]{
		ID:        ObjectStoreNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{FixtureNodeID},
		Run: func(ctx context.Context) (ports.ObjectStore, error) {
			f, err := graft.Dep[*Fixture](ctx)
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	})

	graft.Register(graft.Node[ports.IdentityService]{
		ID:        IdentityNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{FixtureNodeID},
		Run: func(ctx context.Context) (ports.IdentityService, error) {
			f, err := graft.Dep[*Fixture](ctx)
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	})

	graft.Register(graft.Node[ports.DocumentStore]{
		ID:        DocumentStoreNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{FixtureNodeID},
		Run: func(ctx context.Context) (ports.DocumentStore, error) {
			f, err := graft.Dep[*Fixture](ctx)
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	})

	graft.Register(graft.Node[ports.DocumentWriter]{
		ID:        DocumentWriterNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{FixtureNodeID},
		Run: func(ctx context.Context) (ports.DocumentWriter, error) {
			f, err := graft.Dep[*Fixture](ctx)
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	})
}
