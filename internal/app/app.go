// Package app implements the application layer for keep.
package app

import (
	"context"
	"fmt"

	"go.trai.ch/keep/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports"
	"go.trai.ch/keep/internal/engine/batch"
	"go.trai.ch/keep/internal/engine/caches"
	"go.trai.ch/keep/internal/engine/invalidation"
	"go.trai.ch/keep/internal/engine/ttlstore"
	"go.trai.ch/zerr"
)

// Item statuses stored in the "status" field of an item document.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Document fields the read and write paths depend on.
const (
	fieldStatus    = "status"
	fieldWorkspace = "workspace"
	fieldItems     = "items"
)

// App represents the main application logic.
type App struct {
	cfg        domain.Config
	blobs      *caches.BlobCache
	identities *caches.IdentityCache
	closed     *caches.ScopedSetCache
	documents  ports.DocumentStore
	writer     ports.DocumentWriter
	queries    ports.QueryCache
	mutator    *invalidation.Mutator
	logger     ports.Logger
	tracer     ports.Tracer
}

// New creates a new App instance.
func New(
	cfg domain.Config,
	blobs *caches.BlobCache,
	identities *caches.IdentityCache,
	closed *caches.ScopedSetCache,
	documents ports.DocumentStore,
	writer ports.DocumentWriter,
	queries ports.QueryCache,
	mutator *invalidation.Mutator,
	log ports.Logger,
	tracer ports.Tracer,
) *App {
	return &App{
		cfg:        cfg,
		blobs:      blobs,
		identities: identities,
		closed:     closed,
		documents:  documents,
		writer:     writer,
		queries:    queries,
		mutator:    mutator,
		logger:     log,
		tracer:     tracer,
	}
}

// Attachments returns the encoded attachments for ids. Objects that could not
// be fetched are omitted.
func (a *App) Attachments(ctx context.Context, ids []string) map[string]string {
	return a.blobs.BatchGet(ctx, ids)
}

// AttachmentURI returns an embeddable data URI for one attachment.
func (a *App) AttachmentURI(ctx context.Context, id, mediaType string) (string, bool) {
	return a.blobs.DataURI(ctx, id, mediaType)
}

// Principals returns the safe projection of each principal in ids. Principals
// that could not be resolved are omitted.
func (a *App) Principals(ctx context.Context, ids []string) map[string]domain.PrincipalView {
	return a.identities.BatchGet(ctx, ids)
}

// Items returns the items of a workspace. The result is served from the query
// cache while fresh; otherwise the workspace's item IDs are queried in chunks
// no larger than the upstream ceiling. Callers own the returned documents.
func (a *App) Items(ctx context.Context, workspace string) ([]domain.Document, error) {
	key := domain.NewQueryKey(domain.KeyItems, workspace)
	if cached, ok := a.queries.Get(key); ok {
		if docs, ok := cached.([]domain.Document); ok {
			return domain.CloneDocuments(docs), nil
		}
	}
	gen := a.queries.Generation()

	ctx, span := a.tracer.Start(ctx, "query.items")
	defer span.End()
	span.SetAttribute("workspace", workspace)

	ids, err := a.itemIDs(ctx, workspace)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	query := func(ctx context.Context, chunk []string) ([]domain.Document, error) {
		return a.documents.QueryByIDs(ctx, domain.CollectionItems, chunk)
	}
	res, err := batch.ChunkedQuery(ctx, query, ids, a.chunkSize())
	span.SetAttribute("ids", len(ids))
	span.SetAttribute("queries", res.Queries)
	if err != nil {
		span.RecordError(err)
		return nil, zerr.With(zerr.Wrap(err, "failed to load items"), "workspace", workspace)
	}

	span.SetAttribute("documents", res.Count)

	// If a mutation invalidated the key while the query ran, the result may
	// predate it: it is returned but not cached.
	stored := a.queries.SetIfUnchanged(key, gen, domain.CloneDocuments(res.Documents))
	span.SetAttribute("cached", stored)
	return res.Documents, nil
}

// ClosedItems returns the IDs of the closed items of a workspace, computing
// and caching the set on a miss.
func (a *App) ClosedItems(ctx context.Context, workspace string) (caches.Set, error) {
	if set, ok := a.closed.Get(workspace); ok {
		return set, nil
	}
	gen := a.closed.Generation()

	docs, err := a.Items(ctx, workspace)
	if err != nil {
		return nil, err
	}

	set := caches.NewSet()
	for _, d := range docs {
		if d.Fields[fieldStatus] == StatusClosed {
			set[d.ID] = struct{}{}
		}
	}
	a.closed.SetIfUnchanged(workspace, gen, set)
	return set, nil
}

// ItemChange is the result of a status write on one item.
type ItemChange struct {
	Item domain.Document
}

// MutationTarget implements domain.Targeter. The scope is the workspace the
// item belongs to.
func (c ItemChange) MutationTarget() domain.Target {
	scope, _ := c.Item.Fields[fieldWorkspace].(string)
	return domain.Target{Scope: scope, IDs: []string{c.Item.ID}}
}

// CloseItem marks an item closed and invalidates everything derived from it.
func (a *App) CloseItem(ctx context.Context, id string) invalidation.Outcome[ItemChange] {
	return a.setStatus(ctx, domain.MutationItemClose, id, StatusClosed, "Item closed.")
}

// ReopenItem marks an item open and invalidates everything derived from it.
func (a *App) ReopenItem(ctx context.Context, id string) invalidation.Outcome[ItemChange] {
	return a.setStatus(ctx, domain.MutationItemReopen, id, StatusOpen, "Item reopened.")
}

func (a *App) setStatus(
	ctx context.Context,
	kind domain.MutationKind,
	id, status, success string,
) invalidation.Outcome[ItemChange] {
	return invalidation.Mutate(ctx, a.mutator, invalidation.Mutation[ItemChange]{
		Kind: kind,
		Exec: func(ctx context.Context) (ItemChange, error) {
			doc, err := a.writer.UpdateFields(ctx, domain.CollectionItems, id, map[string]any{fieldStatus: status})
			if err != nil {
				return ItemChange{}, err
			}
			return ItemChange{Item: doc}, nil
		},
		SuccessMessage: success,
		FailureMessage: "Could not update the item.",
		LogPrefix:      "failed to set item status",
	})
}

// Stats is a point-in-time view of every server-side cache.
type Stats struct {
	Blob        domain.StoreStats `yaml:"blob"`
	Identity    domain.StoreStats `yaml:"identity"`
	ClosedItems domain.StoreStats `yaml:"closedItems"`
}

// Stats reports the state of every server-side cache.
func (a *App) Stats() Stats {
	return Stats{
		Blob:        a.blobs.Stats(),
		Identity:    a.identities.Stats(),
		ClosedItems: a.closed.Stats(),
	}
}

// Sweep evicts expired entries from every server-side cache at the configured
// interval until ctx is done. It blocks, so callers run it in a goroutine.
func (a *App) Sweep(ctx context.Context) {
	report := func(removed int) {
		a.logger.Info(fmt.Sprintf("swept %d expired cache entries", removed))
	}
	ttlstore.Sweep(ctx, a.cfg.SweepInterval, report, a.blobs, a.identities, a.closed)
}

// EnableTracing installs a trace provider that reports every finished span
// through the logger. The returned function flushes and removes it.
func (a *App) EnableTracing() func(context.Context) error {
	return telemetry.Setup(telemetry.NewLogBridge(a.logger))
}

// chunkSize is the configured chunk size, lowered to the upstream ceiling.
func (a *App) chunkSize() int {
	size := a.cfg.ChunkSize
	if limit := a.documents.MaxQueryIDs(); limit > 0 && limit < size {
		size = limit
	}
	return size
}

// itemIDs reads the item list of a workspace document.
func (a *App) itemIDs(ctx context.Context, workspace string) ([]string, error) {
	docs, err := a.documents.QueryByIDs(ctx, domain.CollectionWorkspaces, []string{workspace})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to load workspace"), "workspace", workspace)
	}
	if len(docs) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrObjectNotFound, "no such workspace"), "workspace", workspace)
	}

	switch raw := docs[0].Fields[fieldItems].(type) {
	case []string:
		return raw, nil
	case []any:
		ids := make([]string, 0, len(raw))
		for _, v := range raw {
			if id, ok := v.(string); ok && id != "" {
				ids = append(ids, id)
			}
		}
		return ids, nil
	default:
		return nil, nil
	}
}
