// Package invalidation keeps the client query cache and the scoped-set caches
// consistent with writes. A Graph maps each mutation kind to the cache entries
// it makes stale; a Mutator runs a write and then applies that mapping.
package invalidation

import (
	"errors"
	"slices"
	"sync"

	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports"
	"go.trai.ch/zerr"
)

// ScopedInvalidator drops the entry of one scope from a server-side cache.
type ScopedInvalidator interface {
	Invalidate(scope string)
}

// Fanout describes what one invalidation pass touched.
type Fanout struct {
	// Matched is false when no rule was registered for the mutation kind.
	Matched bool
	// Keys are the resolved query-cache prefixes.
	Keys []domain.QueryKey
	// Entries is the number of query-cache entries invalidated.
	Entries int
	// ScopedSets lists the scoped-set caches whose entry was dropped.
	ScopedSets []string
}

// Graph is the table of invalidation rules.
type Graph struct {
	mu      sync.RWMutex
	rules   map[domain.MutationKind]domain.InvalidationRule
	scoped  map[string]ScopedInvalidator
	queries ports.QueryCache
	logger  ports.Logger
}

// NewGraph creates an empty graph invalidating entries of queries.
func NewGraph(queries ports.QueryCache, logger ports.Logger) *Graph {
	return &Graph{
		rules:   make(map[domain.MutationKind]domain.InvalidationRule),
		scoped:  make(map[string]ScopedInvalidator),
		queries: queries,
		logger:  logger,
	}
}

// AttachScopedSet makes a scoped-set cache addressable by rules under name.
// Attach caches before registering rules that reference them.
func (g *Graph) AttachScopedSet(name string, cache ScopedInvalidator) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scoped[name] = cache
}

// Register adds a rule. Each mutation kind may have only one rule.
func (g *Graph) Register(rule domain.InvalidationRule) error {
	if rule.Kind == "" {
		return zerr.Wrap(domain.ErrInvalidRule, "rule has no mutation kind")
	}
	if len(rule.Prefixes) == 0 && len(rule.ScopedSets) == 0 {
		return zerr.With(zerr.Wrap(domain.ErrInvalidRule, "rule invalidates nothing"), "kind", string(rule.Kind))
	}
	for _, p := range rule.Prefixes {
		if err := p.Validate(); err != nil {
			return zerr.With(err, "kind", string(rule.Kind))
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for _, name := range rule.ScopedSets {
		if _, ok := g.scoped[name]; !ok {
			err := zerr.With(zerr.Wrap(domain.ErrUnknownScopedSet, "rule references an unattached cache"), "cache", name)
			return zerr.With(err, "kind", string(rule.Kind))
		}
	}
	if _, dup := g.rules[rule.Kind]; dup {
		return zerr.With(zerr.Wrap(domain.ErrRuleAlreadyRegistered, "duplicate rule"), "kind", string(rule.Kind))
	}

	g.rules[rule.Kind] = rule
	return nil
}

// RegisterAll registers every rule and reports all failures together.
func (g *Graph) RegisterAll(rules ...domain.InvalidationRule) error {
	var errs error
	for _, r := range rules {
		errs = errors.Join(errs, g.Register(r))
	}
	return errs
}

// Lookup returns the rule registered for kind.
func (g *Graph) Lookup(kind domain.MutationKind) (domain.InvalidationRule, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.rules[kind]
	return r, ok
}

// Kinds returns the registered mutation kinds in sorted order.
func (g *Graph) Kinds() []domain.MutationKind {
	g.mu.RLock()
	defer g.mu.RUnlock()
	kinds := make([]domain.MutationKind, 0, len(g.rules))
	for k := range g.rules {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Invalidate applies the rule registered for kind to target. Query-cache
// prefixes are invalidated first, then the scoped-set caches. A kind without
// a rule is logged and otherwise ignored.
func (g *Graph) Invalidate(kind domain.MutationKind, target domain.Target) Fanout {
	rule, ok := g.Lookup(kind)
	if !ok {
		g.logger.Warn("no invalidation rule for mutation kind " + string(kind) + "; client cache entries stay until they go stale")
		return Fanout{}
	}

	out := Fanout{Matched: true}
	for _, p := range rule.Prefixes {
		for _, key := range p.Expand(target) {
			out.Keys = append(out.Keys, key)
			out.Entries += g.queries.Invalidate(key, p.Exact)
		}
	}

	if target.Scope == "" {
		if len(rule.ScopedSets) > 0 {
			g.logger.Warn("mutation " + string(kind) + " has no scope; scoped-set caches left untouched")
		}
		return out
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, name := range rule.ScopedSets {
		cache, ok := g.scoped[name]
		if !ok {
			continue
		}
		cache.Invalidate(target.Scope)
		out.ScopedSets = append(out.ScopedSets, name)
	}
	return out
}
