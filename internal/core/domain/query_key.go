package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// QueryKey addresses one entry of the client-side query cache.
// The first segment is the entity kind, the second usually the scope,
// and any further segments are filters.
type QueryKey []string

// NewQueryKey builds a key from its segments.
func NewQueryKey(segments ...string) QueryKey {
	return QueryKey(segments)
}

// HasPrefix reports whether every segment of prefix matches the leading segments of k.
func (k QueryKey) HasPrefix(prefix QueryKey) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, s := range prefix {
		if k[i] != s {
			return false
		}
	}
	return true
}

// Equal reports whether both keys have identical segments.
func (k QueryKey) Equal(other QueryKey) bool {
	return len(k) == len(other) && k.HasPrefix(other)
}

// String renders the key as a bracketed list, e.g. [items ws1 open].
func (k QueryKey) String() string {
	return "[" + strings.Join(k, " ") + "]"
}

// Placeholders that a KeyPattern segment may use.
const (
	// PlaceholderScope is replaced with Target.Scope.
	PlaceholderScope = ":scope"
	// PlaceholderID is replaced with each of Target.IDs in turn.
	PlaceholderID = ":id"
)

// KeyPattern is a query-cache key prefix with placeholders resolved from a mutation target.
type KeyPattern struct {
	Segments []string
	// Exact restricts invalidation to the key itself instead of every key below it.
	Exact bool
}

// Prefix builds a non-exact pattern from its segments.
func Prefix(segments ...string) KeyPattern {
	return KeyPattern{Segments: segments}
}

// ExactKey builds an exact pattern from its segments.
func ExactKey(segments ...string) KeyPattern {
	return KeyPattern{Segments: segments, Exact: true}
}

// Validate checks that the pattern has a literal first segment and only known placeholders.
func (p KeyPattern) Validate() error {
	if len(p.Segments) == 0 {
		return zerr.Wrap(ErrInvalidKeyPattern, "pattern has no segments")
	}
	if strings.HasPrefix(p.Segments[0], ":") {
		return zerr.With(zerr.Wrap(ErrInvalidKeyPattern, "first segment must be an entity kind"), "segment", p.Segments[0])
	}
	for _, s := range p.Segments {
		if strings.HasPrefix(s, ":") && s != PlaceholderScope && s != PlaceholderID {
			return zerr.With(zerr.Wrap(ErrInvalidKeyPattern, "unknown placeholder"), "segment", s)
		}
	}
	return nil
}

// usesID reports whether any segment is the :id placeholder.
func (p KeyPattern) usesID() bool {
	for _, s := range p.Segments {
		if s == PlaceholderID {
			return true
		}
	}
	return false
}

// Expand resolves the pattern against a target. Patterns that use :id expand
// once per target ID. A pattern whose placeholders cannot be filled (empty
// scope, or :id with no IDs) yields no keys.
func (p KeyPattern) Expand(t Target) []QueryKey {
	if p.usesID() {
		keys := make([]QueryKey, 0, len(t.IDs))
		for _, id := range t.IDs {
			if k, ok := p.resolve(t.Scope, id); ok {
				keys = append(keys, k)
			}
		}
		return keys
	}
	if k, ok := p.resolve(t.Scope, ""); ok {
		return []QueryKey{k}
	}
	return nil
}

func (p KeyPattern) resolve(scope, id string) (QueryKey, bool) {
	key := make(QueryKey, len(p.Segments))
	for i, s := range p.Segments {
		switch s {
		case PlaceholderScope:
			if scope == "" {
				return nil, false
			}
			key[i] = scope
		case PlaceholderID:
			if id == "" {
				return nil, false
			}
			key[i] = id
		default:
			key[i] = s
		}
	}
	return key, true
}
