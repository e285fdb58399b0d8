// Package ports defines the core interfaces for the cache layer.
package ports

import (
	"context"

	"go.trai.ch/keep/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=upstream.go -destination=mocks/mock_upstream.go -package=mocks

// ObjectStore serves raw binary objects from named buckets.
type ObjectStore interface {
	// Fetch returns the bytes of one object.
	// It returns domain.ErrObjectNotFound if the object does not exist.
	Fetch(ctx context.Context, bucket, id string) ([]byte, error)
}

// IdentityService resolves principals.
type IdentityService interface {
	// LookupPrincipal returns the full principal record for the given ID.
	LookupPrincipal(ctx context.Context, id string) (*domain.Principal, error)
}

// DocumentStore answers identifier queries against a collection.
type DocumentStore interface {
	// QueryByIDs returns the documents of collection whose IDs are in ids.
	// Implementations may reject id lists longer than MaxQueryIDs.
	QueryByIDs(ctx context.Context, collection string, ids []string) ([]domain.Document, error)

	// MaxQueryIDs is the largest number of identifiers a single query accepts.
	MaxQueryIDs() int
}

// DocumentWriter performs writes against a collection.
type DocumentWriter interface {
	// UpdateFields merges fields into one document and returns the result.
	// It returns domain.ErrObjectNotFound if the document does not exist.
	UpdateFields(ctx context.Context, collection, id string, fields map[string]any) (domain.Document, error)
}
