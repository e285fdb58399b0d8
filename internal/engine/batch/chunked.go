package batch

import (
	"context"
	"errors"
	"sync"

	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// QueryFunc fetches the documents whose identifiers are in ids. Callers bind
// it to a document store and collection.
type QueryFunc func(ctx context.Context, ids []string) ([]domain.Document, error)

// SplitChunks partitions ids into consecutive chunks of at most size
// elements. The last chunk may be shorter.
func SplitChunks(ids []string, size int) ([][]string, error) {
	if size <= 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidChunkSize, "cannot split identifiers"), "size", size)
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end])
	}
	return chunks, nil
}

// ChunkedResult is the merged outcome of a chunked query.
type ChunkedResult struct {
	// Documents are the merged documents, deduplicated by ID.
	Documents []domain.Document
	// Count is the number of deduplicated documents.
	Count int
	// Queries is the number of chunk queries issued.
	Queries int
}

// ChunkedQuery runs one query per chunk of ids concurrently and merges the
// results, deduplicated by document ID. Any failed chunk fails the whole
// query; the remaining chunks are cancelled. The returned result still
// reports the number of queries issued.
func ChunkedQuery(
	ctx context.Context,
	query QueryFunc,
	ids []string,
	chunkSize int,
) (ChunkedResult, error) {
	chunks, err := SplitChunks(ids, chunkSize)
	if err != nil {
		return ChunkedResult{}, err
	}
	if len(chunks) == 0 {
		return ChunkedResult{}, nil
	}

	results := make([][]domain.Document, len(chunks))
	var (
		mu   sync.Mutex
		errs error
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			docs, qerr := query(gctx, chunk)
			if qerr != nil {
				enhanced := zerr.With(zerr.Wrap(qerr, domain.ErrUpstreamQueryFailed.Error()), "chunk", i)
				mu.Lock()
				errs = errors.Join(errs, zerr.With(enhanced, "ids", len(chunk)))
				mu.Unlock()
				return qerr
			}
			results[i] = docs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return ChunkedResult{Queries: len(chunks)}, errs
	}

	total := 0
	for _, docs := range results {
		total += len(docs)
	}
	merged := make([]domain.Document, 0, total)
	for _, docs := range results {
		merged = append(merged, docs...)
	}
	deduped := domain.DedupeDocuments(merged)
	return ChunkedResult{
		Documents: deduped,
		Count:     len(deduped),
		Queries:   len(chunks),
	}, nil
}
