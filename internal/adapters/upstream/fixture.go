// Package upstream provides a fixture-backed implementation of the upstream
// object, identity and document services. It serves data from a YAML file
// with optional simulated latency and injected failures.
package upstream

import (
	"context"
	"maps"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultMaxQueryIDs is the identifier ceiling used when the fixture sets none.
const DefaultMaxQueryIDs = 30

// CallStats counts the calls served by a Fixture.
type CallStats struct {
	Fetches int64 `json:"fetches" yaml:"fetches"`
	Lookups int64 `json:"lookups" yaml:"lookups"`
	Queries int64 `json:"queries" yaml:"queries"`
	Writes  int64 `json:"writes" yaml:"writes"`
}

// Fixture is an in-memory upstream service.
type Fixture struct {
	mu          sync.RWMutex
	latency     time.Duration
	maxQueryIDs int
	objects     map[string]map[string][]byte
	principals  map[string]domain.Principal
	documents   map[string]map[string]domain.Document
	failures    map[string]struct{}

	fetches atomic.Int64
	lookups atomic.Int64
	queries atomic.Int64
	writes  atomic.Int64
}

// New returns an empty fixture.
func New() *Fixture {
	return &Fixture{
		maxQueryIDs: DefaultMaxQueryIDs,
		objects:     make(map[string]map[string][]byte),
		principals:  make(map[string]domain.Principal),
		documents:   make(map[string]map[string]domain.Document),
		failures:    make(map[string]struct{}),
	}
}

// Load reads a fixture file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFixtureReadFailed.Error()), "path", path)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return f, nil
}

// Parse decodes fixture YAML.
func Parse(data []byte) (*Fixture, error) {
	var file FixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, domain.ErrFixtureParseFailed.Error())
	}

	f := New()
	if file.Latency != "" {
		d, err := time.ParseDuration(file.Latency)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrFixtureParseFailed.Error()), "field", "latency")
		}
		f.latency = d
	}
	if file.MaxQueryIDs > 0 {
		f.maxQueryIDs = file.MaxQueryIDs
	}

	for bucket, objects := range file.Objects {
		for id, content := range objects {
			f.PutObject(bucket, id, []byte(content))
		}
	}
	for _, p := range file.Principals {
		f.PutPrincipal(p.toDomain())
	}
	for collection, docs := range file.Documents {
		for _, d := range docs {
			f.PutDocument(domain.Document{ID: d.ID, Collection: collection, Fields: d.Fields})
		}
	}
	for _, id := range file.Failures {
		f.FailOn(id)
	}
	return f, nil
}

// SetLatency delays every call by d.
func (f *Fixture) SetLatency(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latency = d
}

// SetMaxQueryIDs changes the identifier ceiling of one query.
func (f *Fixture) SetMaxQueryIDs(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.maxQueryIDs = n
}

// PutObject stores an object.
func (f *Fixture) PutObject(bucket, id string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects[bucket] == nil {
		f.objects[bucket] = make(map[string][]byte)
	}
	f.objects[bucket][id] = append([]byte(nil), data...)
}

// PutPrincipal stores a principal.
func (f *Fixture) PutPrincipal(p domain.Principal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.principals[p.ID] = p
}

// PutDocument stores a document in its collection.
func (f *Fixture) PutDocument(d domain.Document) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.documents[d.Collection] == nil {
		f.documents[d.Collection] = make(map[string]domain.Document)
	}
	d.Fields = maps.Clone(d.Fields)
	f.documents[d.Collection][d.ID] = d
}

// FailOn makes every call touching id fail.
func (f *Fixture) FailOn(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[id] = struct{}{}
}

// Calls returns how many calls the fixture has served.
func (f *Fixture) Calls() CallStats {
	return CallStats{
		Fetches: f.fetches.Load(),
		Lookups: f.lookups.Load(),
		Queries: f.queries.Load(),
		Writes:  f.writes.Load(),
	}
}

// Fetch implements ports.ObjectStore.
func (f *Fixture) Fetch(ctx context.Context, bucket, id string) ([]byte, error) {
	f.fetches.Add(1)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if err := f.injected(id); err != nil {
		return nil, err
	}
	data, ok := f.objects[bucket][id]
	if !ok {
		err := zerr.With(zerr.Wrap(domain.ErrObjectNotFound, "no such object"), "bucket", bucket)
		return nil, zerr.With(err, "id", id)
	}
	return append([]byte(nil), data...), nil
}

// LookupPrincipal implements ports.IdentityService.
func (f *Fixture) LookupPrincipal(ctx context.Context, id string) (*domain.Principal, error) {
	f.lookups.Add(1)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if err := f.injected(id); err != nil {
		return nil, err
	}
	p, ok := f.principals[id]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrObjectNotFound, "no such principal"), "id", id)
	}
	p.CustomClaims = maps.Clone(p.CustomClaims)
	return &p, nil
}

// QueryByIDs implements ports.DocumentStore. Unknown identifiers are skipped.
func (f *Fixture) QueryByIDs(ctx context.Context, collection string, ids []string) ([]domain.Document, error) {
	f.queries.Add(1)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if len(ids) > f.maxQueryIDs {
		err := zerr.With(zerr.Wrap(domain.ErrUpstreamQueryFailed, "too many identifiers in one query"), "ids", len(ids))
		return nil, zerr.With(err, "max", f.maxQueryIDs)
	}

	docs := make([]domain.Document, 0, len(ids))
	for _, id := range ids {
		if err := f.injected(id); err != nil {
			return nil, err
		}
		d, ok := f.documents[collection][id]
		if !ok {
			continue
		}
		d.Fields = maps.Clone(d.Fields)
		docs = append(docs, d)
	}
	return docs, nil
}

// MaxQueryIDs implements ports.DocumentStore.
func (f *Fixture) MaxQueryIDs() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.maxQueryIDs
}

// UpdateFields implements ports.DocumentWriter.
func (f *Fixture) UpdateFields(ctx context.Context, collection, id string, fields map[string]any) (domain.Document, error) {
	f.writes.Add(1)
	if err := f.wait(ctx); err != nil {
		return domain.Document{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.injected(id); err != nil {
		return domain.Document{}, err
	}
	d, ok := f.documents[collection][id]
	if !ok {
		err := zerr.With(zerr.Wrap(domain.ErrObjectNotFound, "no such document"), "collection", collection)
		return domain.Document{}, zerr.With(err, "id", id)
	}

	merged := maps.Clone(d.Fields)
	if merged == nil {
		merged = make(map[string]any, len(fields))
	}
	maps.Copy(merged, fields)
	d.Fields = merged
	f.documents[collection][id] = d

	d.Fields = maps.Clone(merged)
	return d, nil
}

// wait simulates network latency. It returns early when ctx is done.
func (f *Fixture) wait(ctx context.Context) error {
	f.mu.RLock()
	latency := f.latency
	f.mu.RUnlock()

	if latency <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return zerr.Wrap(ctx.Err(), "upstream call cancelled")
	case <-timer.C:
		return nil
	}
}

// injected must be called with f.mu held.
func (f *Fixture) injected(id string) error {
	if _, fail := f.failures[id]; fail {
		return zerr.With(zerr.New("injected upstream failure"), "id", id)
	}
	return nil
}
