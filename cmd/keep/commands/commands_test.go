package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/keep/cmd/keep/commands"
	"go.trai.ch/keep/internal/app"
	"go.trai.ch/keep/internal/build"
	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/engine/caches"
	"go.trai.ch/keep/internal/engine/invalidation"
)

type mockApp struct {
	closeFunc   func(ctx context.Context, id string) invalidation.Outcome[app.ItemChange]
	itemsErr    error
	tracing     bool
	flushed     bool
	uriRequests []string
}

func (m *mockApp) Attachments(_ context.Context, ids []string) map[string]string {
	out := make(map[string]string)
	for _, id := range ids {
		if id != "missing" {
			out[id] = "aGVsbG8="
		}
	}
	return out
}

func (m *mockApp) AttachmentURI(_ context.Context, id, mediaType string) (string, bool) {
	m.uriRequests = append(m.uriRequests, mediaType)
	return "data:" + mediaType + ";base64,aGVsbG8=", id != "missing"
}

func (m *mockApp) Principals(_ context.Context, ids []string) map[string]domain.PrincipalView {
	out := make(map[string]domain.PrincipalView)
	for _, id := range ids {
		out[id] = domain.PrincipalView{ID: id, DisplayName: "User " + id, Email: id + "@example.com"}
	}
	return out
}

func (m *mockApp) Items(_ context.Context, workspace string) ([]domain.Document, error) {
	if m.itemsErr != nil {
		return nil, m.itemsErr
	}
	return []domain.Document{
		{ID: "i1", Collection: domain.CollectionItems, Fields: map[string]any{"status": "open", "workspace": workspace}},
		{ID: "i2", Collection: domain.CollectionItems, Fields: map[string]any{"status": "closed", "workspace": workspace}},
	}, nil
}

func (m *mockApp) ClosedItems(_ context.Context, _ string) (caches.Set, error) {
	return caches.NewSet("i4", "i2"), nil
}

func (m *mockApp) CloseItem(ctx context.Context, id string) invalidation.Outcome[app.ItemChange] {
	return m.closeFunc(ctx, id)
}

func (m *mockApp) ReopenItem(ctx context.Context, id string) invalidation.Outcome[app.ItemChange] {
	return m.closeFunc(ctx, id)
}

func (m *mockApp) Stats() app.Stats {
	return app.Stats{
		Blob:        domain.StoreStats{Size: 2, MaxSize: 500, TTL: 30 * time.Minute, Hits: 7, Misses: 2},
		Identity:    domain.StoreStats{Size: 1, MaxSize: 1000, TTL: 5 * time.Minute, Misses: 1, Expirations: 1},
		ClosedItems: domain.StoreStats{MaxSize: 200, TTL: 2 * time.Minute, Evictions: 3},
	}
}

func (m *mockApp) EnableTracing() func(context.Context) error {
	m.tracing = true
	return func(context.Context) error {
		m.flushed = true
		return nil
	}
}

func execute(t *testing.T, a commands.Application, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(a)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Output(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "blobs", args: []string{"blobs", "logo", "missing"}},
		{name: "blobs_uri", args: []string{"blobs", "--uri", "-m", "image/png", "logo"}},
		{name: "principals", args: []string{"principals", "u2", "u1"}},
		{name: "query", args: []string{"query", "ws1"}},
		{name: "query_closed", args: []string{"query", "ws1", "--closed"}},
		{name: "stats", args: []string{"stats"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, &mockApp{}, tt.args...)
			require.NoError(t, err)

			g := goldie.New(t)
			g.Assert(t, tt.name, []byte(out))
		})
	}
}

func TestCommands_Close(t *testing.T) {
	t.Run("prints the fan-out", func(t *testing.T) {
		var captured string
		mock := &mockApp{
			closeFunc: func(_ context.Context, id string) invalidation.Outcome[app.ItemChange] {
				captured = id
				return invalidation.Outcome[app.ItemChange]{
					Result: app.ItemChange{Item: domain.Document{ID: id, Fields: map[string]any{"status": "closed"}}},
					Fanout: invalidation.Fanout{
						Matched:    true,
						Keys:       []domain.QueryKey{{"items", "ws1"}, {"item", id}},
						Entries:    1,
						ScopedSets: []string{domain.ScopedSetClosedItems},
					},
				}
			},
		}

		out, err := execute(t, mock, "close", "i1")
		require.NoError(t, err)
		assert.Equal(t, "i1", captured)

		g := goldie.New(t)
		g.Assert(t, "close", []byte(out))
	})

	t.Run("returns the mutation error", func(t *testing.T) {
		mock := &mockApp{
			closeFunc: func(_ context.Context, _ string) invalidation.Outcome[app.ItemChange] {
				return invalidation.Outcome[app.ItemChange]{
					Err: errors.Join(domain.ErrMutationFailed, errors.New("boom")),
				}
			},
		}

		_, err := execute(t, mock, "close", "--reopen", "i1")
		require.ErrorIs(t, err, domain.ErrMutationFailed)
	})
}

func TestCommands_QueryFailure(t *testing.T) {
	mock := &mockApp{itemsErr: domain.ErrUpstreamQueryFailed}

	_, err := execute(t, mock, "query", "ws1")
	require.ErrorIs(t, err, domain.ErrUpstreamQueryFailed)
}

func TestCommands_RequiresArguments(t *testing.T) {
	_, err := execute(t, &mockApp{}, "blobs")
	require.Error(t, err)

	_, err = execute(t, &mockApp{}, "query")
	require.Error(t, err)
}

func TestCommands_TraceFlag(t *testing.T) {
	mock := &mockApp{}

	_, err := execute(t, mock, "principals", "--trace", "u1")
	require.NoError(t, err)
	assert.True(t, mock.tracing)
	assert.True(t, mock.flushed)

	mock = &mockApp{}
	_, err = execute(t, mock, "principals", "u1")
	require.NoError(t, err)
	assert.False(t, mock.tracing)
}

func TestCommands_TraceFlushedOnFailure(t *testing.T) {
	mock := &mockApp{itemsErr: domain.ErrUpstreamQueryFailed}

	_, err := execute(t, mock, "query", "--trace", "ws1")
	require.Error(t, err)
	assert.True(t, mock.flushed)
}

func TestCommands_StatsFlag(t *testing.T) {
	out, err := execute(t, &mockApp{}, "principals", "--stats", "u1")
	require.NoError(t, err)
	assert.Contains(t, out, "displayName: User u1")
	assert.Contains(t, out, "CACHE")
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, build.Version)
}
