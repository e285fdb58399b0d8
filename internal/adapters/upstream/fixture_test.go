package upstream_test

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/keep/internal/adapters/upstream"
	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports"
)

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.ObjectStore = (*upstream.Fixture)(nil)
	var _ ports.IdentityService = (*upstream.Fixture)(nil)
	var _ ports.DocumentStore = (*upstream.Fixture)(nil)
	var _ ports.DocumentWriter = (*upstream.Fixture)(nil)
}

func loadFixture(t *testing.T) *upstream.Fixture {
	t.Helper()
	f, err := upstream.Load("testdata/fixture.yaml")
	require.NoError(t, err)
	f.SetLatency(0)
	return f
}

func TestLoad_Fixture(t *testing.T) {
	f := loadFixture(t)
	ctx := context.Background()

	data, err := f.Fetch(ctx, domain.BucketAttachments, "logo")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	data, err = f.Fetch(ctx, domain.BucketAttachments, "icon")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, data)

	p, err := f.LookupPrincipal(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", p.DisplayName)
	assert.NotEmpty(t, p.PasswordHash)
	assert.Equal(t, true, p.CustomClaims["admin"])

	assert.Equal(t, 3, f.MaxQueryIDs())
}

func TestLoad_Errors(t *testing.T) {
	_, err := upstream.Load("testdata/missing.yaml")
	assert.ErrorContains(t, err, domain.ErrFixtureReadFailed.Error())

	_, err = upstream.Parse([]byte("latency: soon"))
	assert.ErrorContains(t, err, domain.ErrFixtureParseFailed.Error())

	_, err = upstream.Parse([]byte("principals: {"))
	assert.ErrorContains(t, err, domain.ErrFixtureParseFailed.Error())
}

func TestFixture_NotFound(t *testing.T) {
	f := loadFixture(t)
	ctx := context.Background()

	_, err := f.Fetch(ctx, domain.BucketAttachments, "nope")
	assert.ErrorIs(t, err, domain.ErrObjectNotFound)

	_, err = f.LookupPrincipal(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrObjectNotFound)

	_, err = f.UpdateFields(ctx, domain.CollectionItems, "nope", map[string]any{"status": "closed"})
	assert.ErrorIs(t, err, domain.ErrObjectNotFound)
}

func TestFixture_InjectedFailures(t *testing.T) {
	f := loadFixture(t)
	ctx := context.Background()

	_, err := f.Fetch(ctx, domain.BucketAttachments, "broken")
	assert.ErrorContains(t, err, "injected upstream failure")

	_, err = f.QueryByIDs(ctx, domain.CollectionItems, []string{"i1", "broken"})
	assert.ErrorContains(t, err, "injected upstream failure")
}

func TestFixture_QueryByIDs(t *testing.T) {
	f := loadFixture(t)
	ctx := context.Background()

	docs, err := f.QueryByIDs(ctx, domain.CollectionItems, []string{"i2", "missing", "i1"})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "i2", docs[0].ID)
	assert.Equal(t, domain.CollectionItems, docs[0].Collection)
	assert.Equal(t, "closed", docs[0].Fields["status"])

	_, err = f.QueryByIDs(ctx, domain.CollectionItems, []string{"i1", "i2", "i3", "i4"})
	assert.ErrorIs(t, err, domain.ErrUpstreamQueryFailed)
}

func TestFixture_UpdateFields(t *testing.T) {
	f := loadFixture(t)
	ctx := context.Background()

	doc, err := f.UpdateFields(ctx, domain.CollectionItems, "i1", map[string]any{"status": "closed"})
	require.NoError(t, err)
	assert.Equal(t, "closed", doc.Fields["status"])
	assert.Equal(t, "Draft proposal", doc.Fields["title"])

	// The returned document does not alias the stored one.
	doc.Fields["status"] = "tampered"

	docs, err := f.QueryByIDs(ctx, domain.CollectionItems, []string{"i1"})
	require.NoError(t, err)
	assert.Equal(t, "closed", docs[0].Fields["status"])
}

func TestFixture_CountsCalls(t *testing.T) {
	f := loadFixture(t)
	ctx := context.Background()

	_, _ = f.Fetch(ctx, domain.BucketAttachments, "logo")
	_, _ = f.LookupPrincipal(ctx, "u1")
	_, _ = f.LookupPrincipal(ctx, "u2")
	_, _ = f.QueryByIDs(ctx, domain.CollectionItems, []string{"i1"})
	_, _ = f.UpdateFields(ctx, domain.CollectionItems, "i1", nil)

	assert.Equal(t, upstream.CallStats{Fetches: 1, Lookups: 2, Queries: 1, Writes: 1}, f.Calls())
}

func TestFixture_Latency(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := upstream.New()
		f.PutObject(domain.BucketAttachments, "a", []byte("x"))
		f.SetLatency(20 * time.Millisecond)

		start := time.Now()
		_, err := f.Fetch(context.Background(), domain.BucketAttachments, "a")
		require.NoError(t, err)
		assert.Equal(t, 20*time.Millisecond, time.Since(start))
	})
}

func TestFixture_CancelledWhileWaiting(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := upstream.New()
		f.SetLatency(time.Second)

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		_, err := f.LookupPrincipal(ctx, "u1")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
