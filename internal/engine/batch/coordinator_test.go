package batch_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/keep/internal/adapters/telemetry"
	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports/mocks"
	"go.trai.ch/keep/internal/engine/batch"
	"go.trai.ch/keep/internal/engine/ttlstore"
	"go.uber.org/mock/gomock"
)

type countingFetcher struct {
	mu     sync.Mutex
	calls  map[string]int
	failOn map[string]bool
}

func newCountingFetcher(failOn ...string) *countingFetcher {
	f := &countingFetcher{calls: map[string]int{}, failOn: map[string]bool{}}
	for _, k := range failOn {
		f.failOn[k] = true
	}
	return f
}

func (f *countingFetcher) fetch(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[key]++
	if f.failOn[key] {
		return "", errors.New("upstream unavailable")
	}
	return "value-" + key, nil
}

func (f *countingFetcher) count(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[key]
}

func newCoordinator(
	t *testing.T,
	fetch batch.FetchFunc[string],
	opts ...batch.Option,
) (*batch.Coordinator[string], *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	store := ttlstore.New[string](domain.CacheConfig{TTL: time.Minute, MaxSize: 100})
	return batch.NewCoordinator("test", store, fetch, logger, telemetry.NewNoOpTracer(), opts...), logger
}

func TestCoordinator_GetReadsThrough(t *testing.T) {
	f := newCountingFetcher()
	c, _ := newCoordinator(t, f.fetch)

	v, ok := c.Get(context.Background(), "a")
	require.True(t, ok)
	assert.Equal(t, "value-a", v)

	v, ok = c.Get(context.Background(), "a")
	require.True(t, ok)
	assert.Equal(t, "value-a", v)
	assert.Equal(t, 1, f.count("a"))
}

func TestCoordinator_GetFailureIsSoft(t *testing.T) {
	f := newCountingFetcher("a")
	c, logger := newCoordinator(t, f.fetch)
	logger.EXPECT().Error(gomock.Any()).Times(2)

	_, ok := c.Get(context.Background(), "a")
	assert.False(t, ok)

	// Failures are not cached: the next read retries upstream.
	_, ok = c.Get(context.Background(), "a")
	assert.False(t, ok)
	assert.Equal(t, 2, f.count("a"))
}

func TestCoordinator_BatchGetMixedHitsAndMisses(t *testing.T) {
	f := newCountingFetcher()
	c, _ := newCoordinator(t, f.fetch)

	c.Store().Set("cached", "from-cache")

	got := c.BatchGet(context.Background(), []string{"cached", "a", "b"})

	assert.Equal(t, map[string]string{
		"cached": "from-cache",
		"a":      "value-a",
		"b":      "value-b",
	}, got)
	assert.Equal(t, 0, f.count("cached"))
	assert.True(t, c.Store().Has("a"))
	assert.True(t, c.Store().Has("b"))
}

func TestCoordinator_BatchGetDuplicateKeysFetchedOnce(t *testing.T) {
	f := newCountingFetcher()
	c, _ := newCoordinator(t, f.fetch)

	got := c.BatchGet(context.Background(), []string{"a", "a", "b", "a", ""})

	assert.Len(t, got, 2)
	assert.Equal(t, 1, f.count("a"))
	assert.Equal(t, 1, f.count("b"))
	assert.Equal(t, 0, f.count(""))
}

func TestCoordinator_BatchGetOmitsFailedKeys(t *testing.T) {
	f := newCountingFetcher("bad")
	c, logger := newCoordinator(t, f.fetch)
	logger.EXPECT().Error(gomock.Any()).Times(1)

	got := c.BatchGet(context.Background(), []string{"good", "bad"})

	assert.Equal(t, map[string]string{"good": "value-good"}, got)
	assert.False(t, c.Store().Has("bad"))
}

func TestCoordinator_BatchGetEmpty(t *testing.T) {
	f := newCountingFetcher()
	c, _ := newCoordinator(t, f.fetch)

	got := c.BatchGet(context.Background(), nil)
	assert.Empty(t, got)
}

func TestCoordinator_BatchGetFetchesConcurrently(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		fetch := func(ctx context.Context, key string) (string, error) {
			time.Sleep(time.Second)
			return key, nil
		}
		c, _ := newCoordinator(t, fetch)

		start := time.Now()
		got := c.BatchGet(context.Background(), []string{"a", "b", "c", "d"})

		assert.Len(t, got, 4)
		assert.Equal(t, time.Second, time.Since(start))
	})
}

func TestCoordinator_WithConcurrencyCapsInFlight(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var inFlight, peak atomic.Int32
		fetch := func(ctx context.Context, key string) (string, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Second)
			inFlight.Add(-1)
			return key, nil
		}
		c, _ := newCoordinator(t, fetch, batch.WithConcurrency(2))

		start := time.Now()
		got := c.BatchGet(context.Background(), []string{"a", "b", "c", "d", "e"})

		assert.Len(t, got, 5)
		assert.Equal(t, int32(2), peak.Load())
		assert.Equal(t, 3*time.Second, time.Since(start))
	})
}

func TestCoordinator_ConcurrentMissesFetchTwiceWithoutSingleFlight(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls atomic.Int32
		fetch := func(ctx context.Context, key string) (string, error) {
			calls.Add(1)
			time.Sleep(time.Second)
			return key, nil
		}
		c, _ := newCoordinator(t, fetch)

		var wg sync.WaitGroup
		for range 2 {
			wg.Go(func() {
				c.Get(context.Background(), "a")
			})
		}
		wg.Wait()

		assert.Equal(t, int32(2), calls.Load())
	})
}

func TestCoordinator_WithSingleFlightCollapsesConcurrentMisses(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls atomic.Int32
		fetch := func(ctx context.Context, key string) (string, error) {
			calls.Add(1)
			time.Sleep(time.Second)
			return key, nil
		}
		c, _ := newCoordinator(t, fetch, batch.WithSingleFlight())

		var wg sync.WaitGroup
		results := make([]string, 3)
		for i := range 3 {
			wg.Go(func() {
				results[i], _ = c.Get(context.Background(), "a")
			})
		}
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, []string{"a", "a", "a"}, results)
	})
}
