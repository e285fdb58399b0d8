package ttlstore_test

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/keep/internal/engine/ttlstore"
)

func TestSweep_RemovesExpiredEntries(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		a := newStore(100*time.Millisecond, 10)
		b := newStore(100*time.Millisecond, 10)
		a.Set("x", 1)
		b.Set("y", 2)
		b.Set("z", 3)

		ctx, cancel := context.WithCancel(t.Context())
		var reported []int
		done := make(chan struct{})
		go func() {
			defer close(done)
			ttlstore.Sweep(ctx, time.Second, func(n int) { reported = append(reported, n) }, a, b)
		}()

		time.Sleep(time.Second)
		synctest.Wait()

		assert.Equal(t, 0, a.Len())
		assert.Equal(t, 0, b.Len())

		cancel()
		<-done
		assert.Equal(t, []int{3}, reported)
	})
}

func TestSweep_DisabledInterval(t *testing.T) {
	s := newStore(time.Millisecond, 10)
	// Returns immediately instead of blocking.
	ttlstore.Sweep(context.Background(), 0, nil, s)
}
