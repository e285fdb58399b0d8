package ttlstore

import (
	"context"
	"time"
)

// Sweepable is anything that can drop its expired entries.
type Sweepable interface {
	EvictExpired() int
}

// Sweep calls EvictExpired on every target each interval until ctx is done.
// The optional report callback receives the number of entries removed by each
// pass that removed at least one.
func Sweep(ctx context.Context, interval time.Duration, report func(removed int), targets ...Sweepable) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := 0
			for _, t := range targets {
				removed += t.EvictExpired()
			}
			if removed > 0 && report != nil {
				report(removed)
			}
		}
	}
}
