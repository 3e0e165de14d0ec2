// Package stream provides the generic building blocks of the fetch pipeline:
// a timed admission throttle and a bounded-concurrency fetch stage with
// unordered completion. Stages communicate over channels; all blocking waits
// honor context cancellation.
package stream

import (
	"context"
	"time"
)

// Throttle releases at most one item per Interval. It never drops or reorders
// items, and holds at most one item pending release at a time.
//
// A release happens when the downstream send succeeds; the next item is gated
// on the elapsed time since that moment. If the consumer is slower than the
// interval, spacing is governed entirely by consumer readiness.
type Throttle[T any] struct {
	interval time.Duration
}

// NewThrottle creates a Throttle with the given minimum spacing between
// releases. A zero or negative interval passes items through unthrottled.
func NewThrottle[T any](interval time.Duration) *Throttle[T] {
	return &Throttle[T]{interval: interval}
}

// Stream forwards items from in to the returned channel, enforcing the
// configured spacing. The output channel closes when in closes or ctx is
// cancelled.
func (t *Throttle[T]) Stream(ctx context.Context, in <-chan T) <-chan T {
	out := make(chan T)

	go func() {
		defer close(out)

		var lastRelease time.Time
		timer := time.NewTimer(0)
		defer timer.Stop()
		if !timer.Stop() {
			<-timer.C
		}

		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-in:
				if !ok {
					return
				}

				if t.interval > 0 && !lastRelease.IsZero() {
					if wait := t.interval - time.Since(lastRelease); wait > 0 {
						timer.Reset(wait)
						select {
						case <-ctx.Done():
							return
						case <-timer.C:
						}
					}
				}

				select {
				case <-ctx.Done():
					return
				case out <- item:
					lastRelease = time.Now()
				}
			}
		}
	}()

	return out
}
