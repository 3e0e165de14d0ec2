package stream

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// FetchFunc looks up one key against an external collaborator and returns the
// listing of items it expands into. The listing may be empty.
type FetchFunc[K, V any] func(ctx context.Context, key K) ([]V, error)

// StageConfig bounds a FetchStage: at most one lookup issued per Interval and
// at most Concurrency lookups outstanding at once.
type StageConfig struct {
	Interval    time.Duration
	Concurrency int
}

// FetchStage turns a stream of keys into a stream of listing items.
//
// Each key passes through a private Throttle, then triggers an asynchronous
// lookup. Listings are emitted in completion order, not submission order;
// items within one listing are emitted contiguously, preserving listing
// order. Any lookup failure aborts the whole stage: in-flight lookups are
// cancelled, the output closes, and the first error is reported. There is no
// per-key isolation.
type FetchStage[K, V any] struct {
	name  string
	cfg   StageConfig
	fetch FetchFunc[K, V]
}

// NewFetchStage creates a stage named name (used in error messages) with the
// given bounds and lookup function.
func NewFetchStage[K, V any](name string, cfg StageConfig, fetch FetchFunc[K, V]) *FetchStage[K, V] {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &FetchStage[K, V]{name: name, cfg: cfg, fetch: fetch}
}

// Stream consumes keys until the input closes, ctx is cancelled, or a lookup
// fails. The error channel is buffered, carries at most the first failure,
// and closes once the stage has fully stopped; a receive on it yields nil
// after a clean run.
func (s *FetchStage[K, V]) Stream(ctx context.Context, keys <-chan K) (<-chan V, <-chan error) {
	out := make(chan V)
	errc := make(chan error, 1)

	stageCtx, cancel := context.WithCancel(ctx)
	throttled := NewThrottle[K](s.cfg.Interval).Stream(stageCtx, keys)
	listings := make(chan []V)

	var stage sync.WaitGroup
	stage.Add(2)

	// Admission: throttled keys acquire a concurrency slot, then look up
	// asynchronously. The slot is held exactly while the lookup is
	// outstanding.
	go func() {
		defer stage.Done()
		defer close(listings)

		sem := make(chan struct{}, s.cfg.Concurrency)
		var inflight sync.WaitGroup
		defer inflight.Wait()

		for key := range throttled {
			select {
			case sem <- struct{}{}:
			case <-stageCtx.Done():
				return
			}

			inflight.Add(1)
			go func(key K) {
				defer inflight.Done()

				items, err := s.fetch(stageCtx, key)
				<-sem
				if err != nil {
					select {
					case errc <- fmt.Errorf("%s: fetch %v: %w", s.name, key, err):
					default:
					}
					cancel()
					return
				}

				select {
				case listings <- items:
				case <-stageCtx.Done():
				}
			}(key)
		}
	}()

	// Emission: completed listings are flattened onto the output in the
	// order they arrive.
	go func() {
		defer stage.Done()
		defer close(out)

		for items := range listings {
			for _, item := range items {
				select {
				case out <- item:
				case <-stageCtx.Done():
					return
				}
			}
		}
	}()

	// The error channel closes only after every lookup goroutine has
	// finished, so a late failure can never hit a closed channel.
	go func() {
		stage.Wait()
		cancel()
		close(errc)
	}()

	return out, errc
}
