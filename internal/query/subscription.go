package query

import (
	"context"
	"sync"

	"churchportal/internal/cache"
)

// Subscription delivers the latest Result of a query whenever its cache entry
// changes. Only the most recent unread result is kept.
type Subscription[T any] struct {
	query   *Query[T]
	sub     *cache.Subscriber
	updates chan Result[T]
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// Subscribe watches the query until ctx ends or Close is called. The current
// state is delivered first; stale data triggers a background fetch, and so
// does any later invalidation of the key.
func (q *Query[T]) Subscribe(ctx context.Context) *Subscription[T] {
	s := &Subscription[T]{
		query:   q,
		sub:     q.store.Subscribe(q.key),
		updates: make(chan Result[T], 1),
		done:    make(chan struct{}),
	}

	s.wg.Add(1)
	go s.run(ctx)
	return s
}

// Updates yields results; it is closed after the subscription ends
func (s *Subscription[T]) Updates() <-chan Result[T] {
	return s.updates
}

// Close detaches from the cache. A fetch already started keeps running and
// still populates the cache.
func (s *Subscription[T]) Close() {
	s.once.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}

func (s *Subscription[T]) run(ctx context.Context) {
	defer s.wg.Done()
	defer close(s.updates)
	defer s.sub.Close()

	q := s.query
	snap := q.store.Peek(q.key)
	s.publish(q.result(snap))
	if q.opts.enabled && snap.Stale(q.opts.staleTime, q.store.Now()) && !snap.Fetching {
		s.revalidate(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case <-s.sub.Changed():
			snap := q.store.Peek(q.key)
			s.publish(q.result(snap))
			// a failed refetch leaves Err set, which stops a retry loop
			if q.opts.enabled && snap.Invalidated && !snap.Fetching && snap.Err == nil {
				q.store.Logger().Debug("refetching invalidated query", "key", q.key.String())
				s.revalidate(ctx)
			}
		}
	}
}

// revalidate fetches in the background; the outcome arrives as a change
// notification
func (s *Subscription[T]) revalidate(ctx context.Context) {
	q := s.query
	go func() {
		_, _ = q.store.Revalidate(context.WithoutCancel(ctx), q.key, q.opts.staleTime, q.load)
	}()
}

// publish replaces any unread result with r
func (s *Subscription[T]) publish(r Result[T]) {
	for {
		select {
		case s.updates <- r:
			return
		default:
		}
		select {
		case <-s.updates:
		default:
		}
	}
}
