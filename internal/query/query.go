// Package query wraps backend reads and writes with the shared cache: reads
// are keyed, de-duplicated and served while fresh; writes invalidate the keys
// they affect before reporting success.
package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"churchportal/internal/cache"
)

// ErrTypeConflict means the cache holds a value of another type under the
// query's key, i.e. two call sites share a key
var ErrTypeConflict = errors.New("cached value has a different type")

// Status is the lifecycle state of a query or mutation
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Result is what a caller observes about a query
type Result[T any] struct {
	Status     Status
	Data       T
	HasData    bool
	Err        error
	IsFetching bool
	IsStale    bool
	UpdatedAt  time.Time
}

// Fetcher loads the value of a query
type Fetcher[T any] func(ctx context.Context) (T, error)

type options struct {
	staleTime time.Duration
	enabled   bool
}

// Option tunes a query
type Option func(*options)

// WithStaleTime sets how long fetched data is served without refetching
func WithStaleTime(d time.Duration) Option {
	return func(o *options) { o.staleTime = d }
}

// Enabled turns a query on or off; a disabled query never fetches
func Enabled(enabled bool) Option {
	return func(o *options) { o.enabled = enabled }
}

// Query is a keyed read over a shared store
type Query[T any] struct {
	store *cache.Store
	key   cache.Key
	fetch Fetcher[T]
	opts  options
}

// New creates a query. Queries are cheap; create one per call site.
func New[T any](store *cache.Store, key cache.Key, fetch Fetcher[T], opts ...Option) *Query[T] {
	o := options{enabled: true}
	for _, opt := range opts {
		opt(&o)
	}
	return &Query[T]{store: store, key: key, fetch: fetch, opts: o}
}

func (q *Query[T]) Key() cache.Key {
	return q.key
}

func (q *Query[T]) Enabled() bool {
	return q.opts.enabled
}

func (q *Query[T]) load(ctx context.Context) (any, error) {
	return q.fetch(ctx)
}

// Get returns fresh data, fetching when the cached value is missing, stale or
// invalidated. When the fetch fails the previously cached data, if any, is
// returned with the error. A disabled query returns the zero value.
func (q *Query[T]) Get(ctx context.Context) (T, error) {
	var zero T
	if !q.opts.enabled {
		return zero, nil
	}
	v, err := q.store.Revalidate(ctx, q.key, q.opts.staleTime, q.load)
	if err != nil {
		if data, ok := q.cached(); ok {
			return data, err
		}
		return zero, err
	}
	return q.typed(v)
}

// Refetch ignores freshness and loads the query again
func (q *Query[T]) Refetch(ctx context.Context) (T, error) {
	var zero T
	if !q.opts.enabled {
		return zero, nil
	}
	v, err := q.store.Fetch(ctx, q.key, q.load)
	if err != nil {
		if data, ok := q.cached(); ok {
			return data, err
		}
		return zero, err
	}
	return q.typed(v)
}

func (q *Query[T]) typed(v any) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}
	data, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("query %s: %w: %T", q.key, ErrTypeConflict, v)
	}
	return data, nil
}

// Result reads the current state without fetching
func (q *Query[T]) Result() Result[T] {
	return q.result(q.store.Peek(q.key))
}

// Invalidate marks this query's exact key stale
func (q *Query[T]) Invalidate() {
	q.store.InvalidateExact(q.key)
}

func (q *Query[T]) cached() (T, bool) {
	snap := q.store.Peek(q.key)
	data, ok := snap.Data.(T)
	return data, ok && snap.HasData
}

func (q *Query[T]) result(snap cache.Snapshot) Result[T] {
	r := Result[T]{
		Err:        snap.Err,
		IsFetching: snap.Fetching,
		UpdatedAt:  snap.UpdatedAt,
		IsStale:    snap.Stale(q.opts.staleTime, q.store.Now()),
	}
	if data, ok := snap.Data.(T); ok && snap.HasData {
		r.Data = data
		r.HasData = true
	}

	switch {
	case snap.Err != nil:
		r.Status = StatusError
	case r.HasData:
		r.Status = StatusSuccess
	case !q.opts.enabled:
		r.Status = StatusIdle
	default:
		r.Status = StatusLoading
	}
	return r
}
