package query

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"churchportal/internal/cache"
)

// MutateFunc performs a write against the backend
type MutateFunc[I, O any] func(ctx context.Context, input I) (O, error)

// InvalidateFunc lists the key prefixes a successful write makes stale
type InvalidateFunc[I, O any] func(input I, output O) []cache.Key

// MutationState is the state of the most recently started call
type MutationState[O any] struct {
	Status Status
	Data   O
	Err    error
}

// Outcome is delivered by Mutate once the write settles
type Outcome[O any] struct {
	Data O
	Err  error
}

// Mutation is a write bound to the cache keys it invalidates
type Mutation[I, O any] struct {
	store      *cache.Store
	fn         MutateFunc[I, O]
	invalidate InvalidateFunc[I, O]
	logger     *slog.Logger

	mu    sync.Mutex
	seq   uint64
	state MutationState[O]
}

// NewMutation binds fn to store. invalidate may be nil.
func NewMutation[I, O any](store *cache.Store, fn MutateFunc[I, O], invalidate InvalidateFunc[I, O]) *Mutation[I, O] {
	return &Mutation[I, O]{
		store:      store,
		fn:         fn,
		invalidate: invalidate,
		logger:     store.Logger(),
	}
}

// MutateAsync runs the write and returns its result. On success every key
// returned by the invalidation func is invalidated before MutateAsync returns.
func (m *Mutation[I, O]) MutateAsync(ctx context.Context, input I) (O, error) {
	m.mu.Lock()
	m.seq++
	seq := m.seq
	m.state = MutationState[O]{Status: StatusLoading}
	m.mu.Unlock()

	out, err := m.fn(ctx, input)
	if err == nil && m.invalidate != nil {
		for _, key := range m.invalidate(input, out) {
			m.store.Invalidate(key)
		}
	}

	m.mu.Lock()
	if seq == m.seq {
		if err != nil {
			m.state = MutationState[O]{Status: StatusError, Err: err}
		} else {
			m.state = MutationState[O]{Status: StatusSuccess, Data: out}
		}
	}
	m.mu.Unlock()

	return out, err
}

// Mutate starts the write in the background. The returned channel receives
// exactly one Outcome and may be ignored; failures, panics included, never
// escape to the caller.
func (m *Mutation[I, O]) Mutate(ctx context.Context, input I) <-chan Outcome[O] {
	ch := make(chan Outcome[O], 1)
	go func() {
		var out Outcome[O]
		defer func() {
			if r := recover(); r != nil {
				out = Outcome[O]{Err: fmt.Errorf("mutation panicked: %v", r)}
				m.mu.Lock()
				m.state = MutationState[O]{Status: StatusError, Err: out.Err}
				m.mu.Unlock()
			}
			if out.Err != nil {
				m.logger.Debug("mutation failed", "error", out.Err)
			}
			ch <- out
		}()
		out.Data, out.Err = m.MutateAsync(ctx, input)
	}()
	return ch
}

// State reports the most recently started call
func (m *Mutation[I, O]) State() MutationState[O] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Reset returns the mutation to idle
func (m *Mutation[I, O]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.state = MutationState[O]{}
}
