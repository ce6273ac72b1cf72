// Package cache is the shared result store behind the query layer. It holds
// one entry per key, collapses concurrent fetches of the same key into a
// single call and lets mutations mark entries stale by key prefix.
package cache

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the value for one key
type FetchFunc func(ctx context.Context) (any, error)

type entry struct {
	key         Key
	data        any
	hasData     bool
	err         error
	updatedAt   time.Time
	invalidated bool
	fetching    int
	subscribers map[*Subscriber]struct{}

	// gen changes on every invalidation; a fetch started under an older
	// generation stores its data but cannot mark the entry fresh
	gen uint64
}

// Snapshot is a point-in-time copy of an entry
type Snapshot struct {
	Data        any
	HasData     bool
	Err         error
	UpdatedAt   time.Time
	Invalidated bool
	Fetching    bool
	Subscribers int
}

// Stale reports whether the snapshot needs a refetch for the given max age
func (s Snapshot) Stale(maxAge time.Duration, now time.Time) bool {
	if !s.HasData || s.Invalidated {
		return true
	}
	return now.Sub(s.UpdatedAt) >= maxAge
}

// Store is safe for concurrent use. The zero value is not usable; call New.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group
	gen     uint64
	now     func() time.Time
	logger  *slog.Logger

	// epoch changes on Reset so fetches that outlive a reset are dropped
	epoch uint64
}

type Option func(*Store)

// WithClock overrides time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates an empty store
func New(opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]*entry),
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store's clock reading
func (s *Store) Now() time.Time {
	return s.now()
}

func (s *Store) Logger() *slog.Logger {
	return s.logger
}

// entryLocked returns the entry for key, creating it; s.mu must be held
func (s *Store) entryLocked(key Key) *entry {
	id := key.String()
	e, ok := s.entries[id]
	if !ok {
		s.gen++
		e = &entry{
			key:         append(Key(nil), key...),
			gen:         s.gen,
			subscribers: make(map[*Subscriber]struct{}),
		}
		s.entries[id] = e
	}
	return e
}

func (e *entry) snapshot() Snapshot {
	return Snapshot{
		Data:        e.data,
		HasData:     e.hasData,
		Err:         e.err,
		UpdatedAt:   e.updatedAt,
		Invalidated: e.invalidated,
		Fetching:    e.fetching > 0,
		Subscribers: len(e.subscribers),
	}
}

// notifyLocked wakes every subscriber of e without blocking; s.mu must be held
func (e *entry) notifyLocked() {
	for sub := range e.subscribers {
		select {
		case sub.ch <- struct{}{}:
		default:
		}
	}
}

// Peek returns the current state of key without fetching
func (s *Store) Peek(key Key) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key.String()]; ok {
		return e.snapshot()
	}
	return Snapshot{}
}

// Set stores data for key as if it had just been fetched
func (s *Store) Set(key Key, data any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entryLocked(key)
	e.data = data
	e.hasData = true
	e.err = nil
	e.updatedAt = s.now()
	e.invalidated = false
	e.notifyLocked()
}

// Fetch loads key with fn regardless of freshness. Concurrent calls for the
// same key and generation share one call of fn.
func (s *Store) Fetch(ctx context.Context, key Key, fn FetchFunc) (any, error) {
	return s.fetch(ctx, key, -1, fn)
}

// Revalidate returns the cached value when it is younger than maxAge and not
// invalidated; otherwise it fetches like Fetch
func (s *Store) Revalidate(ctx context.Context, key Key, maxAge time.Duration, fn FetchFunc) (any, error) {
	s.mu.Lock()
	e := s.entryLocked(key)
	if !e.snapshot().Stale(maxAge, s.now()) {
		data := e.data
		s.mu.Unlock()
		return data, nil
	}
	s.mu.Unlock()
	return s.fetch(ctx, key, maxAge, fn)
}

// fetch runs fn through the flight group. maxAge < 0 forces the call; otherwise
// the entry is rechecked once the flight starts, since another flight may have
// settled it in the meantime.
func (s *Store) fetch(ctx context.Context, key Key, maxAge time.Duration, fn FetchFunc) (any, error) {
	id := key.String()

	s.mu.Lock()
	e := s.entryLocked(key)
	gen, epoch := e.gen, s.epoch
	s.mu.Unlock()

	// The call keeps running when ctx is cancelled so other waiters, and the
	// cache, still receive the result.
	fetchCtx := context.WithoutCancel(ctx)

	// forced fetches never join a revalidation, which may settle from cache
	flight := id + "#" + strconv.FormatUint(gen, 10)
	if maxAge < 0 {
		flight += "!"
	}

	ch := s.group.DoChan(flight, func() (any, error) {
		s.mu.Lock()
		if s.epoch != epoch {
			s.mu.Unlock()
			return fn(fetchCtx)
		}
		e := s.entryLocked(key)
		if maxAge >= 0 && e.gen == gen && !e.snapshot().Stale(maxAge, s.now()) {
			data := e.data
			s.mu.Unlock()
			return data, nil
		}
		e.fetching++
		e.notifyLocked()
		s.mu.Unlock()

		data, err := fn(fetchCtx)
		s.settle(key, gen, epoch, data, err)
		return data, err
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Store) settle(key Key, gen, epoch uint64, data any, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		return
	}
	e := s.entryLocked(key)
	if e.fetching > 0 {
		e.fetching--
	}
	if err != nil {
		// previous data stays available; an error from before an
		// invalidation must not block the refetch it asks for
		if e.gen == gen {
			e.err = err
		}
		s.logger.Debug("cache fetch failed", "key", e.key, "error", err)
	} else {
		e.data = data
		e.hasData = true
		e.err = nil
		e.updatedAt = s.now()
		if e.gen == gen {
			e.invalidated = false
		}
	}
	e.notifyLocked()
}

// Invalidate marks every entry whose key starts with prefix as stale and
// returns how many were affected. An empty prefix matches everything.
func (s *Store) Invalidate(prefix Key) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, e := range s.entries {
		if e.key.HasPrefix(prefix) {
			s.invalidateLocked(e)
			n++
		}
	}
	if n > 0 {
		s.logger.Debug("cache invalidated", "prefix", prefix, "entries", n)
	}
	return n
}

// InvalidateExact marks only the entry for key as stale
func (s *Store) InvalidateExact(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key.String()]
	if ok {
		s.invalidateLocked(e)
	}
	return ok
}

func (s *Store) invalidateLocked(e *entry) {
	s.gen++
	e.gen = s.gen
	e.invalidated = true
	e.err = nil
	e.notifyLocked()
}

// Remove drops the entry for key; its subscribers are notified and stay attached
func (s *Store) Remove(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := key.String()
	e, ok := s.entries[id]
	if !ok {
		return
	}
	if len(e.subscribers) > 0 {
		s.gen++
		*e = entry{key: e.key, gen: s.gen, subscribers: e.subscribers}
		e.notifyLocked()
		return
	}
	delete(s.entries, id)
}

// Reset drops every cached value, e.g. on logout. Results of fetches still in
// flight are discarded. Subscribers are notified and stay attached.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	kept := make(map[string]*entry)
	for id, e := range s.entries {
		if len(e.subscribers) == 0 {
			continue
		}
		s.gen++
		*e = entry{key: e.key, gen: s.gen, subscribers: e.subscribers}
		kept[id] = e
		e.notifyLocked()
	}
	s.entries = kept
	s.logger.Debug("cache reset", "subscribed_entries", len(kept))
}

// Len returns the number of entries
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Keys lists every key in canonical order
func (s *Store) Keys() []Key {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	keys := make([]Key, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, s.entries[id].key)
	}
	return keys
}
