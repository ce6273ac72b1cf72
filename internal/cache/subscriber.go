package cache

import "sync"

// Subscriber receives a wake-up whenever its entry changes: data settled,
// fetch started, invalidation or reset. Wake-ups coalesce; read the entry
// with Peek after each one.
type Subscriber struct {
	store *Store
	key   Key
	ch    chan struct{}
	once  sync.Once
}

// Subscribe attaches a new subscriber to key
func (s *Store) Subscribe(key Key) *Subscriber {
	sub := &Subscriber{
		store: s,
		key:   append(Key(nil), key...),
		ch:    make(chan struct{}, 1),
	}

	s.mu.Lock()
	s.entryLocked(key).subscribers[sub] = struct{}{}
	s.mu.Unlock()

	return sub
}

// Key returns the subscribed key
func (sub *Subscriber) Key() Key {
	return sub.key
}

// Changed is signalled after every change to the entry
func (sub *Subscriber) Changed() <-chan struct{} {
	return sub.ch
}

// Close detaches the subscriber. It does not cancel fetches in flight.
func (sub *Subscriber) Close() {
	sub.once.Do(func() {
		s := sub.store
		s.mu.Lock()
		defer s.mu.Unlock()
		if e, ok := s.entries[sub.key.String()]; ok {
			delete(e.subscribers, sub)
		}
	})
}
