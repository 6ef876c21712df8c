// Package store provides a small observable value: get, set and subscribe.
//
// A Store replaces ambient, implicitly shared state with an explicit object
// that is handed to whatever needs it. Subscribers are called synchronously,
// in subscription order, after the value has changed and outside the lock,
// so a subscriber may read the store or set it again.
package store

import (
	"sync"
)

// Store holds a value of type T.
type Store[T any] struct {
	mu    sync.RWMutex
	value T
	equal func(a, b T) bool

	subMu  sync.Mutex
	subs   []subscriber[T]
	nextID uint64
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Option configures a Store.
type Option[T any] func(*Store[T])

// WithEqual sets the comparison used to skip no-op updates. Without it every
// Set notifies subscribers.
func WithEqual[T any](eq func(a, b T) bool) Option[T] {
	return func(s *Store[T]) {
		s.equal = eq
	}
}

// New creates a store holding initial.
func New[T any](initial T, opts ...Option[T]) *Store[T] {
	s := &Store[T]{value: initial}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewComparable creates a store that skips updates equal to the current
// value.
func NewComparable[T comparable](initial T) *Store[T] {
	return New(initial, WithEqual(func(a, b T) bool { return a == b }))
}

// Get returns the current value.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the value and notifies subscribers. It reports whether the
// value changed.
func (s *Store[T]) Set(v T) bool {
	s.mu.Lock()
	if s.equal != nil && s.equal(s.value, v) {
		s.mu.Unlock()
		return false
	}
	s.value = v
	s.mu.Unlock()

	s.notify(v)
	return true
}

// Update applies fn to the current value atomically and notifies
// subscribers with the result.
func (s *Store[T]) Update(fn func(T) T) T {
	s.mu.Lock()
	old := s.value
	v := fn(old)
	if s.equal != nil && s.equal(old, v) {
		s.mu.Unlock()
		return v
	}
	s.value = v
	s.mu.Unlock()

	s.notify(v)
	return v
}

// Subscribe registers fn and returns a function that removes it. The
// returned function is safe to call more than once.
func (s *Store[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.subMu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber[T]{id: id, fn: fn})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Subscribers returns the number of active subscriptions.
func (s *Store[T]) Subscribers() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}

func (s *Store[T]) notify(v T) {
	s.subMu.Lock()
	subs := make([]subscriber[T], len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(v)
	}
}
