// Package pref provides reader preferences that can be changed locally and
// merged with values arriving from elsewhere (another tab, another device).
//
// A Pref is an observable value with a key and a last-update time. Local
// changes always win and are stamped with the current time; remote values
// carry their own time and are merged last-write-wins, so every writer
// converges on the most recent value.
//
// Example:
//
//	mode := pref.New("mode", theme.Light)
//	mode.Subscribe(func(m theme.Mode) { log.Println("mode is now", m) })
//	mode.Set(theme.Dark)
package pref

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/vango-dev/almanac/pkg/store"
)

// Pref is a preference value.
//
// Writers are serialised so a value and its time always change together.
// Subscribers run inside that ordering: they may read the Pref but must not
// write it.
type Pref[T any] struct {
	key   string
	value *store.Store[T]

	mu        sync.Mutex
	updatedAt atomic.Pointer[time.Time]
}

// New creates a new preference with the given key and initial value.
func New[T any](key string, initial T) *Pref[T] {
	p := &Pref[T]{
		key:   key,
		value: store.New(initial),
	}
	p.stamp(time.Now())
	return p
}

func (p *Pref[T]) stamp(t time.Time) {
	p.updatedAt.Store(&t)
}

// Get returns the current preference value.
func (p *Pref[T]) Get() T {
	return p.value.Get()
}

// Set updates the value and stamps it with the current time.
func (p *Pref[T]) Set(value T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stamp(time.Now())
	p.value.Set(value)
}

// Update sets the value to fn applied to the current one.
func (p *Pref[T]) Update(fn func(T) T) T {
	p.mu.Lock()
	defer p.mu.Unlock()
	v := fn(p.value.Get())
	p.stamp(time.Now())
	p.value.Set(v)
	return v
}

// SetFromRemote takes value if it was written after the current one and
// reports whether it did. Ties keep the current value.
func (p *Pref[T]) SetFromRemote(value T, updatedAt time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !updatedAt.After(p.UpdatedAt()) {
		return false
	}
	p.stamp(updatedAt)
	p.value.Set(value)
	return true
}

// Key returns the preference key.
func (p *Pref[T]) Key() string {
	return p.key
}

// UpdatedAt returns when the current value was written.
func (p *Pref[T]) UpdatedAt() time.Time {
	return *p.updatedAt.Load()
}

// Subscribe calls fn with every new value until the returned function is
// called.
func (p *Pref[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	return p.value.Subscribe(fn)
}
