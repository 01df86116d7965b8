// Package kvcache provides a small in-process key-value store with
// per-entry expiry. It stands in for browser session storage so token
// caching can be exercised without any browser-specific environment.
package kvcache

import (
	"sync"
	"time"
)

// Clock supplies the current time; injectable for deterministic tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type entry struct {
	value     string
	expiresAt time.Time
}

// Store is a scoped TTL key-value store. Safe for concurrent use, though
// the expected usage is single-writer per session.
type Store struct {
	mu    sync.Mutex
	items map[string]entry
	clock Clock
}

// Option configures the store.
type Option func(*Store)

// WithClock overrides the time source used for expiry.
func WithClock(c Clock) Option { return func(s *Store) { s.clock = c } }

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{items: make(map[string]entry), clock: realClock{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set stores value under key until expiresAt. A zero expiry keeps the
// entry until explicitly deleted.
func (s *Store) Set(key, value string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = entry{value: value, expiresAt: expiresAt}
}

// Get returns the value for key if present and not expired. Expired
// entries are discarded on access.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[key]
	if !ok {
		return "", false
	}
	if !e.expiresAt.IsZero() && !s.clock.Now().Before(e.expiresAt) {
		delete(s.items, key)
		return "", false
	}
	return e.value, true
}

// Delete removes the entry for key, if any.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}
