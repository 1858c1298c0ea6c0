// Package memstore is an in-process cookiestore.Store.
//
// Cookies keep their insertion order, expire according to MaxAge or Expires,
// and every Set and Delete is published to listeners registered through the
// embedded cookiestore.Events.
package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/enccookie/pkg/cookiestore"
)

type entry struct {
	item     cookiestore.Item
	deadline time.Time
}

// Store keeps cookies in memory.
type Store struct {
	cookiestore.Events

	mu      sync.RWMutex
	entries map[string]entry
	order   []string
	now     func() time.Time

	ticker    *time.Ticker
	done      chan struct{}
	closeOnce sync.Once
}

var _ cookiestore.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithCleanupInterval starts a goroutine that drops expired cookies every d.
// Call Close to stop it.
func WithCleanupInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.ticker = time.NewTicker(d)
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]entry),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ticker != nil {
		go s.cleanupLoop(s.ticker)
	}
	return s
}

// Get returns a copy of the named cookie, or nil if it is missing or expired.
func (s *Store) Get(ctx context.Context, name string) (*cookiestore.Item, error) {
	s.mu.RLock()
	e, ok := s.entries[name]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if s.expired(e) {
		s.dropExpired(name)
		return nil, nil
	}

	item := e.item
	return &item, nil
}

// GetAll returns the live cookies in insertion order.
func (s *Store) GetAll(ctx context.Context) ([]cookiestore.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]cookiestore.Item, 0, len(s.order))
	for _, name := range s.order {
		e := s.entries[name]
		if s.expired(e) {
			continue
		}
		items = append(items, e.item)
	}
	return items, nil
}

// Set stores item. An item that is already expired deletes the cookie
// instead, mirroring how browsers treat Max-Age=0 and past Expires.
// Replacing a cookie keeps its position.
func (s *Store) Set(ctx context.Context, item cookiestore.Item) error {
	now := s.now()
	if item.Expired(now) {
		return s.Delete(ctx, item.Name)
	}

	s.mu.Lock()
	if _, ok := s.entries[item.Name]; !ok {
		s.order = append(s.order, item.Name)
	}
	s.entries[item.Name] = entry{item: item, deadline: item.ExpiresAt(now)}
	s.mu.Unlock()

	s.Dispatch(ctx, cookiestore.ChangeEvent{Changed: []cookiestore.Item{item}})
	return nil
}

// Delete removes the named cookie.
func (s *Store) Delete(ctx context.Context, name string) error {
	if item, ok := s.remove(name); ok {
		s.Dispatch(ctx, cookiestore.ChangeEvent{Deleted: []cookiestore.Item{item}})
	}
	return nil
}

// DeleteExpired drops every expired cookie.
func (s *Store) DeleteExpired(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, name)
			s.order = slices.DeleteFunc(s.order, func(n string) bool { return n == name })
		}
	}
	return nil
}

// Len returns the number of stored cookies, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close stops the cleanup goroutine.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		if s.ticker != nil {
			s.ticker.Stop()
			close(s.done)
		}
	})
	return nil
}

func (s *Store) remove(name string) (cookiestore.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[name]
	if !ok {
		return cookiestore.Item{}, false
	}
	delete(s.entries, name)
	s.order = slices.DeleteFunc(s.order, func(n string) bool { return n == name })
	return e.item, true
}

// dropExpired removes name only if it is still expired under the write lock,
// so a concurrent Set is never undone.
func (s *Store) dropExpired(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[name]; ok && s.expired(e) {
		delete(s.entries, name)
		s.order = slices.DeleteFunc(s.order, func(n string) bool { return n == name })
	}
}

func (s *Store) expired(e entry) bool {
	return !e.deadline.IsZero() && !s.now().Before(e.deadline)
}

func (s *Store) cleanupLoop(t *time.Ticker) {
	for {
		select {
		case <-t.C:
			_ = s.DeleteExpired(context.Background())
		case <-s.done:
			return
		}
	}
}
