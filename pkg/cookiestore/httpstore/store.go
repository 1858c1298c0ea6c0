// Package httpstore is a cookiestore.Store backed by one HTTP exchange.
//
// Reads come from the request's Cookie header. Writes update the store's view
// of the cookies and queue Set-Cookie headers, which Write adds to a response.
// Middleware does this automatically for every request.
//
//	r := chi.NewRouter()
//	r.Use(httpstore.Middleware(httpstore.WithSecure(true)))
//	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
//	    cookies, _ := cookiestore.New(httpstore.FromContext(r.Context()), ring)
//	    _ = cookies.SetValue(r.Context(), "theme", "dark")
//	})
package httpstore

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/enccookie/pkg/cookiestore"
)

var (
	// ErrInvalidCookie is returned by Set for items net/http cannot serialize.
	ErrInvalidCookie = errors.New("httpstore.invalid_cookie")
	// ErrHeadersWritten is returned by Set and Delete once Write has run.
	ErrHeadersWritten = errors.New("httpstore.headers_written")
)

// Store is the cookie jar of a single request/response pair.
type Store struct {
	mu       sync.RWMutex
	defaults Options
	cookies  map[string]cookiestore.Item
	order    []string
	pending  []*http.Cookie
	written  bool
}

var _ cookiestore.Store = (*Store)(nil)

// New reads the cookies of r. Duplicate names keep the first occurrence.
func New(r *http.Request, opts ...Option) *Store {
	s := &Store{
		defaults: applyOptions(defaultOptions(), opts),
		cookies:  make(map[string]cookiestore.Item),
	}
	for _, c := range r.Cookies() {
		if _, ok := s.cookies[c.Name]; ok {
			continue
		}
		s.cookies[c.Name] = cookiestore.Item{Name: c.Name, Value: c.Value}
		s.order = append(s.order, c.Name)
	}
	return s
}

func (s *Store) Get(ctx context.Context, name string) (*cookiestore.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.cookies[name]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (s *Store) GetAll(ctx context.Context) ([]cookiestore.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]cookiestore.Item, 0, len(s.order))
	for _, name := range s.order {
		items = append(items, s.cookies[name])
	}
	return items, nil
}

// Set queues a Set-Cookie header for item. Unset Path, Domain and SameSite
// take the store defaults; Secure and HttpOnly are enabled if either the item
// or the defaults enable them.
func (s *Store) Set(ctx context.Context, item cookiestore.Item) error {
	item = s.withDefaults(item)

	c := item.HTTPCookie()
	if err := c.Valid(); err != nil {
		return errors.Join(ErrInvalidCookie, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.written {
		return ErrHeadersWritten
	}
	if item.Expired(time.Now()) {
		s.forget(item.Name)
	} else {
		if _, ok := s.cookies[item.Name]; !ok {
			s.order = append(s.order, item.Name)
		}
		s.cookies[item.Name] = item
	}
	s.queue(c)
	return nil
}

// Delete queues an expiring Set-Cookie header for name.
func (s *Store) Delete(ctx context.Context, name string) error {
	c := s.withDefaults(cookiestore.Item{Name: name}).HTTPCookie()
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.written {
		return ErrHeadersWritten
	}
	s.forget(name)
	s.queue(c)
	return nil
}

// Pending returns the queued Set-Cookie cookies, one per name, in the order
// they were first written.
func (s *Store) Pending() []*http.Cookie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.pending)
}

// Write adds the queued Set-Cookie headers to w and clears the queue.
// It must run before the response header is written. Later calls to Set and
// Delete fail with ErrHeadersWritten.
func (s *Store) Write(w http.ResponseWriter) {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.written = true
	s.mu.Unlock()

	for _, c := range pending {
		http.SetCookie(w, c)
	}
}

func (s *Store) withDefaults(item cookiestore.Item) cookiestore.Item {
	if item.Path == "" {
		item.Path = s.defaults.Path
	}
	if item.Domain == "" {
		item.Domain = s.defaults.Domain
	}
	if item.SameSite == 0 {
		item.SameSite = s.defaults.SameSite
	}
	item.Secure = item.Secure || s.defaults.Secure
	item.HTTPOnly = item.HTTPOnly || s.defaults.HttpOnly
	return item
}

// queue replaces an earlier pending header for the same name, so only the
// last write per cookie reaches the client.
func (s *Store) queue(c *http.Cookie) {
	for i, p := range s.pending {
		if p.Name == c.Name {
			s.pending[i] = c
			return
		}
	}
	s.pending = append(s.pending, c)
}

func (s *Store) forget(name string) {
	if _, ok := s.cookies[name]; !ok {
		return
	}
	delete(s.cookies, name)
	s.order = slices.DeleteFunc(s.order, func(n string) bool { return n == name })
}
