package httpstore

import (
	"context"
	"net/http"
	"sync"
)

type contextKey struct{}

// WithContext returns a copy of ctx carrying s.
func WithContext(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the store installed by Middleware, or nil.
func FromContext(ctx context.Context) *Store {
	s, _ := ctx.Value(contextKey{}).(*Store)
	return s
}

// Middleware gives every request its own Store and writes the queued
// Set-Cookie headers right before the response header goes out.
func Middleware(opts ...Option) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := New(r, opts...)
			rw := &responseWriter{ResponseWriter: w, store: s}
			next.ServeHTTP(rw, r.WithContext(WithContext(r.Context(), s)))
			rw.flush()
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	store *Store
	once  sync.Once
}

func (w *responseWriter) flush() {
	w.once.Do(func() {
		w.store.Write(w.ResponseWriter)
	})
}

func (w *responseWriter) WriteHeader(status int) {
	w.flush()
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.flush()
	return w.ResponseWriter.Write(b)
}

// FlushError sends the queued cookies before flushing the underlying writer.
// http.ResponseController prefers it over Unwrap.
func (w *responseWriter) FlushError() error {
	w.flush()
	return http.NewResponseController(w.ResponseWriter).Flush()
}

func (w *responseWriter) Flush() {
	_ = w.FlushError()
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
