package cookiestore

import "context"

// Store is the key/value cookie storage EncryptedStore writes to.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the cookie with the given name, or nil if there is none.
	Get(ctx context.Context, name string) (*Item, error)

	// GetAll returns every cookie in the store's iteration order.
	GetAll(ctx context.Context) ([]Item, error)

	// Set creates or replaces a cookie.
	Set(ctx context.Context, item Item) error

	// Delete removes the cookie with the given name. Missing cookies are not an error.
	Delete(ctx context.Context, name string) error
}

// EventTarget is implemented by stores that publish change events.
type EventTarget interface {
	// AddListener registers l and returns an ID for RemoveListener.
	AddListener(l Listener) ListenerID

	// RemoveListener unregisters the listener with the given ID.
	RemoveListener(id ListenerID)

	// Dispatch delivers ev to every listener. It reports whether any listener was called.
	Dispatch(ctx context.Context, ev ChangeEvent) bool
}
