package cookiestore

import "errors"

var (
	// ErrUnsupportedOverload is returned when a call uses an input shape this
	// store does not implement, such as a Query selector.
	ErrUnsupportedOverload = errors.New("cookiestore.unsupported_overload")

	// ErrNoStore is returned by New when no underlying store is given.
	ErrNoStore = errors.New("cookiestore.no_store")

	// ErrNoKeyRing is returned by New when no key ring is given.
	ErrNoKeyRing = errors.New("cookiestore.no_key_ring")
)
