package cookiestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/enccookie/pkg/encryptor"
	"github.com/dmitrymomot/enccookie/pkg/logger"
)

// Suffix marks encrypted cookies in the underlying store.
const Suffix = ".enc"

// EncryptedStore encrypts cookie values on Set and decrypts them on Get,
// keeping the ciphertext in an underlying Store under name+Suffix.
// It holds no state besides the key ring and is safe for concurrent use.
type EncryptedStore struct {
	store   Store
	ring    *encryptor.KeyRing
	log     *slog.Logger
	skipBad bool
}

// Option configures an EncryptedStore.
type Option func(*EncryptedStore)

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(s *EncryptedStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSkipUndecryptable makes GetAll drop cookies no key can decrypt
// instead of failing the whole call. Dropped cookies are logged at warn level.
func WithSkipUndecryptable() Option {
	return func(s *EncryptedStore) {
		s.skipBad = true
	}
}

// New wraps store. New cookies are encrypted with ring's active key; all keys
// of the ring are tried when reading.
func New(store Store, ring *encryptor.KeyRing, opts ...Option) (*EncryptedStore, error) {
	if store == nil {
		return nil, ErrNoStore
	}
	if ring == nil || ring.Len() == 0 {
		return nil, ErrNoKeyRing
	}

	s := &EncryptedStore{
		store: store,
		ring:  ring,
		log:   logger.NewNope(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("cookiestore"), logger.Store(fmt.Sprintf("%T", store)))
	return s, nil
}

// Get returns the decrypted cookie selected by sel, or nil if the underlying
// store has no such cookie. Only Name selectors are supported.
func (s *EncryptedStore) Get(ctx context.Context, sel Selector) (*Item, error) {
	name, err := nameOf(sel)
	if err != nil {
		return nil, err
	}

	raw, err := s.store.Get(ctx, name+Suffix)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		s.log.DebugContext(ctx, "encrypted cookie not found", logger.Cookie(name))
		return nil, nil
	}

	item, err := s.decrypt(*raw)
	if err != nil {
		s.log.DebugContext(ctx, "failed to decrypt cookie", logger.Cookie(name), errAttr(err))
		return nil, err
	}
	return &item, nil
}

// GetAll returns every encrypted cookie of the underlying store, decrypted,
// in the store's order. Cookies without Suffix are ignored. sel must be nil.
//
// By default a single undecryptable cookie fails the whole call; see
// WithSkipUndecryptable.
func (s *EncryptedStore) GetAll(ctx context.Context, sel Selector) ([]Item, error) {
	if sel != nil {
		return nil, ErrUnsupportedOverload
	}

	raws, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(raws))
	for _, raw := range raws {
		if !strings.HasSuffix(raw.Name, Suffix) {
			continue
		}

		item, err := s.decrypt(raw)
		if err != nil {
			if s.skipBad {
				s.log.WarnContext(ctx, "skipping undecryptable cookie", logger.Cookie(raw.Name), errAttr(err))
				continue
			}
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Set encrypts item.Value with the active key and stores it under
// item.Name+Suffix. All other fields are forwarded unchanged.
func (s *EncryptedStore) Set(ctx context.Context, item Item) error {
	text, err := s.ring.Encrypt(item.Value)
	if err != nil {
		return err
	}

	s.log.DebugContext(ctx, "cookie encrypted", logger.Cookie(item.Name), logger.KeyID(s.ring.Active().ID()))

	item.Name += Suffix
	item.Value = text
	return s.store.Set(ctx, item)
}

// SetValue is Set for a cookie without metadata.
func (s *EncryptedStore) SetValue(ctx context.Context, name, value string) error {
	return s.Set(ctx, Item{Name: name, Value: value})
}

// Delete removes the cookie selected by sel. Only Name selectors are supported.
func (s *EncryptedStore) Delete(ctx context.Context, sel Selector) error {
	name, err := nameOf(sel)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, name+Suffix)
}

// AddListener forwards to the underlying store if it publishes events.
// Otherwise it returns the zero ListenerID.
func (s *EncryptedStore) AddListener(l Listener) ListenerID {
	if t, ok := s.store.(EventTarget); ok {
		return t.AddListener(l)
	}
	return ""
}

// RemoveListener forwards to the underlying store if it publishes events.
func (s *EncryptedStore) RemoveListener(id ListenerID) {
	if t, ok := s.store.(EventTarget); ok {
		t.RemoveListener(id)
	}
}

// Dispatch forwards to the underlying store if it publishes events.
func (s *EncryptedStore) Dispatch(ctx context.Context, ev ChangeEvent) bool {
	if t, ok := s.store.(EventTarget); ok {
		return t.Dispatch(ctx, ev)
	}
	return false
}

func (s *EncryptedStore) decrypt(raw Item) (Item, error) {
	value, err := s.ring.Decrypt(raw.Value)
	if err != nil {
		return Item{}, err
	}
	raw.Name = strings.TrimSuffix(raw.Name, Suffix)
	raw.Value = value
	return raw, nil
}

// errAttr spreads a DecryptionError into one attribute per key.
func errAttr(err error) slog.Attr {
	var de *encryptor.DecryptionError
	if errors.As(err, &de) {
		return logger.Errors(de.Errs...)
	}
	return logger.Error(err)
}

func nameOf(sel Selector) (string, error) {
	switch v := sel.(type) {
	case Name:
		return string(v), nil
	default: // Query, nil
		return "", ErrUnsupportedOverload
	}
}
