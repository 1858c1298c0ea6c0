package keysource

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"

	"github.com/dmitrymomot/enccookie/pkg/encryptor"
)

// OpenKeyring opens the platform keyring under service.
func OpenKeyring(service string) (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{ServiceName: service})
	if err != nil {
		return nil, errors.Join(ErrKeyringOpen, err)
	}
	return ring, nil
}

// FromKeyring derives a ring from the items called names, in order.
// Keys carry the item name as their ID.
func FromKeyring(ring keyring.Keyring, p Params, names ...string) (*encryptor.KeyRing, error) {
	secrets := make([]secret, 0, len(names))
	for _, name := range names {
		item, err := ring.Get(name)
		if err != nil {
			return nil, errors.Join(ErrKeyringItem, fmt.Errorf("%q: %w", name, err))
		}
		if len(item.Data) == 0 {
			return nil, errors.Join(ErrKeyringItem, fmt.Errorf("%q: empty secret", name))
		}
		secrets = append(secrets, secret{id: name, value: item.Data})
	}
	return derive(p, secrets)
}

// StoreSecret writes secret into ring under name, replacing any previous value.
func StoreSecret(ring keyring.Keyring, name string, secret []byte) error {
	if len(secret) == 0 {
		return ErrNoSecrets
	}
	err := ring.Set(keyring.Item{
		Key:         name,
		Data:        secret,
		Label:       name,
		Description: "cookie encryption secret",
	})
	if err != nil {
		return errors.Join(ErrKeyringItem, err)
	}
	return nil
}
