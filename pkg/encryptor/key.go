package encryptor

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrymomot/enccookie/pkg/envelope"
)

// Key is an AES-GCM key. The zero value is not usable; use NewKey or DeriveKey.
type Key struct {
	id   string
	aead cipher.AEAD
}

// KeyOption configures a Key.
type KeyOption func(*Key)

// WithKeyID labels the key. The label only shows up in errors and logs.
func WithKeyID(id string) KeyOption {
	return func(k *Key) {
		k.id = id
	}
}

// NewKey builds a key from 16, 24 or 32 bytes of raw material.
func NewKey(raw []byte, opts ...KeyOption) (*Key, error) {
	switch len(raw) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: got %d bytes, want 16, 24 or 32", ErrInvalidKeyLength, len(raw))
	}

	block, err := aes.NewCipher(raw)
	if err != nil {
		return nil, errors.Join(ErrInvalidKeyLength, err)
	}

	// The nonce doubles as the 16-byte envelope IV instead of GCM's usual 12.
	aead, err := cipher.NewGCMWithNonceSize(block, envelope.IVSize)
	if err != nil {
		return nil, err
	}

	k := &Key{aead: aead}
	for _, opt := range opts {
		opt(k)
	}
	return k, nil
}

// ID returns the label set with WithKeyID.
func (k *Key) ID() string {
	return k.id
}

// GenerateKey returns bits/8 random bytes suitable for NewKey.
func GenerateKey(bits int) ([]byte, error) {
	switch bits {
	case 128, 192, 256:
	default:
		return nil, fmt.Errorf("%w: %d bits", ErrInvalidKeyLength, bits)
	}

	raw := make([]byte, bits/8)
	if _, err := rand.Read(raw); err != nil {
		return nil, errors.Join(ErrEntropy, err)
	}
	return raw, nil
}

// KeyRing is an ordered, immutable list of keys.
// The first key encrypts; all keys are tried in order to decrypt.
type KeyRing struct {
	keys []*Key
}

// NewKeyRing returns a ring with active first, followed by previous keys.
func NewKeyRing(active *Key, previous ...*Key) (*KeyRing, error) {
	keys := make([]*Key, 0, len(previous)+1)
	keys = append(keys, active)
	keys = append(keys, previous...)

	for i, k := range keys {
		if k == nil {
			return nil, fmt.Errorf("%w: key %d is nil", ErrNoKey, i)
		}
	}

	return &KeyRing{keys: keys}, nil
}

// Active returns the key used for new encryptions.
func (r *KeyRing) Active() *Key {
	return r.keys[0]
}

// Keys returns the ring in decryption order. The slice is a copy.
func (r *KeyRing) Keys() []*Key {
	return slices.Clone(r.keys)
}

// Len returns the number of keys in the ring.
func (r *KeyRing) Len() int {
	return len(r.keys)
}

// Encrypt encrypts cleartext with the active key.
func (r *KeyRing) Encrypt(cleartext string) (string, error) {
	return Encrypt(r.Active(), cleartext)
}

// Decrypt decrypts text with the first key of the ring that accepts it.
func (r *KeyRing) Decrypt(text string) (string, error) {
	return Decrypt(r, text)
}
