package encryptor

import (
	"crypto/rand"
	"errors"
	"io"

	"github.com/dmitrymomot/enccookie/pkg/bufferutil"
	"github.com/dmitrymomot/enccookie/pkg/envelope"
)

var (
	randReader io.Reader = rand.Reader
	zeroIV               = make([]byte, envelope.IVSize)
)

// Encrypt seals cleartext with key under a fresh random IV and returns the
// envelope text.
func Encrypt(key *Key, cleartext string) (string, error) {
	if key == nil {
		return "", ErrNoKey
	}

	iv := make([]byte, envelope.IVSize)
	if _, err := io.ReadFull(randReader, iv); err != nil {
		return "", errors.Join(ErrEntropy, err)
	}
	if bufferutil.Equal(iv, zeroIV) {
		return "", ErrEntropy
	}

	ciphertext := key.aead.Seal(nil, iv, []byte(cleartext), nil)
	return envelope.Encode(iv, ciphertext), nil
}

// Decrypt opens the envelope text with the first key of ring that
// authenticates it. Structurally invalid text fails with ErrMalformedEnvelope
// before any key is tried. If every key fails, the error is a
// *DecryptionError.
func Decrypt(ring *KeyRing, text string) (string, error) {
	if ring == nil || len(ring.keys) == 0 {
		return "", ErrNoKey
	}

	iv, ciphertext, err := envelope.Decode(text)
	if err != nil {
		return "", errors.Join(ErrMalformedEnvelope, err)
	}
	if bufferutil.Equal(iv, zeroIV) {
		return "", errors.Join(ErrMalformedEnvelope, envelope.ErrMalformed)
	}

	errs := make([]error, 0, len(ring.keys))
	for i, key := range ring.keys {
		plain, err := key.aead.Open(nil, iv, ciphertext, nil)
		if err == nil {
			return string(plain), nil
		}
		errs = append(errs, &KeyError{Index: i, ID: key.id, Err: err})
	}

	return "", &DecryptionError{Errs: errs}
}
