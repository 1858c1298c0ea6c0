package encryptor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoKey             = errors.New("encryptor.no_key")
	ErrNoSecret          = errors.New("encryptor.no_secret")
	ErrInvalidKeyLength  = errors.New("encryptor.invalid_key_length")
	ErrUnsupportedHash   = errors.New("encryptor.unsupported_hash")
	ErrEntropy           = errors.New("encryptor.entropy_failure")
	ErrMalformedEnvelope = errors.New("encryptor.malformed_envelope")
	ErrDecryptionFailed  = errors.New("encryptor.decryption_failed")
)

// KeyError records why a single key of the ring failed.
type KeyError struct {
	Index int
	ID    string
	Err   error
}

func (e *KeyError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("key %d (%s): %v", e.Index, e.ID, e.Err)
	}
	return fmt.Sprintf("key %d: %v", e.Index, e.Err)
}

func (e *KeyError) Unwrap() error { return e.Err }

// DecryptionError is returned by Decrypt when every key of the ring failed.
// Errs holds one *KeyError per key, in ring order.
type DecryptionError struct {
	Errs []error
}

func (e *DecryptionError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%s: none of the %d keys could decrypt the value: %s",
		ErrDecryptionFailed, len(e.Errs), strings.Join(msgs, "; "))
}

func (e *DecryptionError) Unwrap() []error { return e.Errs }

// Is makes errors.Is(err, ErrDecryptionFailed) hold.
func (e *DecryptionError) Is(target error) bool {
	return target == ErrDecryptionFailed
}
