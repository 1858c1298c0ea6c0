package keysource

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrymomot/enccookie/pkg/encryptor"
)

// Params are the PBKDF2 settings applied to every secret of a ring.
// Zero values fall back to the encryptor defaults.
type Params struct {
	Salt       []byte
	Iterations int
	Hash       encryptor.Hash
	Length     int
}

// ParseParams validates the textual form used by env and file sources.
// salt is standard base64; empty means the default salt.
func ParseParams(salt string, iterations int, hash string, length int) (Params, error) {
	p := Params{Iterations: iterations, Length: length}
	if salt != "" {
		b, err := base64.StdEncoding.DecodeString(salt)
		if err != nil {
			return Params{}, errors.Join(ErrInvalidSalt, err)
		}
		p.Salt = b
	}

	h, err := encryptor.ParseHash(hash)
	if err != nil {
		return Params{}, err
	}
	p.Hash = h
	return p, nil
}

// secret is one labelled secret in ring order.
type secret struct {
	id    string
	value []byte
}

func derive(p Params, secrets []secret) (*encryptor.KeyRing, error) {
	if len(secrets) == 0 {
		return nil, ErrNoSecrets
	}

	keys := make([]*encryptor.Key, 0, len(secrets))
	for _, s := range secrets {
		key, err := encryptor.DeriveKey(encryptor.DeriveOptions{
			ID:         s.id,
			Secret:     s.value,
			Salt:       p.Salt,
			Iterations: p.Iterations,
			Hash:       p.Hash,
			Length:     p.Length,
		})
		if err != nil {
			return nil, errors.Join(ErrDeriveFailed, fmt.Errorf("secret %q: %w", s.id, err))
		}
		keys = append(keys, key)
	}
	return encryptor.NewKeyRing(keys[0], keys[1:]...)
}
