package encryptor

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Hash names a PBKDF2 pseudo-random function.
type Hash string

const (
	SHA1   Hash = "SHA-1"
	SHA256 Hash = "SHA-256"
	SHA384 Hash = "SHA-384"
	SHA512 Hash = "SHA-512"
)

// Key derivation defaults.
const (
	DefaultIterations = 999
	DefaultHash       = SHA256
	DefaultKeyLength  = 256
)

// DefaultSalt is used when DeriveOptions.Salt is empty.
// It is public and identical for every caller; see the package docs.
var DefaultSalt = mustDecodeSalt("Gfw5ic5qS062JvoubvO+DA==")

// DeriveOptions are the inputs to DeriveKey. Zero fields take the defaults.
type DeriveOptions struct {
	// ID labels the resulting key.
	ID string
	// Secret is the passphrase or other secret material. Required.
	Secret []byte
	// Salt defaults to DefaultSalt.
	Salt []byte
	// Iterations defaults to DefaultIterations.
	Iterations int
	// Hash defaults to SHA-256.
	Hash Hash
	// Length is the key size in bits: 128, 192 or 256 (default).
	Length int
}

// DeriveKey stretches opts.Secret into an AES key with PBKDF2.
func DeriveKey(opts DeriveOptions) (*Key, error) {
	if len(opts.Secret) == 0 {
		return nil, ErrNoSecret
	}

	salt := opts.Salt
	if len(salt) == 0 {
		salt = DefaultSalt
	}
	iterations := opts.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	length := opts.Length
	if length == 0 {
		length = DefaultKeyLength
	}
	if length != 128 && length != 192 && length != 256 {
		return nil, fmt.Errorf("%w: %d bits", ErrInvalidKeyLength, length)
	}

	h, err := hashFunc(opts.Hash)
	if err != nil {
		return nil, err
	}

	raw := pbkdf2.Key(opts.Secret, salt, iterations, length/8, h)
	return NewKey(raw, WithKeyID(opts.ID))
}

// ParseHash accepts "SHA-256", "sha256" and similar spellings.
func ParseHash(name string) (Hash, error) {
	if name == "" {
		return DefaultHash, nil
	}
	switch strings.ReplaceAll(strings.ToUpper(name), "-", "") {
	case "SHA1":
		return SHA1, nil
	case "SHA256":
		return SHA256, nil
	case "SHA384":
		return SHA384, nil
	case "SHA512":
		return SHA512, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedHash, name)
}

func hashFunc(h Hash) (func() hash.Hash, error) {
	name, err := ParseHash(string(h))
	if err != nil {
		return nil, err
	}
	switch name {
	case SHA1:
		return sha1.New, nil
	case SHA384:
		return sha512.New384, nil
	case SHA512:
		return sha512.New, nil
	default:
		return sha256.New, nil
	}
}

func mustDecodeSalt(s string) []byte {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
