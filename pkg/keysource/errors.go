package keysource

import "errors"

var (
	ErrNoSecrets    = errors.New("keysource.no_secrets")
	ErrInvalidSalt  = errors.New("keysource.invalid_salt")
	ErrKeyringItem  = errors.New("keysource.keyring_item")
	ErrInvalidFile  = errors.New("keysource.invalid_file")
	ErrKeyringOpen  = errors.New("keysource.keyring_open")
	ErrConfigLoad   = errors.New("keysource.config")
	ErrDeriveFailed = errors.New("keysource.derive_failed")
)
