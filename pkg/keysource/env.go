package keysource

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrymomot/enccookie/pkg/config"
	"github.com/dmitrymomot/enccookie/pkg/encryptor"
)

// Config reads key material from the environment. The first secret is active.
type Config struct {
	Secrets    []string `env:"COOKIE_SECRETS,required" envSeparator:","`
	Salt       string   `env:"COOKIE_SALT"` // standard base64
	Iterations int      `env:"COOKIE_KDF_ITERATIONS" envDefault:"999"`
	Hash       string   `env:"COOKIE_KDF_HASH" envDefault:"SHA-256"`
	KeyLength  int      `env:"COOKIE_KEY_LENGTH" envDefault:"256"`
}

// FromConfig derives a ring from cfg. Blank secrets are skipped.
// Keys are labelled "env:<index>".
func FromConfig(cfg Config) (*encryptor.KeyRing, error) {
	p, err := ParseParams(cfg.Salt, cfg.Iterations, cfg.Hash, cfg.KeyLength)
	if err != nil {
		return nil, err
	}

	secrets := make([]secret, 0, len(cfg.Secrets))
	for _, s := range cfg.Secrets {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		secrets = append(secrets, secret{
			id:    fmt.Sprintf("env:%d", len(secrets)),
			value: []byte(s),
		})
	}
	return derive(p, secrets)
}

// Load reads Config through pkg/config and derives the ring.
func Load() (*encryptor.KeyRing, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, errors.Join(ErrConfigLoad, err)
	}
	return FromConfig(cfg)
}
