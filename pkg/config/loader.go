package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	cache sync.Map // reflect.Type -> *entry

	defaultEnvOnce sync.Once
)

type entry struct {
	once  sync.Once
	value any
	err   error
}

// LoadEnv reads .env files into the process environment without overriding
// variables that are already set. With no paths it reads ./.env.
// Earlier files win over later ones.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrLoadingEnv, err)
	}
	return nil
}

// MustLoadEnv is LoadEnv that panics on error.
func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(err)
	}
}

// Load fills v from the environment. Each struct type is parsed once per
// process; later calls get a copy of the first result, including a failure.
// The default .env file is read on first use if present.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	defaultEnvOnce.Do(func() { _ = godotenv.Load() })

	raw, _ := cache.LoadOrStore(reflect.TypeFor[T](), &entry{})
	e := raw.(*entry)
	e.once.Do(func() {
		var cfg T
		if err := env.Parse(&cfg); err != nil {
			e.err = errors.Join(ErrParsingConfig, err)
			return
		}
		e.value = cfg
	})
	if e.err != nil {
		return e.err
	}
	*v = e.value.(T)
	return nil
}

// MustLoad is Load that panics on error.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// Option tunes Parse.
type Option func(*env.Options)

// WithPrefix prepends prefix to every variable name.
func WithPrefix(prefix string) Option {
	return func(o *env.Options) { o.Prefix = prefix }
}

// WithEnvironment parses from vars instead of the process environment.
func WithEnvironment(vars map[string]string) Option {
	return func(o *env.Options) { o.Environment = vars }
}

// Parse builds a fresh T from the environment, bypassing the cache.
func Parse[T any](opts ...Option) (T, error) {
	var o env.Options
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := env.ParseAsWithOptions[T](o)
	if err != nil {
		var zero T
		return zero, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// Reset drops every cached configuration. Meant for tests.
func Reset() {
	cache.Clear()
}
