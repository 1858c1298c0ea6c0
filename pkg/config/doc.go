// Package config loads typed configuration from environment variables.
//
// Structs describe their variables with github.com/caarlos0/env tags:
//
//	type Config struct {
//	    Secrets []string `env:"COOKIE_SECRETS,required"`
//	    Salt    string   `env:"COOKIE_SALT"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
// Load caches one value per struct type for the life of the process and
// reads ./.env through github.com/joho/godotenv the first time it runs.
// Parse skips the cache and accepts a prefix or an explicit variable map,
// which is what tests and multi-tenant setups want. LoadEnv reads other
// .env files on demand.
package config
