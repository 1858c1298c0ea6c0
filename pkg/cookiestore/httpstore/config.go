package httpstore

import "net/http"

// Config holds cookie attribute defaults loaded from the environment.
type Config struct {
	Path     string        `env:"COOKIE_PATH" envDefault:"/"`
	Domain   string        `env:"COOKIE_DOMAIN" envDefault:""`
	Secure   bool          `env:"COOKIE_SECURE" envDefault:"false"`
	HttpOnly bool          `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
	SameSite http.SameSite `env:"COOKIE_SAME_SITE" envDefault:"2"` // 2 = SameSiteLaxMode
}

// Options converts the config into store options.
func (c Config) Options() []Option {
	opts := []Option{
		WithSecure(c.Secure),
		WithHTTPOnly(c.HttpOnly),
	}
	if c.Path != "" {
		opts = append(opts, WithPath(c.Path))
	}
	if c.Domain != "" {
		opts = append(opts, WithDomain(c.Domain))
	}
	if c.SameSite != 0 {
		opts = append(opts, WithSameSite(c.SameSite))
	}
	return opts
}
