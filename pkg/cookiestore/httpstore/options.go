package httpstore

import "net/http"

// Options are attribute defaults applied to outgoing cookies whose own
// attribute is unset.
type Options struct {
	Path     string
	Domain   string
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

// Option overrides one attribute default.
type Option func(*Options)

// WithPath sets the Path of cookies written without one. Defaults to "/".
func WithPath(path string) Option {
	return func(o *Options) {
		o.Path = path
	}
}

// WithDomain sets the Domain of cookies written without one.
// Empty keeps cookies host-only.
func WithDomain(domain string) Option {
	return func(o *Options) {
		o.Domain = domain
	}
}

// WithSecure marks every written cookie Secure when true.
// An item that asks for Secure keeps it either way.
func WithSecure(secure bool) Option {
	return func(o *Options) {
		o.Secure = secure
	}
}

// WithHTTPOnly marks every written cookie HttpOnly when true. On by default.
func WithHTTPOnly(httpOnly bool) Option {
	return func(o *Options) {
		o.HttpOnly = httpOnly
	}
}

// WithSameSite sets the SameSite mode of cookies written without one.
// Defaults to http.SameSiteLaxMode.
func WithSameSite(sameSite http.SameSite) Option {
	return func(o *Options) {
		o.SameSite = sameSite
	}
}

func defaultOptions() Options {
	return Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func applyOptions(base Options, opts []Option) Options {
	for _, opt := range opts {
		opt(&base)
	}
	return base
}
