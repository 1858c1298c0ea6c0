package logger

import (
	"log/slog"
	"strconv"
)

// Error logs err under "error". Nil errors produce an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups the non-nil errors under "errors", keyed by position.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Cookie records a cookie name.
func Cookie(name string) slog.Attr {
	return slog.String("cookie", name)
}

// KeyID records a key label. Empty labels produce an empty Attr.
func KeyID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("key_id", id)
}

// Component records the component name.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Store records the name of a storage backend.
func Store(name string) slog.Attr {
	return slog.String("store", name)
}
