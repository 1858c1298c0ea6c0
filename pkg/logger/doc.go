// Package logger builds *slog.Logger values with functional options and a
// handler decorator that copies request-scoped values from the context into
// every record.
//
//	log := logger.New(
//	    logger.WithDevelopment("cookies"),
//	    logger.WithContextValue("request_id", requestIDKey{}),
//	)
//	log.InfoContext(ctx, "cookie stored", logger.Cookie("session"))
//
// Libraries in this module take a *slog.Logger option and default to
// NewNope, which discards everything.
package logger
