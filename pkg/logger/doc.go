// Package logger builds *slog.Logger instances the same way across the service and keeps
// attribute names consistent.
//
// New takes functional options (format, level, output, static attributes and context
// extractors). Extractors run on every record, so values such as the request id or the
// resolved locale stored in a request context show up on every log line written with
// the *Context methods:
//
//	log := logger.New(
//		logger.WithEnvironment("production", "localemux"),
//		logger.WithContextExtractors(requestIDFromContext),
//	)
//	log.InfoContext(ctx, "resolver registered",
//		logger.Pattern("/api/**"),
//		logger.Tier("wildcard"),
//	)
//
// Attribute helpers such as Error and Errors return an empty attribute for nil errors,
// so they can be passed unconditionally.
package logger
