// Package logger builds slog loggers for the gateway.
//
// New returns a JSON (default) or text logger whose handler is wrapped by a
// decorator that pulls request-scoped values (request id and similar) out of
// the context on every record:
//
//	log := logger.New(
//		logger.WithLevelName(cfg.LogLevel),
//		logger.WithService("wagate"),
//		logger.WithContextExtractors(requestIDExtractor),
//	)
//	log.InfoContext(ctx, "session ready", logger.SessionID(id))
//
// The attr helpers keep attribute keys consistent across packages.
package logger
