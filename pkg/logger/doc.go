// Package logger builds configured slog.Logger instances for the toolkit.
//
// New applies functional options over production-safe defaults (JSON output,
// INFO level) and wraps the resulting handler in a decorator that injects
// request-scoped attributes extracted from the context, such as request ids.
//
//	log := logger.New(
//	    logger.WithDevelopment("records"),
//	    logger.WithContextValue("request_id", requestid.ContextKey()),
//	)
//
// The package also carries small attribute helpers (Error, Form, DocID) so
// call sites log domain identifiers under consistent keys.
package logger
