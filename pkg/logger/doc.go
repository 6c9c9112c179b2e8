// Package logger provides structured logging with context extraction and
// optional Sentry integration.
//
// It extends log/slog with two capabilities: automatic injection of
// request-scoped attributes pulled from context, and error reporting to
// Sentry with graceful fallback when no DSN is configured.
//
// # Basic Usage
//
// Create a logger with context extractors:
//
//	type requestIDKey struct{}
//
//	log := logger.New(logger.Extract(requestIDKey{}, "request_id"))
//
//	ctx := context.WithValue(context.Background(), requestIDKey{}, "abc-123")
//	log.InfoContext(ctx, "dispatched", slog.Int("status", 200))
//	// Output: {"level":"INFO","msg":"dispatched","status":200,"request_id":"abc-123"}
//
// Extractors run on every log call, so request-scoped values stay fresh.
// Return false from an extractor to skip the attribute for that entry.
//
// # Sentry Integration
//
// For production error tracking, use NewWithSentry:
//
//	log := logger.NewWithSentry(logger.SentryConfig{
//		DSN:         os.Getenv("SENTRY_DSN"),
//		Environment: "production",
//		MinLevel:    slog.LevelWarn,
//	})
//
// Errors create Issues in Sentry, warnings are stored as logs. With an empty
// DSN the logger falls back to stdout only, so the same code path is safe in
// development.
//
// # Handler Decoration
//
// NewContextHandler can wrap any slog.Handler to add extraction behavior:
//
//	jsonHandler := slog.NewJSONHandler(os.Stderr, nil)
//	log := slog.New(logger.NewContextHandler(jsonHandler, extractors...))
package logger
