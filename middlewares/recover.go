package middlewares

import (
	"log/slog"
	"runtime"

	"github.com/hostkit/relay"
	"github.com/hostkit/relay/pkg/logger"
)

// DefaultStackSize is the default maximum stack trace size in bytes.
const DefaultStackSize = 4096

// RecoverConfig configures the recover middleware.
type RecoverConfig struct {
	Logger            *slog.Logger // Logger for panic reports (default: discard)
	StackSize         int          // Max stack trace size (default: 4096)
	DisablePrintStack bool         // Disable stack trace in logs
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverLogger sets the logger panics are reported to.
func WithRecoverLogger(log *slog.Logger) RecoverOption {
	return func(cfg *RecoverConfig) {
		if log != nil {
			cfg.Logger = log
		}
	}
}

// WithRecoverStackSize sets the maximum stack trace size.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.StackSize = size
	}
}

// WithRecoverDisablePrintStack disables including stack trace in logs.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisablePrintStack = true
	}
}

// Recover returns middleware that converts panics below it into a
// PanicError with a captured stack trace. The kernel's own bracket catches
// panics too, but without the stack; install Recover where the trace
// matters.
func Recover(opts ...RecoverOption) relay.Middleware {
	cfg := &RecoverConfig{
		Logger:    logger.NewNope(),
		StackSize: DefaultStackSize,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return func(next relay.Next) relay.Next {
		return func(r *relay.Request) (resp *relay.Response, err error) {
			defer func() {
				if rec := recover(); rec != nil {
					var stack []byte
					if !cfg.DisablePrintStack {
						stack = make([]byte, cfg.StackSize)
						n := runtime.Stack(stack, false)
						stack = stack[:n]
					}

					if cfg.DisablePrintStack {
						cfg.Logger.Error("panic recovered",
							slog.String("method", r.Method()),
							slog.String("path", r.Path()),
							slog.Any("panic", rec),
						)
					} else {
						cfg.Logger.Error("panic recovered",
							slog.String("method", r.Method()),
							slog.String("path", r.Path()),
							slog.Any("panic", rec),
							slog.String("stack", string(stack)),
						)
					}

					resp = nil
					err = &PanicError{Value: rec, Stack: stack}
				}
			}()

			return next(r)
		}
	}
}
