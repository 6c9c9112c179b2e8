package internal

import "log/slog"

// Option configures a Kernel during construction.
type Option func(*Kernel)

// WithLogger sets the logger used for dispatch tracing and error reports.
// Nil values are ignored and the kernel stays on its no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(k *Kernel) {
		if log != nil {
			k.log = log
		}
	}
}

// WithRegistry sets the middleware registry references resolve through.
func WithRegistry(reg *Registry) Option {
	return func(k *Kernel) {
		if reg != nil {
			k.registry = reg
		}
	}
}

// WithMiddleware appends kernel-level middleware entries. They join every
// dispatch ahead of the matched route's own entries.
func WithMiddleware(entries ...Entry) Option {
	return func(k *Kernel) {
		k.entries = append(k.entries, entries...)
	}
}

// WithErrorHandler replaces the default dispatch error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(k *Kernel) {
		if h != nil {
			k.errs = h
		}
	}
}

// WithGlobal seeds a shared value before the first dispatch.
func WithGlobal(name string, value any) Option {
	return func(k *Kernel) {
		k.globals[name] = value
	}
}
