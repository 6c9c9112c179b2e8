package middlewares

import (
	"log/slog"
	"time"

	"github.com/hostkit/relay"
)

// Logger returns middleware that writes one structured log line per
// dispatch: method, path, status and duration, plus the request ID when
// RequestID ran earlier in the chain. Failed dispatches log at error level
// with the error; the error itself passes through untouched for the
// kernel's handler to convert.
func Logger(log *slog.Logger) relay.Middleware {
	return func(next relay.Next) relay.Next {
		return func(r *relay.Request) (*relay.Response, error) {
			start := time.Now()
			resp, err := next(r)
			duration := time.Since(start)

			attrs := []any{
				slog.String("method", r.Method()),
				slog.String("path", r.Path()),
				slog.Duration("duration", duration),
			}
			if id := GetRequestID(r); id != "" {
				attrs = append(attrs, slog.String("request_id", id))
			}

			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				log.Error("request failed", attrs...)
				return resp, err
			}

			if resp != nil {
				attrs = append(attrs, slog.Int("status", resp.Status()))
			}
			log.Info("request completed", attrs...)
			return resp, nil
		}
	}
}
