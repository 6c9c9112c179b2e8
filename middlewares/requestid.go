package middlewares

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hostkit/relay"
	"github.com/hostkit/relay/pkg/logger"
)

// RequestIDAttr is the request attribute the assigned ID is stored under.
const RequestIDAttr = "request_id"

// DefaultRequestIDHeaders are the headers checked (in order) for an existing request ID.
var DefaultRequestIDHeaders = []string{"X-Request-ID", "X-Request-Id", "X-Correlation-ID"}

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	Extractor      relay.Extractor // Where to look for an existing ID
	Generator      func() string   // ID generator function
	ResponseHeader string          // Response header name
	extractorSet   bool
}

// RequestIDOption configures RequestIDConfig.
type RequestIDOption func(*RequestIDConfig)

// WithRequestIDExtractor sets a custom extractor chain for existing IDs.
func WithRequestIDExtractor(ext relay.Extractor) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.Extractor = ext
		cfg.extractorSet = true
	}
}

// WithRequestIDGenerator sets a custom ID generator function.
func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.Generator = gen
	}
}

// WithRequestIDResponseHeader sets the response header name.
func WithRequestIDResponseHeader(header string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.ResponseHeader = header
	}
}

// RequestID returns middleware that assigns a unique ID to each dispatch.
// The ID is taken from request headers when an upstream proxy already
// assigned one, generated otherwise, stored as a request attribute for
// downstream middleware and handlers, and echoed on the response.
func RequestID(opts ...RequestIDOption) relay.Middleware {
	cfg := &RequestIDConfig{
		Generator:      uuid.NewString,
		ResponseHeader: "X-Request-ID",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	// Default extractor: the conventional tracing headers, in order.
	if !cfg.extractorSet {
		sources := make([]relay.ExtractorSource, 0, len(DefaultRequestIDHeaders))
		for _, header := range DefaultRequestIDHeaders {
			sources = append(sources, relay.FromHeader(header))
		}
		cfg.Extractor = relay.NewExtractor(sources...)
	}

	return func(next relay.Next) relay.Next {
		return func(r *relay.Request) (*relay.Response, error) {
			reqID, ok := cfg.Extractor.Extract(r)
			if !ok {
				reqID = cfg.Generator()
			}

			resp, err := next(r.WithAttribute(RequestIDAttr, reqID))
			if resp != nil && cfg.ResponseHeader != "" {
				resp.WithHeader(cfg.ResponseHeader, reqID)
			}
			return resp, err
		}
	}
}

// GetRequestID extracts the request ID assigned by RequestID.
// Returns an empty string if none is set.
func GetRequestID(r *relay.Request) string {
	return relay.AttributeValue[string](r, RequestIDAttr)
}

// requestIDKey is the context key RequestIDToContext stores the ID under.
type requestIDKey struct{}

// RequestIDToContext returns a context carrying the request's assigned ID,
// for handing to code that logs through context extractors.
func RequestIDToContext(ctx context.Context, r *relay.Request) context.Context {
	if id := GetRequestID(r); id != "" {
		return context.WithValue(ctx, requestIDKey{}, id)
	}
	return ctx
}

// RequestIDExtractor returns a ContextExtractor for use with pkg/logger.
// Automatically adds "request_id" to log entries whose context passed
// through RequestIDToContext.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(requestIDKey{}).(string); ok && v != "" {
			return slog.String("request_id", v), true
		}
		return slog.Attr{}, false
	}
}
