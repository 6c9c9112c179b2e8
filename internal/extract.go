package internal

import (
	"fmt"
	"strings"
)

// ExtractorSource reads one candidate value from a request.
// Returns the value and true if found, or ("", false) if not present.
type ExtractorSource = func(*Request) (string, bool)

// Extractor tries multiple sources in order and returns the first match.
// Middleware uses it to accept the same value from several request
// locations, header first and cookie last, without hand-rolling the
// fallback chain each time.
type Extractor struct {
	sources []ExtractorSource
}

// NewExtractor creates an Extractor that tries the given sources in order.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return Extractor{sources: sources}
}

// Extract iterates sources in order and returns the first non-empty value.
// Returns ("", false) if all sources miss.
func (e Extractor) Extract(r *Request) (string, bool) {
	for _, src := range e.sources {
		if v, ok := src(r); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// FromHeader returns a source that reads from a request header.
func FromHeader(name string) ExtractorSource {
	return func(r *Request) (string, bool) {
		v := r.Header(name)
		if v == "" {
			return "", false
		}
		return v, true
	}
}

// FromQuery returns a source that reads from a query parameter.
func FromQuery(name string) ExtractorSource {
	return func(r *Request) (string, bool) {
		v := r.Query(name)
		if v == "" {
			return "", false
		}
		return v, true
	}
}

// FromForm returns a source that reads from a body field.
func FromForm(name string) ExtractorSource {
	return func(r *Request) (string, bool) {
		v := r.Form(name)
		if v == "" {
			return "", false
		}
		return v, true
	}
}

// FromCookie returns a source that reads from a cookie.
func FromCookie(name string) ExtractorSource {
	return func(r *Request) (string, bool) {
		v, ok := r.Cookie(name)
		if !ok || v == "" {
			return "", false
		}
		return v, true
	}
}

// FromAttribute returns a source that reads from a request attribute.
// Tries string type assertion first, falls back to fmt.Sprint for
// non-string values.
func FromAttribute(name string) ExtractorSource {
	return func(r *Request) (string, bool) {
		val, ok := r.Attribute(name)
		if !ok || val == nil {
			return "", false
		}
		if s, ok := val.(string); ok {
			if s == "" {
				return "", false
			}
			return s, true
		}
		s := fmt.Sprint(val)
		if s == "" {
			return "", false
		}
		return s, true
	}
}

// FromBearerToken returns a source that reads a Bearer token from the
// Authorization header. Uses case-insensitive comparison on the "Bearer "
// prefix.
func FromBearerToken() ExtractorSource {
	return func(r *Request) (string, bool) {
		auth := r.Header("Authorization")
		if len(auth) < 7 || !strings.EqualFold(auth[:7], "bearer ") {
			return "", false
		}
		token := auth[7:]
		if token == "" {
			return "", false
		}
		return token, true
	}
}
