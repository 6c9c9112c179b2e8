package internal

import (
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"strings"
)

// FileHeader describes one uploaded file. Only metadata crosses the
// boundary; file content stays with the host transport.
type FileHeader struct {
	Field       string
	Name        string
	ContentType string
	Size        int64
}

// Request is the immutable value object built once per host event and
// threaded through the whole pipeline. Derivation methods (WithAttribute,
// WithPath) return a new Request and leave the receiver untouched, so
// middleware can safely fan out over the same request.
type Request struct {
	method  string
	path    string
	header  http.Header
	query   url.Values
	form    url.Values
	files   []FileHeader
	cookies map[string]string
	attrs   map[string]any
}

// RequestOption configures a Request at construction time.
type RequestOption func(*Request)

// WithHeader adds a header value.
func WithHeader(name, value string) RequestOption {
	return func(r *Request) {
		r.header.Add(name, value)
	}
}

// WithQuery adds a query parameter.
func WithQuery(name, value string) RequestOption {
	return func(r *Request) {
		r.query.Add(name, value)
	}
}

// WithForm adds a body/form parameter.
func WithForm(name, value string) RequestOption {
	return func(r *Request) {
		r.form.Add(name, value)
	}
}

// WithCookie adds a cookie.
func WithCookie(name, value string) RequestOption {
	return func(r *Request) {
		r.cookies[name] = value
	}
}

// WithFile adds uploaded-file metadata.
func WithFile(fh FileHeader) RequestOption {
	return func(r *Request) {
		r.files = append(r.files, fh)
	}
}

// WithAttr sets a named attribute at construction time.
func WithAttr(name string, value any) RequestOption {
	return func(r *Request) {
		r.attrs[name] = value
	}
}

// NewRequest builds a synthetic Request for tests and adapters. The target
// is a path with an optional query string. Like httptest.NewRequest, it
// panics on a target it cannot parse, so misuse fails loudly at the call
// site rather than deep inside a dispatch.
func NewRequest(method, target string, opts ...RequestOption) *Request {
	u, err := url.Parse(target)
	if err != nil {
		panic(fmt.Sprintf("relay: cannot parse request target %q: %v", target, err))
	}

	r := &Request{
		method:  method,
		path:    normalizePath(u.Path),
		header:  make(http.Header),
		query:   u.Query(),
		form:    make(url.Values),
		cookies: make(map[string]string),
		attrs:   make(map[string]any),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FromHTTP derives a Request from a host-transport request. Form and
// multipart bodies are parsed here so the core never touches transport I/O;
// for multipart bodies only file metadata is retained.
func FromHTTP(hr *http.Request) (*Request, error) {
	r := &Request{
		method:  hr.Method,
		path:    normalizePath(hr.URL.Path),
		header:  hr.Header.Clone(),
		query:   hr.URL.Query(),
		form:    make(url.Values),
		cookies: make(map[string]string),
		attrs:   make(map[string]any),
	}

	ct := hr.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(ct, "multipart/form-data"):
		if err := hr.ParseMultipartForm(32 << 20); err != nil {
			return nil, fmt.Errorf("parse multipart form: %w", err)
		}
		r.form = hr.PostForm
		for field, headers := range hr.MultipartForm.File {
			for _, fh := range headers {
				r.files = append(r.files, FileHeader{
					Field:       field,
					Name:        fh.Filename,
					ContentType: fh.Header.Get("Content-Type"),
					Size:        fh.Size,
				})
			}
		}
	case strings.HasPrefix(ct, "application/x-www-form-urlencoded"):
		if err := hr.ParseForm(); err != nil {
			return nil, fmt.Errorf("parse form: %w", err)
		}
		r.form = hr.PostForm
	}

	for _, c := range hr.Cookies() {
		r.cookies[c.Name] = c.Value
	}
	return r, nil
}

// normalizePath strips the trailing slash hosts love to append, so route
// patterns match "/contact" and "/contact/" alike. The root path stays "/".
func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			return "/"
		}
	}
	return p
}

// Method returns the HTTP method.
func (r *Request) Method() string {
	return r.method
}

// Path returns the normalized request path.
func (r *Request) Path() string {
	return r.path
}

// Header returns the first value for the named header.
func (r *Request) Header(name string) string {
	return r.header.Get(name)
}

// Headers returns a copy of all headers.
func (r *Request) Headers() http.Header {
	return r.header.Clone()
}

// Query returns the first value for the named query parameter.
func (r *Request) Query(name string) string {
	return r.query.Get(name)
}

// QueryValues returns a copy of all query parameters.
func (r *Request) QueryValues() url.Values {
	return cloneValues(r.query)
}

// Form returns the first value for the named body parameter.
func (r *Request) Form(name string) string {
	return r.form.Get(name)
}

// FormValues returns a copy of all body parameters.
func (r *Request) FormValues() url.Values {
	return cloneValues(r.form)
}

// Input returns the named parameter from the body, falling back to the
// query string. This is the lookup hosts use for action fields that may
// arrive either way.
func (r *Request) Input(name string) string {
	if v := r.form.Get(name); v != "" {
		return v
	}
	return r.query.Get(name)
}

// Cookie returns the named cookie value.
func (r *Request) Cookie(name string) (string, bool) {
	v, ok := r.cookies[name]
	return v, ok
}

// Files returns a copy of the uploaded-file metadata.
func (r *Request) Files() []FileHeader {
	out := make([]FileHeader, len(r.files))
	copy(out, r.files)
	return out
}

// Attribute returns the named attribute.
func (r *Request) Attribute(name string) (any, bool) {
	v, ok := r.attrs[name]
	return v, ok
}

// Attributes returns a copy of all attributes.
func (r *Request) Attributes() map[string]any {
	out := make(map[string]any, len(r.attrs))
	maps.Copy(out, r.attrs)
	return out
}

// WithAttribute returns a new Request with one attribute replaced. The
// receiver is unaffected; all other fields are shared structurally.
func (r *Request) WithAttribute(name string, value any) *Request {
	clone := *r
	attrs := make(map[string]any, len(r.attrs)+1)
	maps.Copy(attrs, r.attrs)
	attrs[name] = value
	clone.attrs = attrs
	return &clone
}

// WithPath returns a new Request pointed at a different dispatch path.
// The kernel uses this to re-route host events (ajax actions, admin pages)
// onto their internal paths without touching the original request.
func (r *Request) WithPath(path string) *Request {
	clone := *r
	clone.path = normalizePath(path)
	return &clone
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vv := range v {
		out[k] = append([]string(nil), vv...)
	}
	return out
}
