package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Response is the mutable response builder. Handlers and middleware shape it
// freely; nothing reaches the client until an emission helper writes it out.
// The body is a seekable stream, so emission can always replay it from the
// start no matter who read it before.
type Response struct {
	status int
	header http.Header
	body   io.ReadSeeker
}

// NewResponse returns an empty 200 response.
func NewResponse() *Response {
	return &Response{
		status: http.StatusOK,
		header: make(http.Header),
	}
}

// Output returns a 200 response carrying the given body.
func Output(body string) *Response {
	return NewResponse().WithBody(strings.NewReader(body))
}

// JSON returns a 200 response with the JSON encoding of v and the matching
// content type.
func JSON(v any) (*Response, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode json response: %w", err)
	}
	return NewResponse().
		WithHeader("Content-Type", "application/json; charset=utf-8").
		WithBody(bytes.NewReader(b)), nil
}

// ErrorResponse returns a response for the given status code. An optional
// message becomes the body; otherwise the body is the standard status text.
func ErrorResponse(code int, message ...string) *Response {
	body := http.StatusText(code)
	if len(message) > 0 {
		body = message[0]
	}
	return NewResponse().WithStatus(code).WithBody(strings.NewReader(body))
}

// Redirect returns a redirect response to the given URL, defaulting to
// 302 Found. Chain WithStatus to pick another redirect code.
func Redirect(url string) *Response {
	return NewResponse().
		WithStatus(http.StatusFound).
		WithHeader("Location", url)
}

// WithStatus sets the status code. It is validated at emission time, not
// here, so a pipeline can pass a half-built response around.
func (r *Response) WithStatus(code int) *Response {
	r.status = code
	return r
}

// WithHeader replaces the named header.
func (r *Response) WithHeader(name, value string) *Response {
	r.header.Set(name, value)
	return r
}

// AddHeader appends a value to the named header.
func (r *Response) AddHeader(name, value string) *Response {
	r.header.Add(name, value)
	return r
}

// WithBody replaces the body stream.
func (r *Response) WithBody(body io.ReadSeeker) *Response {
	r.body = body
	return r
}

// Status returns the current status code.
func (r *Response) Status() int {
	return r.status
}

// Header returns the live header map for inspection and mutation.
func (r *Response) Header() http.Header {
	return r.header
}

// Body returns the body stream, which may be nil.
func (r *Response) Body() io.ReadSeeker {
	return r.body
}

// BodyBytes rewinds the body and reads it fully. Mostly useful in tests and
// host adapters that need the rendered payload as a value.
func (r *Response) BodyBytes() ([]byte, error) {
	if r.body == nil {
		return nil, nil
	}
	if _, err := r.body.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind response body: %w", err)
	}
	return io.ReadAll(r.body)
}
