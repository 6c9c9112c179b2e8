package internal

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
)

// Kind splits failures into the two classes the kernel treats differently.
type Kind uint8

const (
	// KindDispatch marks failures raised while running one request.
	// They are caught by the dispatch bracket and turned into responses.
	KindDispatch Kind = iota
	// KindStartup marks configuration failures found while wiring the
	// kernel. They abort bootstrap and are never converted to responses.
	KindStartup
)

func (k Kind) String() string {
	switch k {
	case KindStartup:
		return "startup"
	default:
		return "dispatch"
	}
}

// Error is the failure value used across the kernel: a kind, a status code
// for dispatch errors, a user-facing message, and the wrapped cause. The
// message is what error responses show; the cause stays in logs.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Detail  string
	Err     error
}

// ErrorOption configures an Error.
type ErrorOption func(*Error)

// WithError attaches the underlying cause.
func WithError(err error) ErrorOption {
	return func(e *Error) {
		e.Err = err
	}
}

// WithDetail attaches operator-facing detail, shown on startup reports but
// never in dispatch responses.
func WithDetail(detail string) ErrorOption {
	return func(e *Error) {
		e.Detail = detail
	}
}

// NewDispatchError builds a request-scoped error carrying an HTTP status.
func NewDispatchError(code int, message string, opts ...ErrorOption) *Error {
	e := &Error{Kind: KindDispatch, Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewStartupError builds a bootstrap failure. The code is fixed at 500 for
// adapters that choose to render startup failures as a page.
func NewStartupError(message string, opts ...ErrorOption) *Error {
	e := &Error{Kind: KindStartup, Code: http.StatusInternalServerError, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Code > 0 {
		msg = http.StatusText(e.Code)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Convenience constructors for the dispatch errors handlers raise most.

func ErrBadRequest(message string, opts ...ErrorOption) *Error {
	return NewDispatchError(http.StatusBadRequest, message, opts...)
}

func ErrUnauthorized(message string, opts ...ErrorOption) *Error {
	return NewDispatchError(http.StatusUnauthorized, message, opts...)
}

func ErrForbidden(message string, opts ...ErrorOption) *Error {
	return NewDispatchError(http.StatusForbidden, message, opts...)
}

func ErrNotFound(message string, opts ...ErrorOption) *Error {
	return NewDispatchError(http.StatusNotFound, message, opts...)
}

func ErrMethodNotAllowed(message string, opts ...ErrorOption) *Error {
	return NewDispatchError(http.StatusMethodNotAllowed, message, opts...)
}

func ErrConflict(message string, opts ...ErrorOption) *Error {
	return NewDispatchError(http.StatusConflict, message, opts...)
}

func ErrUnprocessable(message string, opts ...ErrorOption) *Error {
	return NewDispatchError(http.StatusUnprocessableEntity, message, opts...)
}

func ErrTooManyRequests(message string, opts ...ErrorOption) *Error {
	return NewDispatchError(http.StatusTooManyRequests, message, opts...)
}

func ErrInternal(message string, opts ...ErrorOption) *Error {
	return NewDispatchError(http.StatusInternalServerError, message, opts...)
}

func ErrServiceUnavailable(message string, opts ...ErrorOption) *Error {
	return NewDispatchError(http.StatusServiceUnavailable, message, opts...)
}

// IsError reports whether err is or wraps an *Error.
func IsError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// AsError unwraps err to an *Error, or nil when there is none.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// KindOf classifies any error: wrapped *Error values keep their kind,
// everything else raised during a dispatch counts as a dispatch failure.
func KindOf(err error) Kind {
	if e := AsError(err); e != nil {
		return e.Kind
	}
	return KindDispatch
}

// CodeOf returns the HTTP status for any error, falling back to 500 for
// plain errors and zero-code values.
func CodeOf(err error) int {
	if e := AsError(err); e != nil && e.Code != 0 {
		return e.Code
	}
	return http.StatusInternalServerError
}

// ErrorHandler converts dispatch failures into responses. Register and
// Unregister bracket every dispatch, so a handler that installs itself
// into host-global error hooks can keep its installation scoped to the
// pipeline run.
type ErrorHandler interface {
	Register()
	Unregister()
	Response(r *Request, err error) *Response
}

// DispatchErrorHandler is the default ErrorHandler. It logs the failure
// with its cause and answers with the error's status and message, leaking
// nothing but the user-facing text.
type DispatchErrorHandler struct {
	log *slog.Logger

	mu     sync.Mutex
	active bool
}

// NewDispatchErrorHandler builds the default handler logging through log.
func NewDispatchErrorHandler(log *slog.Logger) *DispatchErrorHandler {
	return &DispatchErrorHandler{log: log}
}

// Register marks the handler active for the duration of a dispatch.
func (h *DispatchErrorHandler) Register() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.active = true
}

// Unregister ends the active bracket.
func (h *DispatchErrorHandler) Unregister() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.active = false
}

// Active reports whether the handler is inside a dispatch bracket.
func (h *DispatchErrorHandler) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

// Response renders err as an error response.
func (h *DispatchErrorHandler) Response(r *Request, err error) *Response {
	code := CodeOf(err)
	message := http.StatusText(code)
	if e := AsError(err); e != nil && e.Message != "" {
		message = e.Message
	}

	h.log.Error("request failed",
		slog.String("method", r.Method()),
		slog.String("path", r.Path()),
		slog.Int("status", code),
		slog.String("error", err.Error()),
	)
	return ErrorResponse(code, message)
}
