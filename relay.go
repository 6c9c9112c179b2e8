package relay

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/hostkit/relay/internal"
	"github.com/hostkit/relay/pkg/logger"
)

// Type aliases - public API
type (
	// Kernel resolves host lifecycle events into routed dispatches.
	Kernel = internal.Kernel

	// Router holds routes in registration order, resolved by first match.
	Router = internal.Router

	// Route pairs a pattern with a handler and middleware entries.
	Route = internal.Route

	// Request is the immutable request value threaded through a dispatch.
	Request = internal.Request

	// RequestOption configures a Request at construction time.
	RequestOption = internal.RequestOption

	// FileHeader describes one uploaded file.
	FileHeader = internal.FileHeader

	// Response is the mutable response builder.
	Response = internal.Response

	// HandlerFunc is the terminal handler signature.
	HandlerFunc = internal.HandlerFunc

	// Next continues a middleware chain.
	Next = internal.Next

	// Middleware wraps the next step of a chain.
	Middleware = internal.Middleware

	// Pipeline runs a request through middleware into a handler.
	Pipeline = internal.Pipeline

	// Registry maps middleware names to constructors and groups.
	Registry = internal.Registry

	// Constructor builds a middleware from bound string arguments.
	Constructor = internal.Constructor

	// Entry describes one middleware use site.
	Entry = internal.Entry

	// RegisterOption configures a middleware registration.
	RegisterOption = internal.RegisterOption

	// Arg is one extracted path parameter.
	Arg = internal.Arg

	// Args holds extracted parameters in declaration order.
	Args = internal.Args

	// Matcher is a custom route path matcher.
	Matcher = internal.Matcher

	// QueryFilter rewrites host query variables for a matched render.
	QueryFilter = internal.QueryFilter

	// Cycle is the per-dispatch context with the response slot.
	Cycle = internal.Cycle

	// CycleState names the stations a dispatch passes through.
	CycleState = internal.CycleState

	// Lifecycle is the contract host adapters drive the kernel through.
	Lifecycle = internal.Lifecycle

	// RenderEvent is the host's page-render trigger.
	RenderEvent = internal.RenderEvent

	// RenderDecision is the outcome of a render dispatch.
	RenderDecision = internal.RenderDecision

	// AjaxEvent is the host's ajax trigger.
	AjaxEvent = internal.AjaxEvent

	// AdminEvent is the host's two-phase admin-page trigger.
	AdminEvent = internal.AdminEvent

	// Extractor tries request value sources in order, first match wins.
	Extractor = internal.Extractor

	// ExtractorSource reads one candidate value from a request.
	ExtractorSource = internal.ExtractorSource

	// Error is the tagged failure value used across the kernel.
	Error = internal.Error

	// ErrorOption configures an Error.
	ErrorOption = internal.ErrorOption

	// Kind classifies an Error as startup or dispatch.
	Kind = internal.Kind

	// ErrorHandler converts dispatch failures into responses.
	ErrorHandler = internal.ErrorHandler

	// Option configures the Kernel.
	Option = internal.Option

	// ContextExtractor extracts a slog attribute from context.
	// Used with pkg/logger handlers to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor
)

// Cycle states, in dispatch order.
const (
	StateIdle               = internal.StateIdle
	StateRouteResolved      = internal.StateRouteResolved
	StateRouteAbsent        = internal.StateRouteAbsent
	StateMiddlewareExpanded = internal.StateMiddlewareExpanded
	StatePipelineExecuting  = internal.StatePipelineExecuting
	StateResponseReady      = internal.StateResponseReady
	StateErrorCaught        = internal.StateErrorCaught
	StateEmitted            = internal.StateEmitted
)

// Error kinds.
const (
	KindDispatch = internal.KindDispatch
	KindStartup  = internal.KindStartup
)

// DefaultPriority is the middleware priority used when none is declared.
const DefaultPriority = internal.DefaultPriority

// Emission errors for checking return values.
var (
	ErrNoResponse     = internal.ErrNoResponse
	ErrAlreadyEmitted = internal.ErrAlreadyEmitted
	ErrInvalidStatus  = internal.ErrInvalidStatus
)

// Constructors

// New creates a kernel around the given router. Every wiring problem -
// malformed patterns, unknown middleware references, failing constructors -
// comes back here as a startup-kind error before the first dispatch.
//
// Example:
//
//	router := relay.NewRouter()
//	router.Get("/posts/{id:[0-9]+}", showPost, relay.Use("auth"))
//
//	kernel, err := relay.New(router,
//	    relay.WithRegistry(registry),
//	    relay.WithMiddleware(relay.Use("request_id")),
//	    relay.WithLogger(log),
//	)
func New(router *Router, opts ...Option) (*Kernel, error) {
	return internal.NewKernel(router, opts...)
}

// NewRouter creates an empty route table.
func NewRouter() *Router {
	return internal.NewRouter()
}

// NewRegistry creates an empty middleware registry.
func NewRegistry() *Registry {
	return internal.NewRegistry()
}

// NewPipeline creates an empty middleware pipeline. The kernel builds one
// per dispatch; direct use is mostly for tests and custom dispatchers.
func NewPipeline() *Pipeline {
	return internal.NewPipeline()
}

// Kernel options

// WithLogger sets the logger for dispatch tracing and error reports.
func WithLogger(log *slog.Logger) Option {
	return internal.WithLogger(log)
}

// WithRegistry sets the registry middleware references resolve through.
func WithRegistry(reg *Registry) Option {
	return internal.WithRegistry(reg)
}

// WithMiddleware appends kernel-level middleware entries, run on every
// dispatch ahead of the matched route's own entries.
func WithMiddleware(entries ...Entry) Option {
	return internal.WithMiddleware(entries...)
}

// WithErrorHandler replaces the default dispatch error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithGlobal seeds a shared value before the first dispatch.
func WithGlobal(name string, value any) Option {
	return internal.WithGlobal(name, value)
}

// Middleware entries

// Use references a registered middleware or group by name, with optional
// constructor arguments bound at the use site.
//
// Example:
//
//	router.Get("/admin", dashboard, relay.Use("role", "admin"))
func Use(name string, args ...string) Entry {
	return internal.Use(name, args...)
}

// UseFunc wraps a middleware function as an inline entry.
func UseFunc(m Middleware) Entry {
	return internal.UseFunc(m)
}

// WithPriority sets the chain priority of a middleware registration.
// Lower runs earlier; the default is DefaultPriority.
func WithPriority(p int) RegisterOption {
	return internal.WithPriority(p)
}

// Requests

// NewRequest builds a synthetic request for tests and adapters. The target
// is a path with an optional query string; it panics on targets it cannot
// parse, like httptest.NewRequest.
func NewRequest(method, target string, opts ...RequestOption) *Request {
	return internal.NewRequest(method, target, opts...)
}

// FromHTTP derives a Request from a transport request, parsing form and
// multipart bodies and keeping only file metadata.
func FromHTTP(hr *http.Request) (*Request, error) {
	return internal.FromHTTP(hr)
}

// Request construction options.

// WithHeader adds a header value.
func WithHeader(name, value string) RequestOption {
	return internal.WithHeader(name, value)
}

// WithQuery adds a query parameter.
func WithQuery(name, value string) RequestOption {
	return internal.WithQuery(name, value)
}

// WithForm adds a body parameter.
func WithForm(name, value string) RequestOption {
	return internal.WithForm(name, value)
}

// WithCookie adds a cookie.
func WithCookie(name, value string) RequestOption {
	return internal.WithCookie(name, value)
}

// WithFile adds uploaded-file metadata.
func WithFile(fh FileHeader) RequestOption {
	return internal.WithFile(fh)
}

// WithAttr sets a named attribute.
func WithAttr(name string, value any) RequestOption {
	return internal.WithAttr(name, value)
}

// Responses

// NewResponse returns an empty 200 response.
func NewResponse() *Response {
	return internal.NewResponse()
}

// Output returns a 200 response carrying the given body.
func Output(body string) *Response {
	return internal.Output(body)
}

// JSON returns a 200 response with the JSON encoding of v.
func JSON(v any) (*Response, error) {
	return internal.JSON(v)
}

// ErrorResponse returns a response for the given status code, with an
// optional message as the body.
func ErrorResponse(code int, message ...string) *Response {
	return internal.ErrorResponse(code, message...)
}

// Redirect returns a 302 redirect to the given URL. Chain WithStatus to
// pick another redirect code.
func Redirect(url string) *Response {
	return internal.Redirect(url)
}

// Value extraction

// NewExtractor creates an Extractor that tries the given sources in order.
//
// Example:
//
//	tokenSource := relay.NewExtractor(
//	    relay.FromBearerToken(),
//	    relay.FromCookie("token"),
//	)
func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

// FromHeader reads a candidate value from a request header.
func FromHeader(name string) ExtractorSource {
	return internal.FromHeader(name)
}

// FromQuery reads a candidate value from a query parameter.
func FromQuery(name string) ExtractorSource {
	return internal.FromQuery(name)
}

// FromForm reads a candidate value from a body field.
func FromForm(name string) ExtractorSource {
	return internal.FromForm(name)
}

// FromCookie reads a candidate value from a cookie.
func FromCookie(name string) ExtractorSource {
	return internal.FromCookie(name)
}

// FromAttribute reads a candidate value from a request attribute.
func FromAttribute(name string) ExtractorSource {
	return internal.FromAttribute(name)
}

// FromBearerToken reads a Bearer token from the Authorization header.
func FromBearerToken() ExtractorSource {
	return internal.FromBearerToken()
}

// Emission

// Respond writes the whole response to w: headers first, then the body.
func Respond(w http.ResponseWriter, resp *Response) error {
	return internal.Respond(w, resp)
}

// SendHeaders validates the status and commits headers without the body,
// for hosts whose load stage forbids body output.
func SendHeaders(w http.ResponseWriter, resp *Response) error {
	return internal.SendHeaders(w, resp)
}

// SendBody rewinds and streams the response body to w.
func SendBody(w io.Writer, resp *Response) error {
	return internal.SendBody(w, resp)
}

// Trigger naming

// AjaxPath returns the internal route path for an ajax action name.
func AjaxPath(action string) string {
	return internal.AjaxPath(action)
}

// AdminPath returns the internal route path for an admin page name.
func AdminPath(page string) string {
	return internal.AdminPath(page)
}

// AjaxHook builds the sanitized host hook name for an ajax action.
func AjaxHook(action string) string {
	return internal.AjaxHook(action)
}

// AdminHook builds the sanitized host hook name for an admin page.
func AdminHook(page string) string {
	return internal.AdminHook(page)
}

// Errors

// NewDispatchError builds a request-scoped error with an HTTP status.
func NewDispatchError(code int, message string, opts ...ErrorOption) *Error {
	return internal.NewDispatchError(code, message, opts...)
}

// NewStartupError builds a bootstrap failure.
func NewStartupError(message string, opts ...ErrorOption) *Error {
	return internal.NewStartupError(message, opts...)
}

// WithError attaches the underlying cause to an Error.
func WithError(err error) ErrorOption {
	return internal.WithError(err)
}

// WithDetail attaches operator-facing detail to an Error.
func WithDetail(detail string) ErrorOption {
	return internal.WithDetail(detail)
}

// Dispatch error constructors.

func ErrBadRequest(message string, opts ...ErrorOption) *Error {
	return internal.ErrBadRequest(message, opts...)
}

func ErrUnauthorized(message string, opts ...ErrorOption) *Error {
	return internal.ErrUnauthorized(message, opts...)
}

func ErrForbidden(message string, opts ...ErrorOption) *Error {
	return internal.ErrForbidden(message, opts...)
}

func ErrNotFound(message string, opts ...ErrorOption) *Error {
	return internal.ErrNotFound(message, opts...)
}

func ErrMethodNotAllowed(message string, opts ...ErrorOption) *Error {
	return internal.ErrMethodNotAllowed(message, opts...)
}

func ErrConflict(message string, opts ...ErrorOption) *Error {
	return internal.ErrConflict(message, opts...)
}

func ErrUnprocessable(message string, opts ...ErrorOption) *Error {
	return internal.ErrUnprocessable(message, opts...)
}

func ErrTooManyRequests(message string, opts ...ErrorOption) *Error {
	return internal.ErrTooManyRequests(message, opts...)
}

func ErrInternal(message string, opts ...ErrorOption) *Error {
	return internal.ErrInternal(message, opts...)
}

func ErrServiceUnavailable(message string, opts ...ErrorOption) *Error {
	return internal.ErrServiceUnavailable(message, opts...)
}

// Error classification helpers.

// IsError reports whether err is or wraps a relay Error.
func IsError(err error) bool {
	return internal.IsError(err)
}

// AsError unwraps err to a relay Error, or nil when there is none.
func AsError(err error) *Error {
	return internal.AsError(err)
}

// KindOf classifies any error; plain errors count as dispatch failures.
func KindOf(err error) Kind {
	return internal.KindOf(err)
}

// CodeOf returns the HTTP status for any error, defaulting to 500.
func CodeOf(err error) int {
	return internal.CodeOf(err)
}

// NewDispatchErrorHandler builds the default error handler, which logs
// failures and renders their status and message.
func NewDispatchErrorHandler(log *slog.Logger) ErrorHandler {
	return internal.NewDispatchErrorHandler(log)
}

// Binding helpers

// Param retrieves a typed route parameter.
// Returns the zero value of T if the parameter is absent or does not parse.
//
// Example:
//
//	id := relay.Param[int](args, "id")
func Param[T ~string | ~int | ~int64 | ~float64 | ~bool](args Args, name string) T {
	return internal.Param[T](args, name)
}

// ParamDefault retrieves a typed route parameter with a default value.
func ParamDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](args Args, name string, defaultValue T) T {
	return internal.ParamDefault[T](args, name, defaultValue)
}

// QueryValue retrieves a typed query parameter from the request.
func QueryValue[T ~string | ~int | ~int64 | ~float64 | ~bool](r *Request, name string) T {
	return internal.QueryValue[T](r, name)
}

// QueryDefault retrieves a typed query parameter with a default value.
func QueryDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](r *Request, name string, defaultValue T) T {
	return internal.QueryDefault[T](r, name, defaultValue)
}

// AttributeValue retrieves a typed request attribute.
// Returns the zero value of T if the attribute is absent or holds a
// different type.
//
// Example:
//
//	account := relay.AttributeValue[*Account](r, "account")
func AttributeValue[T any](r *Request, name string) T {
	return internal.AttributeValue[T](r, name)
}
