package devhost

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hostkit/relay"
	"github.com/hostkit/relay/pkg/health"
	"github.com/hostkit/relay/pkg/logger"
	"github.com/hostkit/relay/pkg/sanitize"
)

// DefaultTemplate is the template name reported for unclaimed renders when
// none is configured.
const DefaultTemplate = "index.html"

// Host drives a kernel through its lifecycle the way the host platform's
// front controller would. Host is immutable after creation.
type Host struct {
	kernel   *relay.Kernel
	log      *slog.Logger
	template string
	checks   health.Checks
	mux      chi.Router
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithLogger sets the logger for host-level events.
func WithLogger(log *slog.Logger) HostOption {
	return func(h *Host) {
		if log != nil {
			h.log = log
		}
	}
}

// WithTemplate sets the template name handed to render dispatches and
// reported on fallthrough pages.
func WithTemplate(name string) HostOption {
	return func(h *Host) {
		if name != "" {
			h.template = name
		}
	}
}

// WithReadinessCheck adds a named readiness check, reported on
// /health/ready.
func WithReadinessCheck(name string, fn health.CheckFunc) HostOption {
	return func(h *Host) {
		if h.checks == nil {
			h.checks = make(health.Checks)
		}
		h.checks[name] = fn
	}
}

// NewHost builds a dev host around the given kernel. The kernel must be
// non-nil; build failures belong on a StartupErrorPage instead.
func NewHost(kernel *relay.Kernel, opts ...HostOption) *Host {
	h := &Host{
		kernel:   kernel,
		log:      logger.NewNope(),
		template: DefaultTemplate,
	}

	for _, opt := range opts {
		opt(h)
	}

	h.mux = h.buildMux()
	return h
}

// Handler returns the host's HTTP handler, for mounting under httptest or
// another server.
func (h *Host) Handler() http.Handler {
	return h.mux
}

func (h *Host) buildMux() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/health/live", health.LivenessHandler())
	r.Get("/health/ready", health.ReadinessHandler(h.checks, health.WithLogger(h.log)))

	r.HandleFunc("/ajax", h.handleAjax)
	r.HandleFunc("/admin/{page}", h.handleAdmin)
	r.NotFound(h.handleRender)

	return r
}

// handleRender maps the front-controller path onto OnRender. Claimed
// requests emit the cycle's response; everything else falls through to a
// stub page the way the host platform would fall through to its theme.
func (h *Host) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := relay.FromHTTP(r)
	if err != nil {
		http.Error(w, "malformed request", http.StatusBadRequest)
		return
	}

	decision, err := h.kernel.OnRender(relay.RenderEvent{
		Request:   req,
		QueryVars: r.URL.Query(),
		Template:  h.template,
	})
	if err != nil {
		h.log.Error("render dispatch failed", slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if !decision.Claimed() {
		h.serveFallthrough(w, r, decision)
		return
	}

	if err := h.kernel.Emit(w, decision.Cycle); err != nil {
		h.log.Error("emit failed", slog.String("error", err.Error()))
	}
}

// handleAjax maps POSTs (and GETs) on /ajax onto OnAjax. The kernel emits
// the response itself; the host only translates failures.
func (h *Host) handleAjax(w http.ResponseWriter, r *http.Request) {
	req, err := relay.FromHTTP(r)
	if err != nil {
		http.Error(w, "malformed request", http.StatusBadRequest)
		return
	}

	c, err := h.kernel.OnAjax(relay.AjaxEvent{Request: req, Writer: w})
	if err != nil {
		h.log.Error("ajax dispatch failed", slog.String("error", err.Error()))
		http.Error(w, err.Error(), relay.CodeOf(err))
		return
	}
	if c == nil {
		http.Error(w, "unknown action", http.StatusBadRequest)
	}
}

// handleAdmin runs the host's two-phase admin flow back to back: headers at
// the load stage, body at the render stage, one writer for both.
func (h *Host) handleAdmin(w http.ResponseWriter, r *http.Request) {
	page := chi.URLParam(r, "page")

	req, err := relay.FromHTTP(r)
	if err != nil {
		http.Error(w, "malformed request", http.StatusBadRequest)
		return
	}

	ev := relay.AdminEvent{Page: page, Request: req, Writer: w}
	c, err := h.kernel.OnAdminLoad(ev)
	if err != nil {
		h.log.Error("admin load failed", slog.String("error", err.Error()))
		http.Error(w, err.Error(), relay.CodeOf(err))
		return
	}
	if c == nil {
		http.Error(w, "unknown page", http.StatusNotFound)
		return
	}

	if err := h.kernel.OnAdminRender(ev, c); err != nil {
		h.log.Error("admin render failed", slog.String("error", err.Error()))
	}
}

// serveFallthrough answers an unclaimed render the way the host platform's
// theme layer would, naming the template it picked.
func (h *Host) serveFallthrough(w http.ResponseWriter, r *http.Request, decision *relay.RenderDecision) {
	h.log.Debug("render fell through",
		slog.String("path", r.URL.Path),
		slog.String("template", decision.Template),
	)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, fallthroughPage, sanitize.Text(decision.Template), sanitize.Text(r.URL.Path))
}

const fallthroughPage = `<!doctype html>
<html>
<head><title>dev host</title></head>
<body>
<h1>Host template: %s</h1>
<p>No route claimed <code>%s</code>; the host platform would render its own content here.</p>
</body>
</html>
`

// StartupErrorPage returns a handler that reports a kernel build failure on
// every request. Serve it when relay.New fails so the failure is visible in
// the browser instead of a dead port.
func StartupErrorPage(err error) http.Handler {
	message := sanitize.Text(err.Error())
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, startupErrorPage, message)
	})
}

const startupErrorPage = `<!doctype html>
<html>
<head><title>startup error</title></head>
<body>
<h1>Kernel failed to start</h1>
<pre>%s</pre>
</body>
</html>
`

// RequestIDExtractor returns a ContextExtractor that pulls the chi request
// ID assigned by the host into log entries as "request_id".
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := chimw.GetReqID(ctx); id != "" {
			return slog.String("request_id", id), true
		}
		return slog.Attr{}, false
	}
}
