package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/hostkit/relay/pkg/logger"
	"github.com/hostkit/relay/pkg/sanitize"
)

// Internal dispatch paths for host triggers that are not addressed by URL.
// Ajax actions and admin pages are re-routed onto these prefixes so one
// router serves every trigger kind.
const (
	AjaxPathPrefix  = "/@ajax/"
	AdminPathPrefix = "/@admin/"
)

// AjaxPath returns the internal route path for an ajax action. The action
// name is sanitized the same way hook names are, so a route registered via
// AjaxPath always lines up with the hook built by AjaxHook.
func AjaxPath(action string) string {
	return AjaxPathPrefix + sanitize.ActionName(action)
}

// AdminPath returns the internal route path for an admin page.
func AdminPath(page string) string {
	return AdminPathPrefix + sanitize.ActionName(page)
}

// AjaxHook builds the host hook name for an ajax action. The action passes
// through ActionName first; hook names are assembled only from the safe
// character set no matter what the caller hands in.
func AjaxHook(action string) string {
	return "ajax_" + sanitize.ActionName(action)
}

// AdminHook builds the host hook name for an admin page.
func AdminHook(page string) string {
	return "admin_page_" + sanitize.ActionName(page)
}

// Kernel turns host lifecycle events into routed dispatches. It owns the
// router, the middleware registry and the error handler, and implements
// Lifecycle for host adapters to drive.
//
// Construction validates everything that can be validated up front: route
// patterns, middleware references, group expansion. A kernel that
// constructs without error does not fail on reference resolution at
// dispatch time.
type Kernel struct {
	router   *Router
	registry *Registry
	errs     ErrorHandler
	log      *slog.Logger
	entries  []Entry

	globalsMu sync.RWMutex
	globals   map[string]any
}

// NewKernel wires a kernel around the given router. All wiring failures
// come back as startup-kind errors; nothing is deferred to dispatch.
func NewKernel(router *Router, opts ...Option) (*Kernel, error) {
	if router == nil {
		return nil, NewStartupError("kernel requires a router")
	}

	k := &Kernel{
		router:  router,
		globals: make(map[string]any),
	}
	for _, opt := range opts {
		opt(k)
	}
	if k.log == nil {
		k.log = logger.NewNope()
	}
	if k.registry == nil {
		k.registry = NewRegistry()
	}
	if k.errs == nil {
		k.errs = NewDispatchErrorHandler(k.log)
	}

	if err := router.Err(); err != nil {
		return nil, NewStartupError("invalid route registration", WithError(err))
	}
	for _, route := range router.Routes() {
		entries := append(slices.Clone(k.entries), route.Middleware()...)
		if _, err := k.registry.Expand(entries); err != nil {
			return nil, NewStartupError("invalid middleware reference",
				WithDetail("route "+route.Name()), WithError(err))
		}
	}
	return k, nil
}

// Router returns the router the kernel dispatches through.
func (k *Kernel) Router() *Router {
	return k.router
}

// SetGlobal stores a value shared by every dispatch, typically host state
// computed at plugin activation.
func (k *Kernel) SetGlobal(name string, value any) {
	k.globalsMu.Lock()
	defer k.globalsMu.Unlock()
	k.globals[name] = value
}

// Global returns a shared value by name.
func (k *Kernel) Global(name string) (any, bool) {
	k.globalsMu.RLock()
	defer k.globalsMu.RUnlock()
	v, ok := k.globals[name]
	return v, ok
}

// Globals returns a copy of all shared values.
func (k *Kernel) Globals() map[string]any {
	k.globalsMu.RLock()
	defer k.globalsMu.RUnlock()
	out := make(map[string]any, len(k.globals))
	maps.Copy(out, k.globals)
	return out
}

// AjaxActions lists the ajax action names the router serves, in
// registration order. Hosts use it to hang one hook per action.
func (k *Kernel) AjaxActions() []string {
	return k.triggerNames(AjaxPathPrefix)
}

// AdminPages lists the admin page names the router serves.
func (k *Kernel) AdminPages() []string {
	return k.triggerNames(AdminPathPrefix)
}

func (k *Kernel) triggerNames(prefix string) []string {
	var (
		names []string
		seen  = make(map[string]bool)
	)
	for _, route := range k.router.Routes() {
		rest, ok := strings.CutPrefix(route.Pattern(), prefix)
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(rest, "/")
		if name == "" || strings.ContainsAny(name, "{}") || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// OnRender resolves a page render against the router. An unclaimed request
// passes the host's query vars and template through untouched; a claimed
// one may rewrite the query vars and carries the cycle whose response the
// adapter emits at the host's output stage.
func (k *Kernel) OnRender(ev RenderEvent) (*RenderDecision, error) {
	if ev.Request == nil {
		return nil, errors.New("render event carries no request")
	}

	decision := &RenderDecision{QueryVars: ev.QueryVars, Template: ev.Template}
	c, err := k.dispatch(ev.Request)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return decision, nil
	}

	decision.QueryVars = c.Route().ApplyQueryFilter(c.Request(), ev.QueryVars)
	decision.Cycle = c
	return decision, nil
}

// OnAjax resolves an ajax action and emits the whole response on the event
// writer within this call. The action name is read from the request's
// "action" field, body first then query, and sanitized before it touches
// any dispatch path.
func (k *Kernel) OnAjax(ev AjaxEvent) (*Cycle, error) {
	if ev.Request == nil {
		return nil, errors.New("ajax event carries no request")
	}
	if ev.Writer == nil {
		return nil, errors.New("ajax event carries no writer")
	}

	action := sanitize.ActionName(ev.Request.Input("action"))
	if action == "" {
		return nil, ErrBadRequest("missing ajax action")
	}

	c, err := k.dispatch(ev.Request.WithPath(AjaxPathPrefix + action))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	if err := k.Emit(ev.Writer, c); err != nil {
		return c, err
	}
	return c, nil
}

// OnAdminLoad resolves an admin page and sends only the response headers,
// which is all the host permits at its load stage. The body stays pending
// on the returned cycle.
func (k *Kernel) OnAdminLoad(ev AdminEvent) (*Cycle, error) {
	if ev.Request == nil {
		return nil, errors.New("admin event carries no request")
	}
	if ev.Writer == nil {
		return nil, errors.New("admin event carries no writer")
	}

	page := sanitize.ActionName(ev.Page)
	if page == "" {
		return nil, ErrBadRequest("missing admin page")
	}

	c, err := k.dispatch(ev.Request.WithPath(AdminPathPrefix + page))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, nil
	}
	if err := SendHeaders(ev.Writer, c.Response()); err != nil {
		return c, err
	}
	return c, nil
}

// OnAdminRender emits the pending body for a cycle started by OnAdminLoad.
func (k *Kernel) OnAdminRender(ev AdminEvent, c *Cycle) error {
	if c == nil {
		return nil
	}
	if ev.Writer == nil {
		return errors.New("admin event carries no writer")
	}

	resp, err := c.Take()
	if err != nil {
		return err
	}
	if err := SendBody(ev.Writer, resp); err != nil {
		return err
	}
	c.setState(StateEmitted)
	return nil
}

// Emit writes the cycle's pending response to w. The response slot empties
// on the first call; a second Emit for the same cycle fails with
// ErrAlreadyEmitted rather than double-sending.
func (k *Kernel) Emit(w http.ResponseWriter, c *Cycle) error {
	if c == nil {
		return errors.New("emit: nil cycle")
	}
	resp, err := c.Take()
	if err != nil {
		return err
	}
	if err := Respond(w, resp); err != nil {
		return err
	}
	c.setState(StateEmitted)
	k.log.Debug("response emitted",
		slog.String("cycle_id", c.ID()),
		slog.Int("status", resp.Status()),
	)
	return nil
}

// dispatch runs one request through resolution, expansion and the
// bracketed pipeline. A nil cycle with a nil error means no route claimed
// the request. Errors are failures of the machinery around the pipeline;
// handler and middleware failures become error responses on the cycle.
func (k *Kernel) dispatch(req *Request) (*Cycle, error) {
	c := newCycle(req)
	log := k.log.With(
		slog.String("cycle_id", c.ID()),
		slog.String("method", req.Method()),
		slog.String("path", req.Path()),
	)

	route := k.router.Execute(req)
	if route == nil {
		c.setState(StateRouteAbsent)
		log.Debug("no route matched, deferring to host")
		return nil, nil
	}
	c.resolved(route, route.Args(req))
	log.Debug("route resolved", slog.String("route", route.Name()))

	entries := append(slices.Clone(k.entries), route.Middleware()...)
	chain, err := k.registry.Expand(entries)
	if err != nil {
		return nil, fmt.Errorf("expand middleware for route %s: %w", route.Name(), err)
	}
	c.setState(StateMiddlewareExpanded)

	c.setState(StatePipelineExecuting)
	resp, failed := k.runBracketed(c, chain, route.Handler())
	if err := c.deliver(resp); err != nil {
		return nil, err
	}
	if !failed {
		c.setState(StateResponseReady)
	}
	log.Debug("dispatch complete",
		slog.String("state", c.State().String()),
		slog.Int("status", resp.Status()),
	)
	return c, nil
}

// runBracketed executes the pipeline inside the error-handler bracket:
// register, run, always unregister. Everything the pipeline lets escape,
// error returns and panics alike, is converted here into an error
// response; failures never propagate past the bracket.
func (k *Kernel) runBracketed(c *Cycle, chain []Middleware, h HandlerFunc) (*Response, bool) {
	k.errs.Register()
	defer k.errs.Unregister()

	resp, err := func() (resp *Response, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = ErrInternal("internal error", WithError(fmt.Errorf("panic: %v", rec)))
			}
		}()
		return NewPipeline().Pipe(chain...).To(h).Run(c.Request(), c.Args())
	}()

	if err == nil && resp == nil {
		err = ErrInternal("handler returned no response")
	}
	if err != nil {
		c.setState(StateErrorCaught)
		resp = k.errs.Response(c.Request(), err)
		if resp == nil {
			resp = ErrorResponse(http.StatusInternalServerError)
		}
		return resp, true
	}
	return resp, false
}
