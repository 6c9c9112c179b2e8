package internal

import (
	"net/http"
	"net/url"
)

// RenderEvent is the host's page-render trigger. QueryVars are the host's
// native query variables for the page it is about to render; Template is
// the template the host picked before consulting the kernel.
type RenderEvent struct {
	Request   *Request
	QueryVars url.Values
	Template  string
}

// RenderDecision is what the adapter applies back to the host after a
// render dispatch. A nil Cycle means no route claimed the request and the
// host should proceed with its own rendering; QueryVars and Template always
// carry usable values, rewritten or passed through.
type RenderDecision struct {
	QueryVars url.Values
	Template  string
	Cycle     *Cycle
}

// Claimed reports whether a route claimed the render.
func (d *RenderDecision) Claimed() bool {
	return d.Cycle != nil
}

// AjaxEvent is the host's ajax trigger. The writer receives the response
// synchronously inside the same callback.
type AjaxEvent struct {
	Request *Request
	Writer  http.ResponseWriter
}

// AdminEvent is the host's admin-page trigger. The host fires it twice per
// page view: once at load time, when only headers may be sent, and once at
// render time for the body. Page is the host-side page identifier.
type AdminEvent struct {
	Page    string
	Request *Request
	Writer  http.ResponseWriter
}

// Lifecycle is the contract between the kernel and a host adapter. The
// adapter listens on the host's native hooks and translates each into one
// of these calls at the host's fixed lifecycle points; the kernel answers
// with cycles the adapter emits back through host-appropriate channels.
//
// Errors returned here are failures of the dispatch machinery itself,
// not of handlers: handler and middleware errors are converted into error
// responses inside the dispatch and never surface through these methods.
type Lifecycle interface {
	// OnRender resolves a page render. The decision tells the host which
	// query variables and template to use and, when a route claimed the
	// request, carries the cycle whose response the adapter emits at the
	// host's output stage.
	OnRender(ev RenderEvent) (*RenderDecision, error)

	// OnAjax resolves an ajax action and emits the response immediately
	// on the event writer. A nil cycle means no route handles the action.
	OnAjax(ev AjaxEvent) (*Cycle, error)

	// OnAdminLoad resolves an admin page at its load stage and sends the
	// response headers on the event writer. The body stays pending on the
	// returned cycle until OnAdminRender.
	OnAdminLoad(ev AdminEvent) (*Cycle, error)

	// OnAdminRender emits the pending body of the cycle produced by
	// OnAdminLoad. A nil cycle is a no-op.
	OnAdminRender(ev AdminEvent, c *Cycle) error
}
