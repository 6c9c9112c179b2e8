package internal

import (
	"errors"
	"fmt"
)

// Router holds routes in registration order and resolves requests by
// first match. Registration order is the dispatch policy: when several
// patterns overlap, the one registered first wins, regardless of how
// specific the others are. Register specific routes before general ones.
type Router struct {
	routes []*Route
	errs   []error
}

// NewRouter returns an empty router.
func NewRouter() *Router {
	return &Router{}
}

// Add registers a route for the given methods and returns it for further
// chaining. Pattern errors are collected
// and surface through Err at kernel construction, so registration itself
// stays fluent.
func (r *Router) Add(methods []string, pattern string, h HandlerFunc, entries ...Entry) *Route {
	route, err := NewRoute(pattern, h, methods...)
	if err != nil {
		r.errs = append(r.errs, err)
		// A placeholder keeps the chain usable; the kernel refuses to
		// start while Err is non-nil.
		route = &Route{pattern: pattern, handler: h}
	}
	route.Use(entries...)
	r.routes = append(r.routes, route)
	return route
}

// Get registers a GET route.
func (r *Router) Get(pattern string, h HandlerFunc, entries ...Entry) *Route {
	return r.Add([]string{"GET"}, pattern, h, entries...)
}

// Post registers a POST route.
func (r *Router) Post(pattern string, h HandlerFunc, entries ...Entry) *Route {
	return r.Add([]string{"POST"}, pattern, h, entries...)
}

// Put registers a PUT route.
func (r *Router) Put(pattern string, h HandlerFunc, entries ...Entry) *Route {
	return r.Add([]string{"PUT"}, pattern, h, entries...)
}

// Patch registers a PATCH route.
func (r *Router) Patch(pattern string, h HandlerFunc, entries ...Entry) *Route {
	return r.Add([]string{"PATCH"}, pattern, h, entries...)
}

// Delete registers a DELETE route.
func (r *Router) Delete(pattern string, h HandlerFunc, entries ...Entry) *Route {
	return r.Add([]string{"DELETE"}, pattern, h, entries...)
}

// Any registers a route matching every method.
func (r *Router) Any(pattern string, h HandlerFunc, entries ...Entry) *Route {
	return r.Add(nil, pattern, h, entries...)
}

// Routes returns the registered routes in registration order.
func (r *Router) Routes() []*Route {
	out := make([]*Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// Err returns every registration error joined, or nil when all routes
// compiled.
func (r *Router) Err() error {
	if len(r.errs) == 0 {
		return nil
	}
	return fmt.Errorf("router: %w", errors.Join(r.errs...))
}

// Execute resolves the request to the first route whose method set,
// pattern and condition all accept it. No match returns nil; an unrouted
// request is a normal outcome that falls through to the host, not an
// error. Execute itself never mutates router or route state.
func (r *Router) Execute(req *Request) *Route {
	for _, route := range r.routes {
		if !route.allowsMethod(req.Method()) {
			continue
		}
		if _, ok := route.match(req.Path()); !ok {
			continue
		}
		if !route.IsSatisfied(req) {
			continue
		}
		return route
	}
	return nil
}
