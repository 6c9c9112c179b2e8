package internal

import "errors"

// Next continues the chain with the given request. Middleware that derives
// a new request passes the derivation here; everything downstream sees it.
type Next func(r *Request) (*Response, error)

// Middleware wraps the next step of a chain. It may run code before and
// after calling next, replace the request, post-process the returned
// response, or skip next entirely and answer by itself.
type Middleware func(next Next) Next

// HandlerFunc is the terminal step of a pipeline: the fully-derived request
// plus the arguments the route extracted from the path.
type HandlerFunc func(r *Request, args Args) (*Response, error)

// Pipeline runs a request through an ordered middleware chain into a
// terminal handler. The first piped middleware is the outermost wrapper.
// A pipeline is built per dispatch and thrown away afterwards; it keeps no
// state between runs.
//
// The pipeline deliberately does not recover panics or intercept errors.
// Failure handling belongs to the kernel bracket around it.
type Pipeline struct {
	middleware []Middleware
	handler    HandlerFunc
}

// NewPipeline returns an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Pipe appends middleware to the chain in execution order.
func (p *Pipeline) Pipe(mw ...Middleware) *Pipeline {
	p.middleware = append(p.middleware, mw...)
	return p
}

// To sets the terminal handler.
func (p *Pipeline) To(h HandlerFunc) *Pipeline {
	p.handler = h
	return p
}

// Run sends the request through the chain. Errors from any step surface
// unchanged to the caller; no response is synthesized here.
func (p *Pipeline) Run(r *Request, args Args) (*Response, error) {
	if p.handler == nil {
		return nil, errors.New("pipeline: no terminal handler")
	}

	next := Next(func(r *Request) (*Response, error) {
		return p.handler(r, args)
	})
	// Wrap back to front so the first piped middleware runs outermost.
	for i := len(p.middleware) - 1; i >= 0; i-- {
		next = p.middleware[i](next)
	}
	return next(r)
}
