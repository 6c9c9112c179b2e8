package internal

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// CycleState names the stations a dispatch passes through.
type CycleState uint8

const (
	StateIdle CycleState = iota
	StateRouteResolved
	StateRouteAbsent
	StateMiddlewareExpanded
	StatePipelineExecuting
	StateResponseReady
	StateErrorCaught
	StateEmitted
)

func (s CycleState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRouteResolved:
		return "route_resolved"
	case StateRouteAbsent:
		return "route_absent"
	case StateMiddlewareExpanded:
		return "middleware_expanded"
	case StatePipelineExecuting:
		return "pipeline_executing"
	case StateResponseReady:
		return "response_ready"
	case StateErrorCaught:
		return "error_caught"
	case StateEmitted:
		return "emitted"
	default:
		return "unknown"
	}
}

// Emission slot errors.
var (
	// ErrNoResponse reports an emission attempt before any response was
	// stored on the cycle.
	ErrNoResponse = errors.New("cycle holds no response")
	// ErrAlreadyEmitted reports a second emission attempt for the same
	// cycle; the response slot hands its value out exactly once.
	ErrAlreadyEmitted = errors.New("cycle response already emitted")
	// ErrSlotWritten reports a second write into the response slot; the
	// kernel is its only writer and writes exactly once.
	ErrSlotWritten = errors.New("cycle response slot already written")
)

// Cycle is the per-dispatch context: one host trigger, one request, one
// resolved route, one response. The kernel writes the response slot exactly
// once and emission takes it exactly once, so deferred lifecycles (respond
// during an early hook, emit during a later one) cannot double-send or
// cross wires between concurrent dispatches.
type Cycle struct {
	id    string
	req   *Request
	route *Route
	args  Args

	mu    sync.Mutex
	state CycleState
	resp  *Response
	taken bool
}

func newCycle(req *Request) *Cycle {
	return &Cycle{
		id:    uuid.NewString(),
		req:   req,
		state: StateIdle,
	}
}

// ID returns the cycle's identifier, used to correlate log lines.
func (c *Cycle) ID() string {
	return c.id
}

// Request returns the request this cycle is dispatching.
func (c *Cycle) Request() *Request {
	return c.req
}

// Route returns the resolved route, or nil before resolution.
func (c *Cycle) Route() *Route {
	return c.route
}

// Args returns the parameters the route extracted from the path.
func (c *Cycle) Args() Args {
	return c.args
}

// State returns the current lifecycle state.
func (c *Cycle) State() CycleState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Cycle) setState(s CycleState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

func (c *Cycle) resolved(route *Route, args Args) {
	c.route = route
	c.args = args
	c.setState(StateRouteResolved)
}

// deliver stores the dispatch result. Only the kernel calls it, once.
func (c *Cycle) deliver(resp *Response) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.resp != nil {
		return ErrSlotWritten
	}
	c.resp = resp
	return nil
}

// Response peeks at the pending response without consuming it. It returns
// nil before delivery and after the response has been taken.
func (c *Cycle) Response() *Response {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.taken {
		return nil
	}
	return c.resp
}

// Take hands out the response exactly once. The second caller gets
// ErrAlreadyEmitted, a call before delivery gets ErrNoResponse.
func (c *Cycle) Take() (*Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.taken {
		return nil, ErrAlreadyEmitted
	}
	if c.resp == nil {
		return nil, ErrNoResponse
	}
	c.taken = true
	return c.resp, nil
}
