// Package internal provides the core types and implementation for the Relay
// kernel.
//
// This package is internal and should not be used directly. Import
// "github.com/hostkit/relay" instead, which re-exports the public API.
//
// # Core Types
//
//   - Kernel: Resolves host lifecycle events into routed dispatches
//   - Router: Ordered route table resolved by first match
//   - Route: One pattern, handler and middleware set
//   - Request: Immutable request value threaded through the pipeline
//   - Response: Mutable response builder emitted at host output stages
//   - Pipeline: Per-dispatch middleware chain into a terminal handler
//   - Registry: Named middleware constructors, groups and priorities
//   - Entry: A middleware use site, named reference or inline function
//   - Cycle: Per-dispatch context with the write-once response slot
//   - Lifecycle: The contract host adapters drive the kernel through
//   - Error: Tagged failure value, startup or dispatch kind
//
// # Dispatch Model
//
// The kernel does not own a server socket. A host adapter listens on the
// host's native hooks and calls one Lifecycle method per trigger:
//
//	kernel, err := internal.NewKernel(router,
//	    internal.WithRegistry(registry),
//	    internal.WithMiddleware(internal.Use("request_id")),
//	    internal.WithLogger(log),
//	)
//	if err != nil {
//	    // startup-kind error: bad pattern or middleware reference
//	}
//
//	decision, err := kernel.OnRender(internal.RenderEvent{
//	    Request:   req,
//	    QueryVars: hostVars,
//	    Template:  hostTemplate,
//	})
//
// A dispatch resolves the route, expands middleware entries through the
// registry, runs the pipeline inside the error-handler bracket and parks
// the response on a Cycle. When and how the response reaches the client
// depends on the trigger: renders emit later at the host's output stage,
// ajax emits synchronously, admin pages split headers and body across the
// host's load and render stages.
//
// # Error Discipline
//
// Startup failures (malformed patterns, unknown middleware names, failing
// constructors) return from NewKernel as KindStartup errors and never reach
// dispatch. Handler and middleware failures during a dispatch, panics
// included, are converted into error responses by the ErrorHandler inside
// the register/unregister bracket; they never escape a Lifecycle method.
//
// See the relay package documentation for the public API and usage
// examples.
package internal
