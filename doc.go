// Package relay is a request-handling kernel for plugins that live inside a
// host CMS. The host owns the process, the URLs and the output stream;
// relay owns everything between a host trigger and a finished response:
// routing, middleware, handlers and error conversion.
//
// # The Dispatch Model
//
// Relay never listens on a socket. A host adapter subscribes to the host's
// native lifecycle hooks and translates each trigger into one Lifecycle
// call on the kernel:
//
//   - OnRender for front-end page loads, where the response is computed
//     eagerly but emitted later, at the host's output stage
//   - OnAjax for ajax actions, answered synchronously inside the callback
//   - OnAdminLoad and OnAdminRender for admin pages, where the host allows
//     headers only at load time and body output only at render time
//
// Each call dispatches through the same stack: resolve a route, expand its
// middleware, run the pipeline, park the response on a Cycle. The Cycle's
// response slot is written once and emitted once; the split lifecycles
// cannot double-send.
//
// Dispatch is synchronous and carries no deadline of its own: a cycle runs
// to completion inside the host's callback, and a handler that blocks holds
// its request until the host gives up. Bound slow work inside the handler,
// with its own clients' timeouts.
//
// # Quick Start
//
//	router := relay.NewRouter()
//	router.Get("/posts/{id:[0-9]+}", func(r *relay.Request, args relay.Args) (*relay.Response, error) {
//	    post, err := repo.Find(relay.Param[int](args, "id"))
//	    if err != nil {
//	        return nil, relay.ErrNotFound("no such post")
//	    }
//	    return relay.JSON(post)
//	})
//
//	kernel, err := relay.New(router, relay.WithLogger(log))
//	if err != nil {
//	    // startup-kind error: fix the wiring, nothing was dispatched
//	}
//
// Hand the kernel to a host adapter (see the devhost package for a local
// development host) and it drives the Lifecycle from the host's hooks.
//
// # Routing
//
// Routes resolve by first match in registration order. That is the
// documented policy, not an implementation detail: overlapping patterns are
// legal and the earlier registration wins, so specific routes belong before
// general ones. Patterns support named placeholders, inline regular
// expression constraints and an optional final segment:
//
//	router.Get("/archive/{year:[0-9]{4}}/{page?}", listArchive)
//
// An unrouted request is not an error; the kernel reports it as unclaimed
// and the host proceeds with its own handling.
//
// # Middleware
//
// Middleware is declared by name and resolved through a Registry, so routes
// can reference middleware that is configured centrally:
//
//	registry := relay.NewRegistry()
//	registry.Register("role", NewRoleMiddleware(acl), relay.WithPriority(10))
//	registry.Group("admin_area", relay.Use("auth"), relay.Use("role", "admin"))
//
//	router.Get("/settings", showSettings, relay.Use("admin_area"))
//
// At dispatch the kernel merges kernel-level and route entries, flattens
// groups, drops duplicates keeping the first occurrence and orders the
// chain by priority. References are validated at construction; a kernel
// that builds does not fail resolution later.
//
// # Error Handling
//
// Handlers and middleware return errors; the kernel converts them into
// responses inside a bracket that registers the error handler before the
// pipeline and always unregisters it afterwards. Panics are contained the
// same way. Errors carry a kind: dispatch failures become responses,
// startup failures abort construction and are meant for the operator.
//
// # Ajax and Admin Triggers
//
// Ajax actions and admin pages are not addressed by URL in the host; relay
// maps them onto internal paths so one router serves everything:
//
//	router.Post(relay.AjaxPath("save_draft"), saveDraft)
//	router.Get(relay.AdminPath("settings"), renderSettings)
//
// Action and page names pass through sanitization before they are used in
// dispatch paths or host hook names, so hostile input cannot forge hook
// strings.
//
// # Public API
//
// This package re-exports the complete API from internal packages. Import
// the middlewares package for ready-made middleware (request IDs, logging,
// panic recovery, CORS, throttling) and pkg/logger for the slog setup used
// throughout.
package relay
