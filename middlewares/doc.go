// Package middlewares provides dispatch middleware for relay kernels.
//
// This package includes five essential middlewares:
//
// # Request ID
//
// RequestID middleware assigns a unique ID to each dispatch for tracing and
// debugging. It checks incoming headers for existing IDs or generates new
// ones using UUID.
//
//	kernel, err := relay.New(router,
//	    relay.WithMiddleware(
//	        relay.UseFunc(middlewares.RequestID()),
//	    ),
//	)
//
// Use RequestIDExtractor() with pkg/logger for automatic request_id in all
// logs emitted through the dispatch context:
//
//	log := logger.New(middlewares.RequestIDExtractor())
//
// # Logger
//
// Logger middleware writes one structured line per dispatch with the method,
// path, status, and duration. Failures log at error level.
//
//	kernel, err := relay.New(router,
//	    relay.WithMiddleware(
//	        relay.UseFunc(middlewares.Logger(log)),
//	    ),
//	)
//
// # Recover
//
// Recover middleware catches handler panics and converts them to typed
// errors. The PanicError can be inspected by a custom ErrorHandler.
//
//	kernel, err := relay.New(router,
//	    relay.WithMiddleware(
//	        relay.UseFunc(middlewares.Recover()),
//	    ),
//	)
//
// # CORS
//
// CORS middleware handles Cross-Origin Resource Sharing headers. It
// short-circuits preflight (OPTIONS) requests and adds CORS headers to
// responses coming back up the chain.
//
//	kernel, err := relay.New(router,
//	    relay.WithMiddleware(
//	        relay.UseFunc(middlewares.CORS(
//	            middlewares.WithAllowOrigins("https://app.example.com"),
//	            middlewares.WithAllowCredentials(),
//	        )),
//	    ),
//	)
//
// # Throttle
//
// Throttle middleware smooths dispatch throughput to a fixed rate. Excess
// dispatches block until the limiter releases them.
//
//	registry := relay.NewRegistry()
//	registry.RegisterFunc("throttle", middlewares.Throttle(100))
//
//	router.Post("/import", importHandler, relay.Use("throttle"))
//
// # Registry Registration
//
// Middlewares work as inline entries or as named registrations. Named
// registrations let routes reference them with relay.Use and let groups
// bundle them:
//
//	registry := relay.NewRegistry()
//	registry.RegisterFunc("request_id", middlewares.RequestID(), relay.WithPriority(10))
//	registry.RegisterFunc("recover", middlewares.Recover(), relay.WithPriority(20))
//	registry.RegisterFunc("logging", middlewares.Logger(log), relay.WithPriority(30))
//	registry.Group("base", relay.Use("request_id"), relay.Use("recover"), relay.Use("logging"))
//
//	kernel, err := relay.New(router,
//	    relay.WithRegistry(registry),
//	    relay.WithMiddleware(relay.Use("base")),
//	)
//
// # Recommended Middleware Order
//
// Apply middlewares in this order for best results:
//
//	relay.WithMiddleware(
//	    relay.UseFunc(middlewares.CORS()),       // First: handle preflight before other processing
//	    relay.UseFunc(middlewares.RequestID()),  // Second: assign ID for all subsequent logging
//	    relay.UseFunc(middlewares.Logger(log)),  // Third: log with the assigned ID
//	    relay.UseFunc(middlewares.Recover()),    // Fourth: catch panics from handlers
//	)
package middlewares
