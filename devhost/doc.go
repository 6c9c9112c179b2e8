// Package devhost runs a relay kernel behind a plain HTTP server, standing
// in for the host platform during development.
//
// A kernel on its own only answers lifecycle events; in production those
// come from the host platform's front controller. devhost fakes that
// controller: it turns every incoming HTTP request into the matching
// lifecycle call, so handlers, middleware and admin pages can be exercised
// with curl or a browser before the code ships into a real host.
//
// # Request Mapping
//
//	GET  /health/live     liveness probe
//	GET  /health/ready    readiness probe (configured checks)
//	ANY  /ajax            OnAjax, action taken from the "action" field
//	ANY  /admin/{page}    OnAdminLoad then OnAdminRender, like the host's
//	                      two-phase admin flow
//	ANY  /*               OnRender; unclaimed requests fall through to a
//	                      stub page naming the template the host would use
//
// # Usage
//
//	kernel, err := relay.New(router)
//	if err != nil {
//	    return http.ListenAndServe(":8080", devhost.StartupErrorPage(err))
//	}
//
//	host := devhost.NewHost(kernel, devhost.WithLogger(log))
//	return host.Run(ctx, ":8080")
//
// # Request IDs
//
// The host tags every request with a chi request ID. Wire it into logs with
// RequestIDExtractor:
//
//	log := logger.New(devhost.RequestIDExtractor())
package devhost
