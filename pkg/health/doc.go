// Package health provides HTTP handlers for liveness and readiness probes.
//
// The dev host mounts these so tooling can tell a running host apart from a
// healthy one: liveness only proves the process answers, readiness runs the
// configured checks against whatever the handlers depend on.
//
// # Quick Start
//
// Register probe endpoints on a router:
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "upstream": pingUpstream,
//	}))
//
// # Response Formats
//
// Handlers answer plain text for probe compatibility. Request JSON with
// Accept: application/json or ?format=json:
//
//	{
//	  "status": "unhealthy",
//	  "checks": {
//	    "upstream": {"status": "unhealthy", "error": "connection refused"}
//	  }
//	}
//
// # Options
//
//	health.ReadinessHandler(checks,
//	    health.WithTimeout(3*time.Second),
//	    health.WithLogger(log),
//	)
package health
