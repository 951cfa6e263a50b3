// Package health provides HTTP liveness and readiness handlers.
//
// [LivenessHandler] answers OK while the process runs. [ReadinessHandler]
// executes a set of named [Checks] in parallel and answers 503 when any of
// them fails or outlives the timeout.
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "root": health.DirCheck("/srv/styles"),
//	}, health.WithTimeout(2*time.Second)))
//
// Plain text is the default; send Accept: application/json or ?format=json
// for a per-check report:
//
//	{
//	  "status": "unhealthy",
//	  "checks": {
//	    "root": {"status": "unhealthy", "error": "health: check failed: /srv/styles is missing or unreadable"}
//	  }
//	}
//
// Failed checks are logged at warn level through the logger given with
// [WithLogger]. A check that does not return within the timeout reports
// [ErrCheckTimeout]; [DirCheck] failures wrap [ErrCheckFailed].
package health
