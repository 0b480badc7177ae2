// Package health runs dependency checks and serves liveness and readiness probes.
//
// Checks have the same shape as the health checks exported by the settings and
// queue packages, so they plug in directly:
//
//	checks := health.Checks{
//	    "postgres": settings.Healthcheck(pool),
//	    "redis":    settings.RedisHealthcheck(rdb),
//	    "queue":    queue.Healthcheck(manager),
//	}
//	r.Get("/healthz", health.LivenessHandler())
//	r.Get("/readyz", health.ReadinessHandler(checks, health.WithTimeout(3*time.Second)))
//
// Probes answer plain text unless the client asks for JSON with an
// Accept: application/json header or ?format=json:
//
//	{
//	  "status": "unhealthy",
//	  "checks": {
//	    "postgres": {"status": "healthy", "duration": "1.2ms"},
//	    "redis": {"status": "unhealthy", "error": "connection refused", "duration": "3ms"}
//	  }
//	}
//
// [Run] returns the same report for callers outside HTTP, such as a CLI
// command; [Report.Err] turns it into an error.
package health
