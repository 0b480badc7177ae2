// Package api serves the mail gateway over HTTP.
//
// Routes:
//
//	GET    /healthz               liveness probe
//	GET    /readyz                readiness probe over the configured checks
//	POST   /v1/emails             send, queue or render-and-send an email
//	GET    /v1/settings/{name}    resolved delivery setting for the tenant
//	PUT    /v1/settings/{name}    store a tenant override
//	DELETE /v1/settings/{name}    drop a tenant override
//
// The tenant is taken from the X-Tenant-ID header. Without it requests act on
// the host settings. Settings routes exist only when a settings store is wired.
//
// A send answers 200 once the message is handed to Postmark or the SMTP
// backup, and 202 when it is queued. Errors are JSON bodies with a stable
// code: 400 for bad input, 422 for missing delivery configuration, 502 when
// the provider or SMTP server rejects the message, 503 when the queue is
// unavailable.
package api
