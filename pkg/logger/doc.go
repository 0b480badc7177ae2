// Package logger builds the service's slog logger.
//
// Records go to stdout as JSON or text. When SENTRY_DSN is set they are also
// sent to Sentry: errors create issues, lower levels down to SENTRY_LEVEL are
// stored as Sentry logs. Without a DSN, or when Sentry fails to initialize,
// only stdout is used.
//
// Extractors add request-scoped attributes on every call:
//
//	log := logger.New(cfg, logger.Tenant())
//	ctx := mailer.WithTenant(ctx, "acme")
//	log.InfoContext(ctx, "email sent")
//	// {"level":"INFO","msg":"email sent","tenant_id":"acme"}
//
// Call [Flush] before exit so pending Sentry events are delivered.
package logger
