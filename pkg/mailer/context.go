package mailer

import "context"

type tenantKey struct{}

// WithTenant returns a context carrying the tenant identifier.
// Transports pass it through untouched to their configuration sources.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	if tenantID == "" {
		return ctx
	}
	return context.WithValue(ctx, tenantKey{}, tenantID)
}

// TenantFromContext returns the tenant identifier stored in ctx.
// An empty string means the host (no tenant).
func TenantFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(tenantKey{}).(string)
	return id
}
