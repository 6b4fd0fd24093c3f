package custos

import (
	"context"

	"github.com/xraph/custos/id"
)

type contextKey int

const (
	ctxKeyActor contextKey = iota
	ctxKeyTenantID
)

// WithActor returns a context carrying the acting user's ID for audit
// attribution. Use this for standalone mode (without Forge).
func WithActor(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKeyActor, userID)
}

// WithTenant returns a context carrying the selected tenant ID.
// Use this for standalone mode (without Forge).
func WithTenant(ctx context.Context, tenantID id.TenantID) context.Context {
	return context.WithValue(ctx, ctxKeyTenantID, tenantID)
}

// TenantFromContext returns the tenant ID carried by the context, if any.
func TenantFromContext(ctx context.Context) (id.TenantID, bool) {
	v, ok := ctx.Value(ctxKeyTenantID).(id.TenantID)
	return v, ok
}

func actorValueFromContext(ctx context.Context) string {
	v, ok := ctx.Value(ctxKeyActor).(string)
	if !ok {
		return ""
	}
	return v
}
