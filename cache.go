package custos

import (
	"context"

	"github.com/xraph/custos/id"
)

// Cache provides caching for resolved grants.
type Cache interface {
	// Get returns a cached grant, if available.
	Get(ctx context.Context, userID string, tenantID id.TenantID) (*Grant, bool)

	// Set stores a grant in the cache.
	Set(ctx context.Context, userID string, tenantID id.TenantID, grant *Grant)

	// InvalidateUser removes all cached grants for a user.
	InvalidateUser(ctx context.Context, userID string)

	// InvalidateTenant removes all cached grants for a tenant.
	InvalidateTenant(ctx context.Context, tenantID id.TenantID)

	// InvalidateAll removes every cached grant. Used after role or
	// permission mutations that can affect any user.
	InvalidateAll(ctx context.Context)
}
