// Package plugin defines the plugin system for Custos.
// Plugins are notified of lifecycle events (grant resolved, role created,
// tenant deactivated, etc.) and can react with logging, metrics, or tracing.
//
// Each lifecycle hook is a separate interface so plugins opt in only
// to the events they care about.
package plugin

import (
	"context"

	"github.com/xraph/custos/assignment"
	"github.com/xraph/custos/id"
	"github.com/xraph/custos/role"
	"github.com/xraph/custos/tenant"
)

// Plugin is the base interface all plugins must implement.
type Plugin interface {
	// Name returns a unique human-readable name for the plugin.
	Name() string
}

// ──────────────────────────────────────────────────
// Resolution lifecycle hooks
// ──────────────────────────────────────────────────

// BeforeResolve is called before a grant is resolved for a user in a tenant.
type BeforeResolve interface {
	OnBeforeResolve(ctx context.Context, userID string, tenantID id.TenantID) error
}

// AfterResolve is called after a grant resolution completes.
// The grant parameter is *custos.Grant (passed as any to avoid an import cycle).
type AfterResolve interface {
	OnAfterResolve(ctx context.Context, userID string, tenantID id.TenantID, grant any) error
}

// ──────────────────────────────────────────────────
// Role lifecycle hooks
// ──────────────────────────────────────────────────

// RoleCreated is called after a role is created.
type RoleCreated interface {
	OnRoleCreated(ctx context.Context, r *role.Role) error
}

// RoleUpdated is called after a role is updated.
type RoleUpdated interface {
	OnRoleUpdated(ctx context.Context, r *role.Role) error
}

// RoleDeleted is called after a role is deleted.
type RoleDeleted interface {
	OnRoleDeleted(ctx context.Context, roleID id.RoleID) error
}

// ──────────────────────────────────────────────────
// Tenant lifecycle hooks
// ──────────────────────────────────────────────────

// TenantCreated is called after a tenant is registered.
type TenantCreated interface {
	OnTenantCreated(ctx context.Context, t *tenant.Tenant) error
}

// TenantUpdated is called after a tenant is updated.
type TenantUpdated interface {
	OnTenantUpdated(ctx context.Context, t *tenant.Tenant) error
}

// TenantDeleted is called after a tenant is deleted.
type TenantDeleted interface {
	OnTenantDeleted(ctx context.Context, tenantID id.TenantID) error
}

// TenantStatusChanged is called after a tenant is activated or deactivated.
type TenantStatusChanged interface {
	OnTenantStatusChanged(ctx context.Context, t *tenant.Tenant) error
}

// ──────────────────────────────────────────────────
// Assignment lifecycle hooks
// ──────────────────────────────────────────────────

// RoleAssigned is called after a role is assigned to a user in a tenant.
type RoleAssigned interface {
	OnRoleAssigned(ctx context.Context, a *assignment.Assignment) error
}

// RoleRevoked is called after a role is revoked from a user in a tenant.
type RoleRevoked interface {
	OnRoleRevoked(ctx context.Context, a *assignment.Assignment) error
}

// ──────────────────────────────────────────────────
// Shutdown hook
// ──────────────────────────────────────────────────

// Shutdown is called during graceful shutdown.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
