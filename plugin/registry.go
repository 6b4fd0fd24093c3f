package plugin

import (
	"context"
	"log/slog"

	"github.com/xraph/custos/assignment"
	"github.com/xraph/custos/id"
	"github.com/xraph/custos/role"
	"github.com/xraph/custos/tenant"
)

// Named entry types pair a hook with the plugin name for logging.

type beforeResolveEntry struct {
	name string
	hook BeforeResolve
}
type afterResolveEntry struct {
	name string
	hook AfterResolve
}
type roleCreatedEntry struct {
	name string
	hook RoleCreated
}
type roleUpdatedEntry struct {
	name string
	hook RoleUpdated
}
type roleDeletedEntry struct {
	name string
	hook RoleDeleted
}
type tenantCreatedEntry struct {
	name string
	hook TenantCreated
}
type tenantUpdatedEntry struct {
	name string
	hook TenantUpdated
}
type tenantDeletedEntry struct {
	name string
	hook TenantDeleted
}
type tenantStatusChangedEntry struct {
	name string
	hook TenantStatusChanged
}
type roleAssignedEntry struct {
	name string
	hook RoleAssigned
}
type roleRevokedEntry struct {
	name string
	hook RoleRevoked
}
type shutdownEntry struct {
	name string
	hook Shutdown
}

// Registry holds registered plugins and dispatches lifecycle events.
// It type-caches plugins at registration time so emit calls iterate
// only over plugins implementing the relevant hook.
type Registry struct {
	plugins []Plugin
	logger  *slog.Logger

	beforeResolve       []beforeResolveEntry
	afterResolve        []afterResolveEntry
	roleCreated         []roleCreatedEntry
	roleUpdated         []roleUpdatedEntry
	roleDeleted         []roleDeletedEntry
	tenantCreated       []tenantCreatedEntry
	tenantUpdated       []tenantUpdatedEntry
	tenantDeleted       []tenantDeletedEntry
	tenantStatusChanged []tenantStatusChangedEntry
	roleAssigned        []roleAssignedEntry
	roleRevoked         []roleRevokedEntry
	shutdown            []shutdownEntry
}

// NewRegistry creates a plugin registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register adds a plugin and type-asserts it into all applicable
// hook caches. Plugins are notified in registration order.
func (r *Registry) Register(p Plugin) {
	r.plugins = append(r.plugins, p)
	name := p.Name()

	if h, ok := p.(BeforeResolve); ok {
		r.beforeResolve = append(r.beforeResolve, beforeResolveEntry{name, h})
	}
	if h, ok := p.(AfterResolve); ok {
		r.afterResolve = append(r.afterResolve, afterResolveEntry{name, h})
	}
	if h, ok := p.(RoleCreated); ok {
		r.roleCreated = append(r.roleCreated, roleCreatedEntry{name, h})
	}
	if h, ok := p.(RoleUpdated); ok {
		r.roleUpdated = append(r.roleUpdated, roleUpdatedEntry{name, h})
	}
	if h, ok := p.(RoleDeleted); ok {
		r.roleDeleted = append(r.roleDeleted, roleDeletedEntry{name, h})
	}
	if h, ok := p.(TenantCreated); ok {
		r.tenantCreated = append(r.tenantCreated, tenantCreatedEntry{name, h})
	}
	if h, ok := p.(TenantUpdated); ok {
		r.tenantUpdated = append(r.tenantUpdated, tenantUpdatedEntry{name, h})
	}
	if h, ok := p.(TenantDeleted); ok {
		r.tenantDeleted = append(r.tenantDeleted, tenantDeletedEntry{name, h})
	}
	if h, ok := p.(TenantStatusChanged); ok {
		r.tenantStatusChanged = append(r.tenantStatusChanged, tenantStatusChangedEntry{name, h})
	}
	if h, ok := p.(RoleAssigned); ok {
		r.roleAssigned = append(r.roleAssigned, roleAssignedEntry{name, h})
	}
	if h, ok := p.(RoleRevoked); ok {
		r.roleRevoked = append(r.roleRevoked, roleRevokedEntry{name, h})
	}
	if h, ok := p.(Shutdown); ok {
		r.shutdown = append(r.shutdown, shutdownEntry{name, h})
	}
}

// Plugins returns all registered plugins.
func (r *Registry) Plugins() []Plugin { return r.plugins }

// ──────────────────────────────────────────────────
// Resolution event emitters
// ──────────────────────────────────────────────────

// EmitBeforeResolve notifies all plugins that implement BeforeResolve.
func (r *Registry) EmitBeforeResolve(ctx context.Context, userID string, tenantID id.TenantID) {
	for _, e := range r.beforeResolve {
		if err := e.hook.OnBeforeResolve(ctx, userID, tenantID); err != nil {
			r.logHookError("OnBeforeResolve", e.name, err)
		}
	}
}

// EmitAfterResolve notifies all plugins that implement AfterResolve.
func (r *Registry) EmitAfterResolve(ctx context.Context, userID string, tenantID id.TenantID, grant any) {
	for _, e := range r.afterResolve {
		if err := e.hook.OnAfterResolve(ctx, userID, tenantID, grant); err != nil {
			r.logHookError("OnAfterResolve", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Role event emitters
// ──────────────────────────────────────────────────

// EmitRoleCreated notifies all plugins that implement RoleCreated.
func (r *Registry) EmitRoleCreated(ctx context.Context, rl *role.Role) {
	for _, e := range r.roleCreated {
		if err := e.hook.OnRoleCreated(ctx, rl); err != nil {
			r.logHookError("OnRoleCreated", e.name, err)
		}
	}
}

// EmitRoleUpdated notifies all plugins that implement RoleUpdated.
func (r *Registry) EmitRoleUpdated(ctx context.Context, rl *role.Role) {
	for _, e := range r.roleUpdated {
		if err := e.hook.OnRoleUpdated(ctx, rl); err != nil {
			r.logHookError("OnRoleUpdated", e.name, err)
		}
	}
}

// EmitRoleDeleted notifies all plugins that implement RoleDeleted.
func (r *Registry) EmitRoleDeleted(ctx context.Context, roleID id.RoleID) {
	for _, e := range r.roleDeleted {
		if err := e.hook.OnRoleDeleted(ctx, roleID); err != nil {
			r.logHookError("OnRoleDeleted", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Tenant event emitters
// ──────────────────────────────────────────────────

// EmitTenantCreated notifies all plugins that implement TenantCreated.
func (r *Registry) EmitTenantCreated(ctx context.Context, t *tenant.Tenant) {
	for _, e := range r.tenantCreated {
		if err := e.hook.OnTenantCreated(ctx, t); err != nil {
			r.logHookError("OnTenantCreated", e.name, err)
		}
	}
}

// EmitTenantUpdated notifies all plugins that implement TenantUpdated.
func (r *Registry) EmitTenantUpdated(ctx context.Context, t *tenant.Tenant) {
	for _, e := range r.tenantUpdated {
		if err := e.hook.OnTenantUpdated(ctx, t); err != nil {
			r.logHookError("OnTenantUpdated", e.name, err)
		}
	}
}

// EmitTenantDeleted notifies all plugins that implement TenantDeleted.
func (r *Registry) EmitTenantDeleted(ctx context.Context, tenantID id.TenantID) {
	for _, e := range r.tenantDeleted {
		if err := e.hook.OnTenantDeleted(ctx, tenantID); err != nil {
			r.logHookError("OnTenantDeleted", e.name, err)
		}
	}
}

// EmitTenantStatusChanged notifies all plugins that implement TenantStatusChanged.
func (r *Registry) EmitTenantStatusChanged(ctx context.Context, t *tenant.Tenant) {
	for _, e := range r.tenantStatusChanged {
		if err := e.hook.OnTenantStatusChanged(ctx, t); err != nil {
			r.logHookError("OnTenantStatusChanged", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Assignment event emitters
// ──────────────────────────────────────────────────

// EmitRoleAssigned notifies all plugins that implement RoleAssigned.
func (r *Registry) EmitRoleAssigned(ctx context.Context, a *assignment.Assignment) {
	for _, e := range r.roleAssigned {
		if err := e.hook.OnRoleAssigned(ctx, a); err != nil {
			r.logHookError("OnRoleAssigned", e.name, err)
		}
	}
}

// EmitRoleRevoked notifies all plugins that implement RoleRevoked.
func (r *Registry) EmitRoleRevoked(ctx context.Context, a *assignment.Assignment) {
	for _, e := range r.roleRevoked {
		if err := e.hook.OnRoleRevoked(ctx, a); err != nil {
			r.logHookError("OnRoleRevoked", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Shutdown emitter
// ──────────────────────────────────────────────────

// EmitShutdown notifies all plugins that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	for _, e := range r.shutdown {
		if err := e.hook.OnShutdown(ctx); err != nil {
			r.logHookError("OnShutdown", e.name, err)
		}
	}
}

// logHookError logs a warning when a lifecycle hook returns an error.
// Errors from hooks are never propagated, they must not block the pipeline.
func (r *Registry) logHookError(hook, pluginName string, err error) {
	r.logger.Warn("plugin hook error",
		slog.String("hook", hook),
		slog.String("plugin", pluginName),
		slog.String("error", err.Error()),
	)
}
