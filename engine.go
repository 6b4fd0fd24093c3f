package custos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/xraph/custos/audit"
	"github.com/xraph/custos/id"
	"github.com/xraph/custos/plugin"
	"github.com/xraph/custos/store"
)

// Engine is the central access-control engine. It owns the permission
// catalog, the role store, the tenant registry, and the assignment ledger,
// and resolves per-tenant grants for users.
type Engine struct {
	store   store.Store
	cache   Cache
	plugins *plugin.Registry
	logger  *slog.Logger
	config  Config
}

// NewEngine creates a new Custos engine with the given options.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		logger: slog.Default(),
		config: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		return nil, errors.New("custos: store is required")
	}
	return e, nil
}

// Store returns the underlying composite store.
func (e *Engine) Store() store.Store { return e.store }

// Plugins returns the plugin registry (may be nil).
func (e *Engine) Plugins() *plugin.Registry { return e.plugins }

// Start performs any startup initialization.
func (e *Engine) Start(_ context.Context) error { return nil }

// Stop performs graceful shutdown.
func (e *Engine) Stop(ctx context.Context) error {
	if e.plugins != nil {
		e.plugins.EmitShutdown(ctx)
	}
	return nil
}

// storeErr classifies a store failure. Missing entities map to the given
// not-found sentinel; anything else means the backend is unreachable and
// callers must fail closed.
func storeErr(err, notFound error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %v", notFound, err)
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

// recordAudit writes a best-effort audit entry. Failures are logged and
// never propagated to the caller. tenantID is empty for mutations that are
// not scoped to a tenant.
func (e *Engine) recordAudit(ctx context.Context, action, entityKind string, entityID id.ID, tenantID string, details map[string]any) {
	if !e.config.auditEnabled() {
		return
	}

	entry := &audit.Entry{
		ID:         id.NewAuditLogID(),
		Actor:      actorFromContext(ctx),
		Action:     action,
		EntityKind: entityKind,
		EntityID:   entityID.String(),
		TenantID:   tenantID,
		Details:    details,
		CreatedAt:  time.Now(),
	}
	if err := e.store.CreateAuditEntry(ctx, entry); err != nil {
		e.logger.Warn("audit entry write failed",
			slog.String("action", action),
			slog.String("entity_id", entry.EntityID),
			slog.String("error", err.Error()),
		)
	}
}

// invalidateAll drops every cached grant after a mutation that can affect
// any user, such as a role permission change.
func (e *Engine) invalidateAll(ctx context.Context) {
	if e.cache != nil {
		e.cache.InvalidateAll(ctx)
	}
}

// invalidateUser drops cached grants for one user.
func (e *Engine) invalidateUser(ctx context.Context, userID string) {
	if e.cache != nil {
		e.cache.InvalidateUser(ctx, userID)
	}
}

// invalidateTenant drops cached grants for one tenant.
func (e *Engine) invalidateTenant(ctx context.Context, tenantID id.TenantID) {
	if e.cache != nil {
		e.cache.InvalidateTenant(ctx, tenantID)
	}
}

// AuditEntries returns audit entries matching the filter.
func (e *Engine) AuditEntries(ctx context.Context, filter *audit.QueryFilter) ([]*audit.Entry, error) {
	if filter == nil {
		filter = &audit.QueryFilter{}
	}
	filter.Limit = e.config.listLimit(filter.Limit)

	entries, err := e.store.ListAuditEntries(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return entries, nil
}
