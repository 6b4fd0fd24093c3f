package custos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/custos/audit"
	"github.com/xraph/custos/id"
	"github.com/xraph/custos/store"
	"github.com/xraph/custos/tenant"
)

// CreateTenantInput carries the fields for registering a tenant.
type CreateTenantInput struct {
	Name    string `json:"name"`
	Slug    string `json:"slug,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// UpdateTenantInput carries the fields for updating a tenant. Nil fields
// are left unchanged.
type UpdateTenantInput struct {
	Name    *string `json:"name,omitempty"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
}

// CreateTenant registers a new tenant. Tenants start active. When no slug
// is given one is derived from the name; slugs must be unique.
func (e *Engine) CreateTenant(ctx context.Context, input CreateTenantInput) (*tenant.Tenant, error) {
	if input.Name == "" {
		return nil, ErrNameRequired
	}

	slug := input.Slug
	if slug == "" {
		slug = tenantSlug(input.Name)
	}
	if _, err := e.store.GetTenantBySlug(ctx, slug); err == nil {
		return nil, fmt.Errorf("%w: tenant %q", ErrDuplicateSlug, slug)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	now := time.Now()
	t := &tenant.Tenant{
		ID:        id.NewTenantID(),
		Name:      input.Name,
		Slug:      slug,
		Address:   input.Address,
		Phone:     input.Phone,
		Email:     input.Email,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := e.store.CreateTenant(ctx, t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.recordAudit(ctx, audit.ActionTenantCreated, "tenant", t.ID, t.ID.String(), map[string]any{
		"name": t.Name,
		"slug": t.Slug,
	})
	if e.plugins != nil {
		e.plugins.EmitTenantCreated(ctx, t)
	}

	return t, nil
}

// GetTenant retrieves a tenant by ID.
func (e *Engine) GetTenant(ctx context.Context, tenantID id.TenantID) (*tenant.Tenant, error) {
	t, err := e.store.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, storeErr(err, ErrTenantNotFound)
	}
	return t, nil
}

// GetTenantBySlug retrieves a tenant by its slug.
func (e *Engine) GetTenantBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	t, err := e.store.GetTenantBySlug(ctx, slug)
	if err != nil {
		return nil, storeErr(err, ErrTenantNotFound)
	}
	return t, nil
}

// UpdateTenant applies the input to an existing tenant. The slug is stable:
// renaming a tenant does not change it.
func (e *Engine) UpdateTenant(ctx context.Context, tenantID id.TenantID, input UpdateTenantInput) (*tenant.Tenant, error) {
	t, err := e.store.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, storeErr(err, ErrTenantNotFound)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrNameRequired
		}
		t.Name = *input.Name
	}
	if input.Address != nil {
		t.Address = *input.Address
	}
	if input.Phone != nil {
		t.Phone = *input.Phone
	}
	if input.Email != nil {
		t.Email = *input.Email
	}
	t.UpdatedAt = time.Now()

	if err := e.store.UpdateTenant(ctx, t); err != nil {
		return nil, storeErr(err, ErrTenantNotFound)
	}

	e.recordAudit(ctx, audit.ActionTenantUpdated, "tenant", t.ID, t.ID.String(), map[string]any{
		"name": t.Name,
	})
	if e.plugins != nil {
		e.plugins.EmitTenantUpdated(ctx, t)
	}

	return t, nil
}

// ActivateTenant marks a tenant active, restoring its members' capabilities.
func (e *Engine) ActivateTenant(ctx context.Context, tenantID id.TenantID) (*tenant.Tenant, error) {
	return e.setTenantActive(ctx, tenantID, true)
}

// DeactivateTenant marks a tenant inactive. Every member immediately loses
// all capabilities within it, whatever roles they hold.
func (e *Engine) DeactivateTenant(ctx context.Context, tenantID id.TenantID) (*tenant.Tenant, error) {
	return e.setTenantActive(ctx, tenantID, false)
}

func (e *Engine) setTenantActive(ctx context.Context, tenantID id.TenantID, active bool) (*tenant.Tenant, error) {
	t, err := e.store.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, storeErr(err, ErrTenantNotFound)
	}
	if t.IsActive == active {
		return t, nil
	}

	t.IsActive = active
	t.UpdatedAt = time.Now()
	if err := e.store.UpdateTenant(ctx, t); err != nil {
		return nil, storeErr(err, ErrTenantNotFound)
	}

	e.invalidateTenant(ctx, tenantID)

	action := audit.ActionTenantActivated
	if !active {
		action = audit.ActionTenantDeactivated
	}
	e.recordAudit(ctx, action, "tenant", t.ID, t.ID.String(), map[string]any{
		"name": t.Name,
	})
	if e.plugins != nil {
		e.plugins.EmitTenantStatusChanged(ctx, t)
	}

	return t, nil
}

// DeleteTenant removes a tenant and all assignments within it.
func (e *Engine) DeleteTenant(ctx context.Context, tenantID id.TenantID) error {
	t, err := e.store.GetTenant(ctx, tenantID)
	if err != nil {
		return storeErr(err, ErrTenantNotFound)
	}

	if err := e.store.DeleteAssignmentsByTenant(ctx, tenantID); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := e.store.DeleteTenant(ctx, tenantID); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.invalidateTenant(ctx, tenantID)

	e.recordAudit(ctx, audit.ActionTenantDeleted, "tenant", tenantID, tenantID.String(), map[string]any{
		"name": t.Name,
	})
	if e.plugins != nil {
		e.plugins.EmitTenantDeleted(ctx, tenantID)
	}

	return nil
}

// ListTenants returns tenants matching the filter.
func (e *Engine) ListTenants(ctx context.Context, filter *tenant.ListFilter) ([]*tenant.Tenant, error) {
	if filter == nil {
		filter = &tenant.ListFilter{}
	}
	filter.Limit = e.config.listLimit(filter.Limit)

	tenants, err := e.store.ListTenants(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return tenants, nil
}
