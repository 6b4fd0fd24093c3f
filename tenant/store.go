package tenant

import (
	"context"

	"github.com/xraph/custos/id"
)

// Store defines persistence operations for tenants.
type Store interface {
	// CreateTenant persists a new tenant.
	CreateTenant(ctx context.Context, t *Tenant) error

	// GetTenant retrieves a tenant by ID.
	GetTenant(ctx context.Context, tenantID id.TenantID) (*Tenant, error)

	// GetTenantBySlug retrieves a tenant by its slug.
	GetTenantBySlug(ctx context.Context, slug string) (*Tenant, error)

	// UpdateTenant persists changes to a tenant.
	UpdateTenant(ctx context.Context, t *Tenant) error

	// DeleteTenant removes a tenant by ID.
	DeleteTenant(ctx context.Context, tenantID id.TenantID) error

	// ListTenants returns tenants matching the filter.
	ListTenants(ctx context.Context, filter *ListFilter) ([]*Tenant, error)

	// CountTenants returns the number of tenants matching the filter.
	CountTenants(ctx context.Context, filter *ListFilter) (int64, error)
}
