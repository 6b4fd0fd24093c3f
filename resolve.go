package custos

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/custos/id"
	"github.com/xraph/custos/role"
	"github.com/xraph/custos/store"
)

// Resolve computes the grant a user holds in a tenant. This is the hot path.
//
// The grant is the union of the permissions of every role assigned to the
// user in that tenant. If the tenant is deactivated the grant is empty
// regardless of roles. A user with no assignments in the tenant gets an
// empty grant, not an error. Store failures are returned as
// ErrStoreUnavailable; callers must treat them as a denial.
func (e *Engine) Resolve(ctx context.Context, userID string, tenantID id.TenantID) (*Grant, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(ctx, userID, tenantID); ok {
			return cached, nil
		}
	}

	if e.plugins != nil {
		e.plugins.EmitBeforeResolve(ctx, userID, tenantID)
	}

	tnt, err := e.store.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, storeErr(err, ErrTenantNotFound)
	}

	// Deactivated tenant: every member loses all capabilities there,
	// whatever their roles say.
	if !tnt.IsActive {
		grant := NewGrant(userID, tenantID, false, nil, nil)
		e.finishResolve(ctx, grant)
		return grant, nil
	}

	roleIDs, err := e.store.ListRolesForUser(ctx, userID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	roles := make([]*role.Role, 0, len(roleIDs))
	var permissions []string
	for _, roleID := range roleIDs {
		r, err := e.store.GetRole(ctx, roleID)
		if err != nil {
			// A dangling assignment must not grant anything, but it must
			// not break resolution for the remaining roles either.
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		roles = append(roles, r)

		perms, err := e.store.ListPermissionsByRole(ctx, roleID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		for _, p := range perms {
			permissions = append(permissions, p.Slug)
		}
	}

	grant := NewGrant(userID, tenantID, true, roles, permissions)
	e.finishResolve(ctx, grant)
	return grant, nil
}

func (e *Engine) finishResolve(ctx context.Context, grant *Grant) {
	if e.cache != nil {
		e.cache.Set(ctx, grant.UserID, grant.TenantID, grant)
	}
	if e.plugins != nil {
		e.plugins.EmitAfterResolve(ctx, grant.UserID, grant.TenantID, grant)
	}
}

// HasPermission reports whether the user holds the permission slug in the
// tenant.
func (e *Engine) HasPermission(ctx context.Context, userID string, tenantID id.TenantID, slug string) (bool, error) {
	grant, err := e.Resolve(ctx, userID, tenantID)
	if err != nil {
		return false, err
	}
	return grant.Has(slug), nil
}

// HasRole reports whether the user holds a role with the given slug in the
// tenant.
func (e *Engine) HasRole(ctx context.Context, userID string, tenantID id.TenantID, roleSlug string) (bool, error) {
	grant, err := e.Resolve(ctx, userID, tenantID)
	if err != nil {
		return false, err
	}
	return grant.HasRole(roleSlug), nil
}

// EffectiveRoles returns the roles the user holds in the tenant. Returns
// an empty slice when the tenant is inactive.
func (e *Engine) EffectiveRoles(ctx context.Context, userID string, tenantID id.TenantID) ([]*role.Role, error) {
	grant, err := e.Resolve(ctx, userID, tenantID)
	if err != nil {
		return nil, err
	}
	return grant.Roles, nil
}

// Enforce returns ErrAccessDenied if the user does not hold the permission
// slug in the tenant.
func (e *Engine) Enforce(ctx context.Context, userID string, tenantID id.TenantID, slug string) error {
	ok, err := e.HasPermission(ctx, userID, tenantID, slug)
	if err != nil {
		return fmt.Errorf("custos resolve: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s lacks %q in tenant %s", ErrAccessDenied, userID, slug, tenantID)
	}
	return nil
}
