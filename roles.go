package custos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/custos/assignment"
	"github.com/xraph/custos/audit"
	"github.com/xraph/custos/id"
	"github.com/xraph/custos/permission"
	"github.com/xraph/custos/role"
	"github.com/xraph/custos/store"
)

// CreateRoleInput carries the fields for creating a role.
type CreateRoleInput struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Kind        role.Kind `json:"kind,omitempty"`

	// Permissions is the set of permission slugs the role grants.
	Permissions []string `json:"permissions,omitempty"`
}

// UpdateRoleInput carries the fields for updating a role. Nil fields are
// left unchanged.
type UpdateRoleInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`

	// Permissions, when non-nil, replaces the role's whole permission set.
	Permissions *[]string `json:"permissions,omitempty"`
}

// CreateRole creates a role with the given permission set. The slug is
// derived from the name; names that collapse to the same slug are rejected
// as duplicates regardless of case.
func (e *Engine) CreateRole(ctx context.Context, input CreateRoleInput) (*role.Role, error) {
	if input.Name == "" {
		return nil, ErrNameRequired
	}

	slug := roleSlug(input.Name)
	if _, err := e.store.GetRoleBySlug(ctx, slug); err == nil {
		return nil, fmt.Errorf("%w: role %q", ErrDuplicateName, input.Name)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	permIDs, err := e.resolvePermissionSlugs(ctx, input.Permissions)
	if err != nil {
		return nil, err
	}

	kind := input.Kind
	if kind == "" {
		kind = role.KindCustom
	}

	now := time.Now()
	r := &role.Role{
		ID:          id.NewRoleID(),
		Name:        input.Name,
		Slug:        slug,
		Description: input.Description,
		Kind:        kind,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := e.store.CreateRole(ctx, r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if len(permIDs) > 0 {
		if err := e.store.SetRolePermissions(ctx, r.ID, permIDs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	}

	e.recordAudit(ctx, audit.ActionRoleCreated, "role", r.ID, "", map[string]any{
		"name":        r.Name,
		"permissions": input.Permissions,
	})
	if e.plugins != nil {
		e.plugins.EmitRoleCreated(ctx, r)
	}

	return r, nil
}

// GetRole retrieves a role by ID.
func (e *Engine) GetRole(ctx context.Context, roleID id.RoleID) (*role.Role, error) {
	r, err := e.store.GetRole(ctx, roleID)
	if err != nil {
		return nil, storeErr(err, ErrRoleNotFound)
	}
	return r, nil
}

// GetRoleBySlug retrieves a role by its slug.
func (e *Engine) GetRoleBySlug(ctx context.Context, slug string) (*role.Role, error) {
	r, err := e.store.GetRoleBySlug(ctx, slug)
	if err != nil {
		return nil, storeErr(err, ErrRoleNotFound)
	}
	return r, nil
}

// UpdateRole applies the input to an existing role. Renaming re-derives the
// slug and enforces name uniqueness. A non-nil Permissions replaces the
// role's whole permission set; users holding the role see the change on
// their next resolution.
func (e *Engine) UpdateRole(ctx context.Context, roleID id.RoleID, input UpdateRoleInput) (*role.Role, error) {
	r, err := e.store.GetRole(ctx, roleID)
	if err != nil {
		return nil, storeErr(err, ErrRoleNotFound)
	}

	if input.Name != nil && *input.Name != r.Name {
		if *input.Name == "" {
			return nil, ErrNameRequired
		}
		slug := roleSlug(*input.Name)
		if existing, err := e.store.GetRoleBySlug(ctx, slug); err == nil {
			if existing.ID.String() != r.ID.String() {
				return nil, fmt.Errorf("%w: role %q", ErrDuplicateName, *input.Name)
			}
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		r.Name = *input.Name
		r.Slug = slug
	}
	if input.Description != nil {
		r.Description = *input.Description
	}
	r.UpdatedAt = time.Now()

	// Validate the whole input before the first write so a rejected update
	// leaves the role untouched.
	var permIDs []id.PermissionID
	if input.Permissions != nil {
		permIDs, err = e.resolvePermissionSlugs(ctx, *input.Permissions)
		if err != nil {
			return nil, err
		}
	}

	if err := e.store.UpdateRole(ctx, r); err != nil {
		return nil, storeErr(err, ErrRoleNotFound)
	}

	details := map[string]any{"name": r.Name}
	if input.Permissions != nil {
		if err := e.store.SetRolePermissions(ctx, r.ID, permIDs); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		details["permissions"] = *input.Permissions
	}

	// Role changes can affect every holder of the role, in any tenant.
	e.invalidateAll(ctx)

	e.recordAudit(ctx, audit.ActionRoleUpdated, "role", r.ID, "", details)
	if e.plugins != nil {
		e.plugins.EmitRoleUpdated(ctx, r)
	}

	return r, nil
}

// DeleteRole deletes a custom role. System roles cannot be deleted. When
// cascade deletion is enabled (the default) the role's assignments are
// removed with it; otherwise deleting a role that still has assignments
// fails with ErrRoleInUse.
func (e *Engine) DeleteRole(ctx context.Context, roleID id.RoleID) error {
	r, err := e.store.GetRole(ctx, roleID)
	if err != nil {
		return storeErr(err, ErrRoleNotFound)
	}
	if r.IsSystem() {
		return fmt.Errorf("%w: %s", ErrSystemRoleProtected, r.Slug)
	}

	if e.config.cascadeEnabled() {
		if err := e.store.DeleteAssignmentsByRole(ctx, roleID); err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
	} else {
		n, err := e.store.CountAssignments(ctx, &assignment.ListFilter{RoleID: &roleID})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if n > 0 {
			return fmt.Errorf("%w: %s has %d assignments", ErrRoleInUse, r.Slug, n)
		}
	}

	if err := e.store.DeleteRole(ctx, roleID); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.invalidateAll(ctx)

	e.recordAudit(ctx, audit.ActionRoleDeleted, "role", roleID, "", map[string]any{
		"name": r.Name,
	})
	if e.plugins != nil {
		e.plugins.EmitRoleDeleted(ctx, roleID)
	}

	return nil
}

// ListRoles returns roles matching the filter.
func (e *Engine) ListRoles(ctx context.Context, filter *role.ListFilter) ([]*role.Role, error) {
	if filter == nil {
		filter = &role.ListFilter{}
	}
	filter.Limit = e.config.listLimit(filter.Limit)

	roles, err := e.store.ListRoles(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return roles, nil
}

// RolePermissions returns the permissions attached to a role.
func (e *Engine) RolePermissions(ctx context.Context, roleID id.RoleID) ([]*permission.Permission, error) {
	if _, err := e.store.GetRole(ctx, roleID); err != nil {
		return nil, storeErr(err, ErrRoleNotFound)
	}

	perms, err := e.store.ListPermissionsByRole(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return perms, nil
}

// resolvePermissionSlugs maps permission slugs to catalog IDs, rejecting
// any slug not present in the catalog.
func (e *Engine) resolvePermissionSlugs(ctx context.Context, slugs []string) ([]id.PermissionID, error) {
	permIDs := make([]id.PermissionID, 0, len(slugs))
	for _, slug := range slugs {
		p, err := e.store.GetPermissionBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("%w: %q", ErrUnknownPermission, slug)
			}
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		permIDs = append(permIDs, p.ID)
	}
	return permIDs, nil
}
