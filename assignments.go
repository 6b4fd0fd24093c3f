package custos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/custos/assignment"
	"github.com/xraph/custos/audit"
	"github.com/xraph/custos/id"
	"github.com/xraph/custos/store"
)

// AssignRole grants a user a role within a tenant. Assigning a triple that
// already exists is a no-op and returns the existing assignment.
func (e *Engine) AssignRole(ctx context.Context, userID string, roleID id.RoleID, tenantID id.TenantID) (*assignment.Assignment, error) {
	if _, err := e.store.GetRole(ctx, roleID); err != nil {
		return nil, storeErr(err, ErrRoleNotFound)
	}
	if _, err := e.store.GetTenant(ctx, tenantID); err != nil {
		return nil, storeErr(err, ErrTenantNotFound)
	}

	existing, err := e.store.FindAssignment(ctx, userID, roleID, tenantID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	a := &assignment.Assignment{
		ID:        id.NewAssignmentID(),
		UserID:    userID,
		RoleID:    roleID,
		TenantID:  tenantID,
		GrantedBy: actorFromContext(ctx),
		CreatedAt: time.Now(),
	}
	if err := e.store.CreateAssignment(ctx, a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.invalidateUser(ctx, userID)

	e.recordAudit(ctx, audit.ActionRoleAssigned, "assignment", a.ID, tenantID.String(), map[string]any{
		"user_id": userID,
		"role_id": roleID.String(),
	})
	if e.plugins != nil {
		e.plugins.EmitRoleAssigned(ctx, a)
	}

	return a, nil
}

// RevokeRole removes a user's role within a tenant. Revoking a triple that
// does not exist is a silent no-op.
func (e *Engine) RevokeRole(ctx context.Context, userID string, roleID id.RoleID, tenantID id.TenantID) error {
	a, err := e.store.FindAssignment(ctx, userID, roleID, tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := e.store.DeleteAssignment(ctx, a.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.invalidateUser(ctx, userID)

	e.recordAudit(ctx, audit.ActionRoleRevoked, "assignment", a.ID, tenantID.String(), map[string]any{
		"user_id": userID,
		"role_id": roleID.String(),
	})
	if e.plugins != nil {
		e.plugins.EmitRoleRevoked(ctx, a)
	}

	return nil
}

// ListAssignments returns assignments matching the filter.
func (e *Engine) ListAssignments(ctx context.Context, filter *assignment.ListFilter) ([]*assignment.Assignment, error) {
	if filter == nil {
		filter = &assignment.ListFilter{}
	}
	filter.Limit = e.config.listLimit(filter.Limit)

	assignments, err := e.store.ListAssignments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return assignments, nil
}

// UserAssignments returns every assignment the user holds across tenants,
// oldest first.
func (e *Engine) UserAssignments(ctx context.Context, userID string) ([]*assignment.Assignment, error) {
	assignments, err := e.store.ListAssignmentsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return assignments, nil
}

// UserTenants returns the distinct tenants the user has assignments in,
// in order of oldest assignment first.
func (e *Engine) UserTenants(ctx context.Context, userID string) ([]id.TenantID, error) {
	assignments, err := e.store.ListAssignmentsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	seen := make(map[string]struct{}, len(assignments))
	tenants := make([]id.TenantID, 0, len(assignments))
	for _, a := range assignments {
		key := a.TenantID.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tenants = append(tenants, a.TenantID)
	}
	return tenants, nil
}
