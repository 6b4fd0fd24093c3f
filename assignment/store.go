package assignment

import (
	"context"

	"github.com/xraph/custos/id"
)

// Store defines persistence operations for role assignments.
type Store interface {
	// CreateAssignment persists a new assignment.
	CreateAssignment(ctx context.Context, a *Assignment) error

	// GetAssignment retrieves an assignment by ID.
	GetAssignment(ctx context.Context, asgnID id.AssignmentID) (*Assignment, error)

	// FindAssignment retrieves the assignment for an exact
	// (user, role, tenant) triple.
	FindAssignment(ctx context.Context, userID string, roleID id.RoleID, tenantID id.TenantID) (*Assignment, error)

	// DeleteAssignment removes an assignment by ID.
	DeleteAssignment(ctx context.Context, asgnID id.AssignmentID) error

	// ListAssignments returns assignments matching the filter.
	ListAssignments(ctx context.Context, filter *ListFilter) ([]*Assignment, error)

	// CountAssignments returns the number of assignments matching the filter.
	CountAssignments(ctx context.Context, filter *ListFilter) (int64, error)

	// ListRolesForUser returns role IDs assigned to a user within a tenant.
	ListRolesForUser(ctx context.Context, userID string, tenantID id.TenantID) ([]id.RoleID, error)

	// ListAssignmentsForUser returns all assignments a user holds across
	// tenants, oldest first.
	ListAssignmentsForUser(ctx context.Context, userID string) ([]*Assignment, error)

	// ListAssignmentsForRole returns all assignments for a given role.
	ListAssignmentsForRole(ctx context.Context, roleID id.RoleID) ([]*Assignment, error)

	// DeleteAssignmentsByRole removes all assignments for a role.
	DeleteAssignmentsByRole(ctx context.Context, roleID id.RoleID) error

	// DeleteAssignmentsByTenant removes all assignments within a tenant.
	DeleteAssignmentsByTenant(ctx context.Context, tenantID id.TenantID) error
}
