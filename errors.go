package custos

import "errors"

var (
	// ErrAccessDenied is returned when an authorization check fails.
	ErrAccessDenied = errors.New("custos: access denied")

	// ErrRoleNotFound is returned when a role cannot be found.
	ErrRoleNotFound = errors.New("custos: role not found")

	// ErrPermissionNotFound is returned when a permission cannot be found.
	ErrPermissionNotFound = errors.New("custos: permission not found")

	// ErrTenantNotFound is returned when a tenant cannot be found.
	ErrTenantNotFound = errors.New("custos: tenant not found")

	// ErrAssignmentNotFound is returned when an assignment cannot be found.
	ErrAssignmentNotFound = errors.New("custos: assignment not found")

	// ErrNameRequired is returned when a role or tenant name is empty.
	ErrNameRequired = errors.New("custos: name is required")

	// ErrDuplicateName is returned when a role name collides with an
	// existing role, ignoring case.
	ErrDuplicateName = errors.New("custos: name already in use")

	// ErrDuplicateSlug is returned when a tenant slug collides with an
	// existing tenant.
	ErrDuplicateSlug = errors.New("custos: slug already in use")

	// ErrUnknownPermission is returned when a role references a permission
	// slug that is not in the catalog.
	ErrUnknownPermission = errors.New("custos: unknown permission")

	// ErrSystemRoleProtected is returned when trying to delete a system role.
	ErrSystemRoleProtected = errors.New("custos: system role cannot be deleted")

	// ErrRoleInUse is returned when deleting a role that still has
	// assignments and cascade deletion is disabled.
	ErrRoleInUse = errors.New("custos: role has active assignments")

	// ErrTenantInactive is returned when an operation requires an active
	// tenant but the tenant is deactivated.
	ErrTenantInactive = errors.New("custos: tenant is inactive")

	// ErrNotAMember is returned when a user has no assignment in the
	// requested tenant.
	ErrNotAMember = errors.New("custos: user is not a member of tenant")

	// ErrStoreUnavailable is returned when the backing store cannot be
	// reached. Callers must treat this as a denial.
	ErrStoreUnavailable = errors.New("custos: store unavailable")
)
