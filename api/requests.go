package api

// ──────────────────────────────────────────────────
// Grant requests
// ──────────────────────────────────────────────────

// ResolveGrantRequest holds parameters for resolving a user's grant.
type ResolveGrantRequest struct {
	UserID   string `query:"user_id" description:"User identifier"`
	TenantID string `query:"tenant_id" description:"Tenant ID"`
}

// CheckRequest is the request body for a permission check.
type CheckRequest struct {
	UserID     string `json:"user_id" description:"User identifier"`
	TenantID   string `json:"tenant_id" description:"Tenant ID"`
	Permission string `json:"permission" description:"Permission slug (e.g. supply.requests.approve)"`
}

// ──────────────────────────────────────────────────
// Role requests
// ──────────────────────────────────────────────────

// CreateRoleRequest is the body for creating a role.
type CreateRoleRequest struct {
	Name        string   `json:"name" description:"Role name"`
	Description string   `json:"description,omitempty" description:"Human-readable description"`
	Kind        string   `json:"kind,omitempty" description:"Role kind (system or custom, default custom)"`
	Permissions []string `json:"permissions,omitempty" description:"Permission slugs to grant"`
}

// UpdateRoleRequest is the body for updating a role.
type UpdateRoleRequest struct {
	Name        *string   `json:"name,omitempty" description:"New role name"`
	Description *string   `json:"description,omitempty" description:"New description"`
	Permissions *[]string `json:"permissions,omitempty" description:"Replacement permission slugs"`
}

// GetRoleRequest is the path parameter for getting a role.
type GetRoleRequest struct {
	RoleID string `path:"roleId" description:"Role ID"`
}

// ListRolesRequest holds query parameters for listing roles.
type ListRolesRequest struct {
	Kind   string `query:"kind" description:"Filter by role kind (system or custom)"`
	Search string `query:"search" description:"Search by name"`
	Limit  int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Permission requests
// ──────────────────────────────────────────────────

// EnsurePermissionRequest is the body for registering a permission.
type EnsurePermissionRequest struct {
	Slug        string `json:"slug" description:"Permission slug (e.g. announcements.create)"`
	Name        string `json:"name,omitempty" description:"Display name (defaults to slug)"`
	Description string `json:"description,omitempty" description:"Human-readable description"`
}

// GetPermissionRequest is the path parameter for getting a permission.
type GetPermissionRequest struct {
	PermissionID string `path:"permissionId" description:"Permission ID"`
}

// ListPermissionsRequest holds query parameters.
type ListPermissionsRequest struct {
	Resource string `query:"resource" description:"Filter by resource"`
	Action   string `query:"action" description:"Filter by action"`
	Search   string `query:"search" description:"Search by name"`
	Limit    int    `query:"limit" description:"Maximum results"`
	Offset   int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Tenant requests
// ──────────────────────────────────────────────────

// CreateTenantRequest is the body for creating a tenant.
type CreateTenantRequest struct {
	Name    string `json:"name" description:"Tenant name"`
	Slug    string `json:"slug,omitempty" description:"URL-safe slug (derived from name when empty)"`
	Address string `json:"address,omitempty" description:"Street address"`
	Phone   string `json:"phone,omitempty" description:"Contact phone"`
	Email   string `json:"email,omitempty" description:"Contact email"`
}

// UpdateTenantRequest is the body for updating a tenant.
type UpdateTenantRequest struct {
	Name    *string `json:"name,omitempty" description:"New tenant name"`
	Address *string `json:"address,omitempty" description:"New street address"`
	Phone   *string `json:"phone,omitempty" description:"New contact phone"`
	Email   *string `json:"email,omitempty" description:"New contact email"`
}

// GetTenantRequest is the path parameter for getting a tenant.
type GetTenantRequest struct {
	TenantID string `path:"tenantId" description:"Tenant ID"`
}

// ListTenantsRequest holds query parameters.
type ListTenantsRequest struct {
	Active *bool  `query:"active" description:"Filter by active status"`
	Search string `query:"search" description:"Search by name"`
	Limit  int    `query:"limit" description:"Maximum results"`
	Offset int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Assignment requests
// ──────────────────────────────────────────────────

// AssignRoleRequest is the body for assigning a role to a user in a tenant.
type AssignRoleRequest struct {
	UserID   string `json:"user_id" description:"User identifier"`
	RoleID   string `json:"role_id" description:"Role ID to assign"`
	TenantID string `json:"tenant_id" description:"Tenant the assignment applies to"`
}

// RevokeRoleRequest is the body for revoking a role from a user in a tenant.
type RevokeRoleRequest struct {
	UserID   string `json:"user_id" description:"User identifier"`
	RoleID   string `json:"role_id" description:"Role ID to revoke"`
	TenantID string `json:"tenant_id" description:"Tenant the assignment applies to"`
}

// ListAssignmentsRequest holds query parameters.
type ListAssignmentsRequest struct {
	UserID   string `query:"user_id" description:"Filter by user"`
	RoleID   string `query:"role_id" description:"Filter by role ID"`
	TenantID string `query:"tenant_id" description:"Filter by tenant ID"`
	Limit    int    `query:"limit" description:"Maximum results"`
	Offset   int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Audit requests
// ──────────────────────────────────────────────────

// ListAuditEntriesRequest holds query parameters for the audit log.
type ListAuditEntriesRequest struct {
	Actor      string `query:"actor" description:"Filter by acting user"`
	Action     string `query:"action" description:"Filter by action (e.g. role.created)"`
	EntityKind string `query:"entity_kind" description:"Filter by entity kind (role, tenant, assignment)"`
	EntityID   string `query:"entity_id" description:"Filter by entity ID"`
	TenantID   string `query:"tenant_id" description:"Filter by tenant"`
	After      string `query:"after" description:"Entries after this time (RFC3339)"`
	Before     string `query:"before" description:"Entries before this time (RFC3339)"`
	Limit      int    `query:"limit" description:"Maximum results"`
	Offset     int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Workspace requests
// ──────────────────────────────────────────────────

// SignInRequest is the body for opening a workspace session.
type SignInRequest struct {
	UserID string `json:"user_id" description:"User identifier"`
}

// SwitchTenantRequest is the body for switching the active tenant.
type SwitchTenantRequest struct {
	UserID   string `json:"user_id" description:"User identifier"`
	TenantID string `json:"tenant_id" description:"Tenant to switch to"`
}
