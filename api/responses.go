package api

// CheckResponse is the response for a permission check.
type CheckResponse struct {
	Allowed    bool   `json:"allowed" description:"Whether the user holds the permission"`
	Permission string `json:"permission" description:"Permission slug that was checked"`
	TenantID   string `json:"tenant_id" description:"Tenant the check ran against"`
}

// GrantResponse is the wire form of a resolved grant.
type GrantResponse struct {
	UserID       string   `json:"user_id" description:"User identifier"`
	TenantID     string   `json:"tenant_id" description:"Tenant ID"`
	TenantActive bool     `json:"tenant_active" description:"Whether the tenant is active"`
	Roles        []string `json:"roles" description:"Role slugs held in the tenant"`
	Permissions  []string `json:"permissions" description:"Effective permission slugs"`
}

// SessionResponse is the wire form of a workspace session.
type SessionResponse struct {
	UserID   string         `json:"user_id" description:"User identifier"`
	TenantID string         `json:"tenant_id,omitempty" description:"Selected tenant ID"`
	Tenant   string         `json:"tenant,omitempty" description:"Selected tenant name"`
	Grant    *GrantResponse `json:"grant,omitempty" description:"Grant in the selected tenant"`
}

// ListResponse wraps a list of items with pagination metadata.
type ListResponse[T any] struct {
	Items  []T   `json:"items" description:"List of items"`
	Total  int64 `json:"total" description:"Total count"`
	Limit  int   `json:"limit" description:"Page size"`
	Offset int   `json:"offset" description:"Page offset"`
}
