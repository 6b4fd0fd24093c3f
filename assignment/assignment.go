// Package assignment defines the Assignment entity (user→role→tenant binding).
package assignment

import (
	"time"

	"github.com/xraph/custos/id"
)

// Assignment grants a user a role within a tenant. The (user, role, tenant)
// triple is unique; assigning the same triple twice is a no-op.
type Assignment struct {
	ID        id.AssignmentID `json:"id" db:"id"`
	UserID    string          `json:"user_id" db:"user_id"`
	RoleID    id.RoleID       `json:"role_id" db:"role_id"`
	TenantID  id.TenantID     `json:"tenant_id" db:"tenant_id"`
	GrantedBy string          `json:"granted_by,omitempty" db:"granted_by"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// ListFilter contains filters for listing assignments.
type ListFilter struct {
	UserID   string       `json:"user_id,omitempty"`
	RoleID   *id.RoleID   `json:"role_id,omitempty"`
	TenantID *id.TenantID `json:"tenant_id,omitempty"`
	Limit    int          `json:"limit,omitempty"`
	Offset   int          `json:"offset,omitempty"`
}
