// Package audit defines the mutation audit log Entry entity.
package audit

import (
	"time"

	"github.com/xraph/custos/id"
)

// Actions recorded in the audit log.
const (
	ActionRoleCreated       = "role.created"
	ActionRoleUpdated       = "role.updated"
	ActionRoleDeleted       = "role.deleted"
	ActionTenantCreated     = "tenant.created"
	ActionTenantUpdated     = "tenant.updated"
	ActionTenantDeleted     = "tenant.deleted"
	ActionTenantActivated   = "tenant.activated"
	ActionTenantDeactivated = "tenant.deactivated"
	ActionRoleAssigned      = "role.assigned"
	ActionRoleRevoked       = "role.revoked"
)

// Entry is a single mutation audit record. TenantID is set for mutations
// scoped to a tenant (assignment and tenant changes) and empty for global
// ones such as role edits.
type Entry struct {
	ID         id.AuditLogID  `json:"id" db:"id"`
	Actor      string         `json:"actor" db:"actor"`
	Action     string         `json:"action" db:"action"`
	EntityKind string         `json:"entity_kind" db:"entity_kind"`
	EntityID   string         `json:"entity_id" db:"entity_id"`
	TenantID   string         `json:"tenant_id,omitempty" db:"tenant_id"`
	Details    map[string]any `json:"details,omitempty" db:"details"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}

// QueryFilter contains filters for querying audit entries.
type QueryFilter struct {
	Actor      string     `json:"actor,omitempty"`
	Action     string     `json:"action,omitempty"`
	EntityKind string     `json:"entity_kind,omitempty"`
	EntityID   string     `json:"entity_id,omitempty"`
	TenantID   string     `json:"tenant_id,omitempty"`
	After      *time.Time `json:"after,omitempty"`
	Before     *time.Time `json:"before,omitempty"`
	Limit      int        `json:"limit,omitempty"`
	Offset     int        `json:"offset,omitempty"`
}
