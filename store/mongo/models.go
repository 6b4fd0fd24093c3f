package mongo

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/custos/assignment"
	"github.com/xraph/custos/audit"
	"github.com/xraph/custos/id"
	"github.com/xraph/custos/permission"
	"github.com/xraph/custos/role"
	"github.com/xraph/custos/tenant"
)

// ──────────────────────────────────────────────────
// Role model
// ──────────────────────────────────────────────────

type roleModel struct {
	grove.BaseModel `grove:"table:custos_roles"`
	ID              string    `grove:"id,pk"        bson:"_id"`
	Name            string    `grove:"name"         bson:"name"`
	Slug            string    `grove:"slug"         bson:"slug"`
	Description     string    `grove:"description"  bson:"description"`
	Kind            string    `grove:"kind"         bson:"kind"`
	CreatedAt       time.Time `grove:"created_at"   bson:"created_at"`
	UpdatedAt       time.Time `grove:"updated_at"   bson:"updated_at"`
}

func roleToModel(r *role.Role) *roleModel {
	return &roleModel{
		ID:          r.ID.String(),
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Kind:        string(r.Kind),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func roleFromModel(m *roleModel) *role.Role {
	rid, _ := id.ParseRoleID(m.ID) //nolint:errcheck // stored IDs are always valid
	return &role.Role{
		ID:          rid,
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		Kind:        role.Kind(m.Kind),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ──────────────────────────────────────────────────
// Permission model
// ──────────────────────────────────────────────────

type permissionModel struct {
	grove.BaseModel `grove:"table:custos_permissions"`
	ID              string    `grove:"id,pk"        bson:"_id"`
	Slug            string    `grove:"slug"         bson:"slug"`
	Name            string    `grove:"name"         bson:"name"`
	Description     string    `grove:"description"  bson:"description"`
	Resource        string    `grove:"resource"     bson:"resource"`
	Action          string    `grove:"action"       bson:"action"`
	CreatedAt       time.Time `grove:"created_at"   bson:"created_at"`
	UpdatedAt       time.Time `grove:"updated_at"   bson:"updated_at"`
}

func permissionToModel(p *permission.Permission) *permissionModel {
	return &permissionModel{
		ID:          p.ID.String(),
		Slug:        p.Slug,
		Name:        p.Name,
		Description: p.Description,
		Resource:    p.Resource,
		Action:      p.Action,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func permissionFromModel(m *permissionModel) *permission.Permission {
	pid, _ := id.ParsePermissionID(m.ID) //nolint:errcheck // stored IDs are always valid
	return &permission.Permission{
		ID:          pid,
		Slug:        m.Slug,
		Name:        m.Name,
		Description: m.Description,
		Resource:    m.Resource,
		Action:      m.Action,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ──────────────────────────────────────────────────
// Role-Permission junction model
// ──────────────────────────────────────────────────

type rolePermissionModel struct {
	grove.BaseModel `grove:"table:custos_role_permissions"`
	RoleID          string `grove:"role_id"        bson:"role_id"`
	PermissionID    string `grove:"permission_id"  bson:"permission_id"`
}

// ──────────────────────────────────────────────────
// Tenant model
// ──────────────────────────────────────────────────

type tenantModel struct {
	grove.BaseModel `grove:"table:custos_tenants"`
	ID              string    `grove:"id,pk"       bson:"_id"`
	Name            string    `grove:"name"        bson:"name"`
	Slug            string    `grove:"slug"        bson:"slug"`
	Address         string    `grove:"address"     bson:"address"`
	Phone           string    `grove:"phone"       bson:"phone"`
	Email           string    `grove:"email"       bson:"email"`
	IsActive        bool      `grove:"is_active"   bson:"is_active"`
	CreatedAt       time.Time `grove:"created_at"  bson:"created_at"`
	UpdatedAt       time.Time `grove:"updated_at"  bson:"updated_at"`
}

func tenantToModel(t *tenant.Tenant) *tenantModel {
	return &tenantModel{
		ID:        t.ID.String(),
		Name:      t.Name,
		Slug:      t.Slug,
		Address:   t.Address,
		Phone:     t.Phone,
		Email:     t.Email,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func tenantFromModel(m *tenantModel) *tenant.Tenant {
	tid, _ := id.ParseTenantID(m.ID) //nolint:errcheck // stored IDs are always valid
	return &tenant.Tenant{
		ID:        tid,
		Name:      m.Name,
		Slug:      m.Slug,
		Address:   m.Address,
		Phone:     m.Phone,
		Email:     m.Email,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ──────────────────────────────────────────────────
// Assignment model
// ──────────────────────────────────────────────────

type assignmentModel struct {
	grove.BaseModel `grove:"table:custos_assignments"`
	ID              string    `grove:"id,pk"       bson:"_id"`
	UserID          string    `grove:"user_id"     bson:"user_id"`
	RoleID          string    `grove:"role_id"     bson:"role_id"`
	TenantID        string    `grove:"tenant_id"   bson:"tenant_id"`
	GrantedBy       string    `grove:"granted_by"  bson:"granted_by"`
	CreatedAt       time.Time `grove:"created_at"  bson:"created_at"`
}

func assignmentToModel(a *assignment.Assignment) *assignmentModel {
	return &assignmentModel{
		ID:        a.ID.String(),
		UserID:    a.UserID,
		RoleID:    a.RoleID.String(),
		TenantID:  a.TenantID.String(),
		GrantedBy: a.GrantedBy,
		CreatedAt: a.CreatedAt,
	}
}

func assignmentFromModel(m *assignmentModel) *assignment.Assignment {
	aid, _ := id.ParseAssignmentID(m.ID) //nolint:errcheck // stored IDs are always valid
	rid, _ := id.ParseRoleID(m.RoleID)   //nolint:errcheck // stored IDs are always valid
	tid, _ := id.ParseTenantID(m.TenantID)
	return &assignment.Assignment{
		ID:        aid,
		UserID:    m.UserID,
		RoleID:    rid,
		TenantID:  tid,
		GrantedBy: m.GrantedBy,
		CreatedAt: m.CreatedAt,
	}
}

// ──────────────────────────────────────────────────
// Audit entry model
// ──────────────────────────────────────────────────

type auditEntryModel struct {
	grove.BaseModel `grove:"table:custos_audit_logs"`
	ID              string         `grove:"id,pk"        bson:"_id"`
	Actor           string         `grove:"actor"        bson:"actor"`
	Action          string         `grove:"action"       bson:"action"`
	EntityKind      string         `grove:"entity_kind"  bson:"entity_kind"`
	EntityID        string         `grove:"entity_id"    bson:"entity_id"`
	TenantID        string         `grove:"tenant_id"    bson:"tenant_id,omitempty"`
	Details         map[string]any `grove:"details"      bson:"details,omitempty"`
	CreatedAt       time.Time      `grove:"created_at"   bson:"created_at"`
}

func auditEntryToModel(e *audit.Entry) *auditEntryModel {
	return &auditEntryModel{
		ID:         e.ID.String(),
		Actor:      e.Actor,
		Action:     e.Action,
		EntityKind: e.EntityKind,
		EntityID:   e.EntityID,
		TenantID:   e.TenantID,
		Details:    e.Details,
		CreatedAt:  e.CreatedAt,
	}
}

func auditEntryFromModel(m *auditEntryModel) *audit.Entry {
	lid, _ := id.ParseAuditLogID(m.ID) //nolint:errcheck // stored IDs are always valid
	return &audit.Entry{
		ID:         lid,
		Actor:      m.Actor,
		Action:     m.Action,
		EntityKind: m.EntityKind,
		EntityID:   m.EntityID,
		TenantID:   m.TenantID,
		Details:    m.Details,
		CreatedAt:  m.CreatedAt,
	}
}
