// Package custos provides multi-tenant role-based access control for Go.
//
// Custos manages a global permission catalog, a global role store, a tenant
// registry, and per-tenant role assignments. A user's capabilities in a
// tenant are the union of the permissions of every role assigned to them
// there; deactivating a tenant strips all capabilities within it regardless
// of roles. Custos integrates with the Forge ecosystem via custos/extension
// and custos/middleware, and works standalone against any store backend.
//
//	eng, err := custos.NewEngine(
//	    custos.WithStore(memStore),
//	)
//	grant, err := eng.Resolve(ctx, "user_123", hospitalA.ID)
//	if grant.Has("content.write") {
//	    // ...
//	}
package custos

import (
	"sort"

	"github.com/xraph/custos/id"
	"github.com/xraph/custos/role"
)

// Grant is the resolved set of capabilities a user holds in one tenant.
// It is an immutable snapshot: mutations made after resolution are not
// reflected until the grant is resolved again.
type Grant struct {
	UserID       string       `json:"user_id"`
	TenantID     id.TenantID  `json:"tenant_id"`
	TenantActive bool         `json:"tenant_active"`
	Roles        []*role.Role `json:"roles"`
	Permissions  []string     `json:"permissions"`

	permSet map[string]struct{}
	roleSet map[string]struct{}
}

// NewGrant builds a Grant from resolved roles and permission slugs.
// Permissions are deduplicated and sorted.
func NewGrant(userID string, tenantID id.TenantID, tenantActive bool, roles []*role.Role, permissions []string) *Grant {
	permSet := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		permSet[p] = struct{}{}
	}

	unique := make([]string, 0, len(permSet))
	for p := range permSet {
		unique = append(unique, p)
	}
	sort.Strings(unique)

	roleSet := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		roleSet[r.Slug] = struct{}{}
	}

	return &Grant{
		UserID:       userID,
		TenantID:     tenantID,
		TenantActive: tenantActive,
		Roles:        roles,
		Permissions:  unique,
		permSet:      permSet,
		roleSet:      roleSet,
	}
}

// Has reports whether the grant includes the permission slug.
func (g *Grant) Has(slug string) bool {
	if g == nil {
		return false
	}
	_, ok := g.permSet[slug]
	return ok
}

// HasAny reports whether the grant includes at least one of the slugs.
func (g *Grant) HasAny(slugs ...string) bool {
	for _, s := range slugs {
		if g.Has(s) {
			return true
		}
	}
	return false
}

// HasAll reports whether the grant includes every one of the slugs.
func (g *Grant) HasAll(slugs ...string) bool {
	for _, s := range slugs {
		if !g.Has(s) {
			return false
		}
	}
	return true
}

// HasRole reports whether the grant includes a role with the given slug.
func (g *Grant) HasRole(roleSlug string) bool {
	if g == nil {
		return false
	}
	_, ok := g.roleSet[roleSlug]
	return ok
}
