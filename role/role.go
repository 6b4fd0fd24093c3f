// Package role defines the Role entity and its store interface.
//
// Roles are global: a role's name and slug are unique across the whole
// deployment, and the same role can be assigned to users in any tenant.
package role

import (
	"time"

	"github.com/xraph/custos/id"
)

// Kind classifies a role as built-in or operator-defined.
type Kind string

// Role kinds.
const (
	// KindSystem marks a built-in role that cannot be deleted.
	KindSystem Kind = "system"

	// KindCustom marks an operator-defined role.
	KindCustom Kind = "custom"
)

// Role represents a named bundle of permissions assignable to users.
type Role struct {
	ID          id.RoleID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description,omitempty" db:"description"`
	Kind        Kind      `json:"kind" db:"kind"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// IsSystem reports whether the role is built-in and protected from deletion.
func (r *Role) IsSystem() bool {
	return r.Kind == KindSystem
}

// ListFilter contains filters for listing roles.
type ListFilter struct {
	Kind   *Kind  `json:"kind,omitempty"`
	Search string `json:"search,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}
