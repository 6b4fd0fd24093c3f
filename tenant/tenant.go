// Package tenant defines the Tenant entity and its store interface.
//
// A tenant is an organizational unit (a hospital, clinic, or regional
// office) that scopes role assignments. Deactivating a tenant removes
// every capability its members would otherwise hold there, regardless of
// their roles.
package tenant

import (
	"time"

	"github.com/xraph/custos/id"
)

// Tenant represents an organizational unit users can belong to.
type Tenant struct {
	ID        id.TenantID `json:"id" db:"id"`
	Name      string      `json:"name" db:"name"`
	Slug      string      `json:"slug" db:"slug"`
	Address   string      `json:"address,omitempty" db:"address"`
	Phone     string      `json:"phone,omitempty" db:"phone"`
	Email     string      `json:"email,omitempty" db:"email"`
	IsActive  bool        `json:"is_active" db:"is_active"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing tenants.
type ListFilter struct {
	IsActive *bool  `json:"is_active,omitempty"`
	Search   string `json:"search,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}
