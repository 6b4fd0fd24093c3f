// Package permission defines the Permission entity and its store interface.
//
// Permissions form a fixed global catalog of capabilities. Each permission
// is identified by a dot-separated slug such as "users.list" or
// "supply.requests.approve"; the final segment is the action and the
// leading segments name the resource.
package permission

import (
	"time"

	"github.com/xraph/custos/id"
)

// Permission represents a single named capability in the catalog.
type Permission struct {
	ID          id.PermissionID `json:"id" db:"id"`
	Slug        string          `json:"slug" db:"slug"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description,omitempty" db:"description"`
	Resource    string          `json:"resource" db:"resource"`
	Action      string          `json:"action" db:"action"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing permissions.
type ListFilter struct {
	Resource string `json:"resource,omitempty"`
	Action   string `json:"action,omitempty"`
	Search   string `json:"search,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}
