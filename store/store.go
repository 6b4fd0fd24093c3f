// Package store defines the aggregate persistence interface. Each subsystem
// (role, permission, tenant, assignment, audit) defines its own store
// interface. The composite Store composes them all.
// Backends: Mongo, Postgres, and Memory.
package store

import (
	"context"
	"errors"

	"github.com/xraph/custos/assignment"
	"github.com/xraph/custos/audit"
	"github.com/xraph/custos/permission"
	"github.com/xraph/custos/role"
	"github.com/xraph/custos/tenant"
)

// ErrNotFound is the sentinel wrapped by all backends when an entity does
// not exist. It lets callers tell a missing entity apart from a backend
// failure.
var ErrNotFound = errors.New("store: not found")

// Store is the aggregate persistence interface.
// A single backend (mongo, postgres, memory) implements all subsystem stores.
type Store interface {
	role.Store
	permission.Store
	tenant.Store
	assignment.Store
	audit.Store

	// Migrate runs all schema migrations.
	Migrate(ctx context.Context) error

	// Ping checks database connectivity.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
