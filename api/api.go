// Package api provides HTTP handlers for the Custos access-control engine.
package api

import (
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/custos"
	"github.com/xraph/custos/workspace"
)

// API wires all Custos HTTP handlers together.
type API struct {
	eng    *custos.Engine
	ws     *workspace.Manager
	router forge.Router
}

// Option configures the API.
type Option func(*API)

// WithWorkspace enables the workspace session routes backed by the given manager.
func WithWorkspace(m *workspace.Manager) Option {
	return func(a *API) { a.ws = m }
}

// New creates an API from an Engine and a Forge router.
func New(eng *custos.Engine, router forge.Router, opts ...Option) *API {
	a := &API{eng: eng, router: router}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Handler returns the fully assembled http.Handler with all routes.
func (a *API) Handler() http.Handler {
	if a.router == nil {
		a.router = forge.NewRouter()
	}
	if err := a.RegisterRoutes(a.router); err != nil {
		panic("custos: register routes: " + err.Error())
	}
	return a.router.Handler()
}

// RegisterRoutes registers all API routes into the given Forge router.
func (a *API) RegisterRoutes(router forge.Router) error {
	registerers := []func(forge.Router) error{
		a.registerGrantRoutes,
		a.registerRoleRoutes,
		a.registerPermissionRoutes,
		a.registerTenantRoutes,
		a.registerAssignmentRoutes,
		a.registerAuditRoutes,
	}
	if a.ws != nil {
		registerers = append(registerers, a.registerWorkspaceRoutes)
	}
	for _, fn := range registerers {
		if err := fn(router); err != nil {
			return err
		}
	}
	return nil
}
