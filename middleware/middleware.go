// Package middleware provides HTTP authorization middleware for Custos.
package middleware

import (
	"encoding/json"

	"github.com/xraph/forge"

	"github.com/xraph/custos"
	"github.com/xraph/custos/id"
)

// Require enforces a single permission. It resolves the user from the
// request context and the tenant from the Forge scope (or an explicit
// custos.WithTenant), then checks the user's grant in that tenant.
func Require(eng *custos.Engine, slug string) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			grant, ok := resolveGrant(ctx, eng)
			if !ok || !grant.Has(slug) {
				return denyResponse(ctx)
			}
			return next(ctx)
		}
	}
}

// RequireAny allows the request if the user holds ANY of the permissions.
func RequireAny(eng *custos.Engine, slugs ...string) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			grant, ok := resolveGrant(ctx, eng)
			if !ok || !grant.HasAny(slugs...) {
				return denyResponse(ctx)
			}
			return next(ctx)
		}
	}
}

// RequireAll allows the request only if the user holds ALL of the
// permissions.
func RequireAll(eng *custos.Engine, slugs ...string) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			grant, ok := resolveGrant(ctx, eng)
			if !ok || !grant.HasAll(slugs...) {
				return denyResponse(ctx)
			}
			return next(ctx)
		}
	}
}

// RequireRole allows the request only if the user holds the role in the
// current tenant.
func RequireRole(eng *custos.Engine, roleSlug string) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			grant, ok := resolveGrant(ctx, eng)
			if !ok || !grant.HasRole(roleSlug) {
				return denyResponse(ctx)
			}
			return next(ctx)
		}
	}
}

// resolveGrant resolves the caller's grant for the request. Any failure,
// including a missing user or tenant and store errors, reads as no grant:
// the middleware fails closed.
func resolveGrant(ctx forge.Context, eng *custos.Engine) (*custos.Grant, bool) {
	userID := forge.UserIDFromContext(ctx.Context())
	if userID == "" {
		return nil, false
	}

	tenantID, ok := resolveTenant(ctx)
	if !ok {
		return nil, false
	}

	grant, err := eng.Resolve(ctx.Context(), userID, tenantID)
	if err != nil {
		return nil, false
	}
	return grant, true
}

// resolveTenant extracts the tenant from an explicit custos.WithTenant or
// the Forge scope.
func resolveTenant(ctx forge.Context) (id.TenantID, bool) {
	if tid, ok := custos.TenantFromContext(ctx.Context()); ok {
		return tid, true
	}
	if s, ok := forge.ScopeFrom(ctx.Context()); ok {
		tid, err := id.ParseTenantID(s.OrgID())
		if err == nil {
			return tid, true
		}
	}
	return id.Nil, false
}

func denyResponse(ctx forge.Context) error {
	ctx.SetHeader("Content-Type", "application/json")
	ctx.Response().WriteHeader(403)
	return json.NewEncoder(ctx.Response()).Encode(map[string]string{"error": "access denied"})
}
