package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/custos"
	"github.com/xraph/custos/id"
)

func (a *API) registerGrantRoutes(router forge.Router) error {
	g := router.Group("/v1/authz", forge.WithGroupTags("authorization"))

	if err := g.GET("/grant", a.resolveGrant,
		forge.WithSummary("Resolve grant"),
		forge.WithDescription("Resolves the effective roles and permissions of a user within a tenant."),
		forge.WithOperationID("resolveGrant"),
		forge.WithRequestSchema(ResolveGrantRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Resolved grant", GrantResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/check", a.check,
		forge.WithSummary("Permission check"),
		forge.WithDescription("Reports whether the user holds the permission within the tenant."),
		forge.WithOperationID("authzCheck"),
		forge.WithRequestSchema(CheckRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Check result", CheckResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.POST("/enforce", a.enforce,
		forge.WithSummary("Enforce permission"),
		forge.WithDescription("Returns 200 if the user holds the permission, 403 if not."),
		forge.WithOperationID("authzEnforce"),
		forge.WithRequestSchema(CheckRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Allowed", CheckResponse{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) resolveGrant(ctx forge.Context, req *ResolveGrantRequest) (*GrantResponse, error) {
	if req.UserID == "" {
		return nil, forge.BadRequest("user_id is required")
	}
	tenantID, err := id.ParseTenantID(req.TenantID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid tenant ID: %v", err))
	}

	grant, err := a.eng.Resolve(ctx.Context(), req.UserID, tenantID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := toGrantResponse(grant)
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) check(ctx forge.Context, req *CheckRequest) (*CheckResponse, error) {
	if req.UserID == "" || req.Permission == "" {
		return nil, forge.BadRequest("user_id and permission are required")
	}
	tenantID, err := id.ParseTenantID(req.TenantID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid tenant ID: %v", err))
	}

	allowed, err := a.eng.HasPermission(ctx.Context(), req.UserID, tenantID, req.Permission)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &CheckResponse{Allowed: allowed, Permission: req.Permission, TenantID: tenantID.String()}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) enforce(ctx forge.Context, req *CheckRequest) (*CheckResponse, error) {
	if req.UserID == "" || req.Permission == "" {
		return nil, forge.BadRequest("user_id and permission are required")
	}
	tenantID, err := id.ParseTenantID(req.TenantID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid tenant ID: %v", err))
	}

	allowed, err := a.eng.HasPermission(ctx.Context(), req.UserID, tenantID, req.Permission)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &CheckResponse{Allowed: allowed, Permission: req.Permission, TenantID: tenantID.String()}
	if !allowed {
		return resp, ctx.JSON(http.StatusForbidden, resp)
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}

func toGrantResponse(grant *custos.Grant) *GrantResponse {
	resp := &GrantResponse{
		UserID:       grant.UserID,
		TenantID:     grant.TenantID.String(),
		TenantActive: grant.TenantActive,
		Roles:        make([]string, 0, len(grant.Roles)),
		Permissions:  grant.Permissions,
	}
	for _, r := range grant.Roles {
		resp.Roles = append(resp.Roles, r.Slug)
	}
	if resp.Permissions == nil {
		resp.Permissions = []string{}
	}
	return resp
}
