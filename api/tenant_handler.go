package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/custos"
	"github.com/xraph/custos/id"
	"github.com/xraph/custos/tenant"
)

func (a *API) registerTenantRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("tenants"))

	if err := g.POST("/tenants", a.createTenant,
		forge.WithSummary("Create tenant"),
		forge.WithDescription("Creates a new tenant. New tenants start active."),
		forge.WithOperationID("createTenant"),
		forge.WithRequestSchema(CreateTenantRequest{}),
		forge.WithCreatedResponse(&tenant.Tenant{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/tenants/:tenantId", a.getTenant,
		forge.WithSummary("Get tenant"),
		forge.WithDescription("Returns details of a specific tenant."),
		forge.WithOperationID("getTenant"),
		forge.WithResponseSchema(http.StatusOK, "Tenant details", &tenant.Tenant{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.PUT("/tenants/:tenantId", a.updateTenant,
		forge.WithSummary("Update tenant"),
		forge.WithDescription("Updates tenant details. The slug never changes after creation."),
		forge.WithOperationID("updateTenant"),
		forge.WithRequestSchema(UpdateTenantRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Updated tenant", &tenant.Tenant{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/tenants/:tenantId/activate", a.activateTenant,
		forge.WithSummary("Activate tenant"),
		forge.WithDescription("Marks a tenant active, restoring access for its members."),
		forge.WithOperationID("activateTenant"),
		forge.WithResponseSchema(http.StatusOK, "Activated tenant", &tenant.Tenant{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/tenants/:tenantId/deactivate", a.deactivateTenant,
		forge.WithSummary("Deactivate tenant"),
		forge.WithDescription("Marks a tenant inactive. Members lose all access until reactivation."),
		forge.WithOperationID("deactivateTenant"),
		forge.WithResponseSchema(http.StatusOK, "Deactivated tenant", &tenant.Tenant{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.DELETE("/tenants/:tenantId", a.deleteTenant,
		forge.WithSummary("Delete tenant"),
		forge.WithDescription("Deletes a tenant and all role assignments scoped to it."),
		forge.WithOperationID("deleteTenant"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/tenants", a.listTenants,
		forge.WithSummary("List tenants"),
		forge.WithDescription("Lists tenants with optional filters."),
		forge.WithOperationID("listTenants"),
		forge.WithRequestSchema(ListTenantsRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Tenant list", []*tenant.Tenant{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) createTenant(ctx forge.Context, req *CreateTenantRequest) (*tenant.Tenant, error) {
	if req.Name == "" {
		return nil, forge.BadRequest("name is required")
	}

	t, err := a.eng.CreateTenant(ctx.Context(), custos.CreateTenantInput{
		Name:    req.Name,
		Slug:    req.Slug,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return t, ctx.JSON(http.StatusCreated, t)
}

func (a *API) getTenant(ctx forge.Context, _ *GetTenantRequest) (*tenant.Tenant, error) {
	tenantID, err := id.ParseTenantID(ctx.Param("tenantId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid tenant ID: %v", err))
	}

	t, err := a.eng.GetTenant(ctx.Context(), tenantID)
	if err != nil {
		return nil, mapError(err)
	}

	return t, ctx.JSON(http.StatusOK, t)
}

func (a *API) updateTenant(ctx forge.Context, req *UpdateTenantRequest) (*tenant.Tenant, error) {
	tenantID, err := id.ParseTenantID(ctx.Param("tenantId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid tenant ID: %v", err))
	}

	t, err := a.eng.UpdateTenant(ctx.Context(), tenantID, custos.UpdateTenantInput{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return t, ctx.JSON(http.StatusOK, t)
}

func (a *API) activateTenant(ctx forge.Context, _ *GetTenantRequest) (*tenant.Tenant, error) {
	tenantID, err := id.ParseTenantID(ctx.Param("tenantId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid tenant ID: %v", err))
	}

	t, err := a.eng.ActivateTenant(ctx.Context(), tenantID)
	if err != nil {
		return nil, mapError(err)
	}

	return t, ctx.JSON(http.StatusOK, t)
}

func (a *API) deactivateTenant(ctx forge.Context, _ *GetTenantRequest) (*tenant.Tenant, error) {
	tenantID, err := id.ParseTenantID(ctx.Param("tenantId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid tenant ID: %v", err))
	}

	t, err := a.eng.DeactivateTenant(ctx.Context(), tenantID)
	if err != nil {
		return nil, mapError(err)
	}

	return t, ctx.JSON(http.StatusOK, t)
}

func (a *API) deleteTenant(ctx forge.Context, _ *GetTenantRequest) (*struct{}, error) {
	tenantID, err := id.ParseTenantID(ctx.Param("tenantId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid tenant ID: %v", err))
	}

	if err := a.eng.DeleteTenant(ctx.Context(), tenantID); err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) listTenants(ctx forge.Context, req *ListTenantsRequest) ([]*tenant.Tenant, error) {
	filter := &tenant.ListFilter{
		IsActive: req.Active,
		Search:   req.Search,
		Limit:    defaultLimit(req.Limit),
		Offset:   req.Offset,
	}

	tenants, err := a.eng.ListTenants(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	return tenants, ctx.JSON(http.StatusOK, tenants)
}
