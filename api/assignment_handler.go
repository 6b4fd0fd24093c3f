package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/custos/assignment"
	"github.com/xraph/custos/id"
)

func (a *API) registerAssignmentRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("assignments"))

	if err := g.POST("/assignments", a.assignRole,
		forge.WithSummary("Assign role"),
		forge.WithDescription("Assigns a role to a user within a tenant. Idempotent for identical triples."),
		forge.WithOperationID("assignRole"),
		forge.WithRequestSchema(AssignRoleRequest{}),
		forge.WithCreatedResponse(&assignment.Assignment{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/assignments/revoke", a.revokeRole,
		forge.WithSummary("Revoke role"),
		forge.WithDescription("Revokes a role from a user within a tenant. No-op when the assignment does not exist."),
		forge.WithOperationID("revokeRole"),
		forge.WithRequestSchema(RevokeRoleRequest{}),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/assignments", a.listAssignments,
		forge.WithSummary("List assignments"),
		forge.WithDescription("Lists role assignments with optional filters."),
		forge.WithOperationID("listAssignments"),
		forge.WithRequestSchema(ListAssignmentsRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Assignment list", []*assignment.Assignment{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.GET("/users/:userId/tenants", a.listUserTenants,
		forge.WithSummary("List user tenants"),
		forge.WithDescription("Returns the tenants a user holds at least one role in, oldest membership first."),
		forge.WithOperationID("listUserTenants"),
		forge.WithResponseSchema(http.StatusOK, "Tenant IDs", []string{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) assignRole(ctx forge.Context, req *AssignRoleRequest) (*assignment.Assignment, error) {
	if req.UserID == "" {
		return nil, forge.BadRequest("user_id is required")
	}

	roleID, err := id.ParseRoleID(req.RoleID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid role ID: %v", err))
	}
	tenantID, err := id.ParseTenantID(req.TenantID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid tenant ID: %v", err))
	}

	asgn, err := a.eng.AssignRole(ctx.Context(), req.UserID, roleID, tenantID)
	if err != nil {
		return nil, mapError(err)
	}

	return asgn, ctx.JSON(http.StatusCreated, asgn)
}

func (a *API) revokeRole(ctx forge.Context, req *RevokeRoleRequest) (*struct{}, error) {
	if req.UserID == "" {
		return nil, forge.BadRequest("user_id is required")
	}

	roleID, err := id.ParseRoleID(req.RoleID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid role ID: %v", err))
	}
	tenantID, err := id.ParseTenantID(req.TenantID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid tenant ID: %v", err))
	}

	if err := a.eng.RevokeRole(ctx.Context(), req.UserID, roleID, tenantID); err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}

func (a *API) listAssignments(ctx forge.Context, req *ListAssignmentsRequest) ([]*assignment.Assignment, error) {
	filter := &assignment.ListFilter{
		UserID: req.UserID,
		Limit:  defaultLimit(req.Limit),
		Offset: req.Offset,
	}
	if req.RoleID != "" {
		roleID, err := id.ParseRoleID(req.RoleID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid role ID: %v", err))
		}
		filter.RoleID = &roleID
	}
	if req.TenantID != "" {
		tenantID, err := id.ParseTenantID(req.TenantID)
		if err != nil {
			return nil, forge.BadRequest(fmt.Sprintf("invalid tenant ID: %v", err))
		}
		filter.TenantID = &tenantID
	}

	assignments, err := a.eng.ListAssignments(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	return assignments, ctx.JSON(http.StatusOK, assignments)
}

func (a *API) listUserTenants(ctx forge.Context, _ *struct{}) ([]string, error) {
	userID := ctx.Param("userId")
	if userID == "" {
		return nil, forge.BadRequest("user ID is required")
	}

	tenantIDs, err := a.eng.UserTenants(ctx.Context(), userID)
	if err != nil {
		return nil, mapError(err)
	}

	out := make([]string, 0, len(tenantIDs))
	for _, tid := range tenantIDs {
		out = append(out, tid.String())
	}

	return out, ctx.JSON(http.StatusOK, out)
}
