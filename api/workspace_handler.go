package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/custos/id"
	"github.com/xraph/custos/workspace"
)

func (a *API) registerWorkspaceRoutes(router forge.Router) error {
	g := router.Group("/v1/workspace", forge.WithGroupTags("workspace"))

	if err := g.POST("/signin", a.signIn,
		forge.WithSummary("Open workspace session"),
		forge.WithDescription("Opens a session for the user and selects their default tenant."),
		forge.WithOperationID("workspaceSignIn"),
		forge.WithRequestSchema(SignInRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Session", SessionResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/switch", a.switchTenant,
		forge.WithSummary("Switch tenant"),
		forge.WithDescription("Switches the session to another tenant the user is a member of."),
		forge.WithOperationID("workspaceSwitchTenant"),
		forge.WithRequestSchema(SwitchTenantRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Session", SessionResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/sessions/:userId", a.currentSession,
		forge.WithSummary("Get session"),
		forge.WithDescription("Returns the user's current workspace session."),
		forge.WithOperationID("workspaceSession"),
		forge.WithResponseSchema(http.StatusOK, "Session", SessionResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.DELETE("/sessions/:userId", a.signOut,
		forge.WithSummary("Close workspace session"),
		forge.WithDescription("Discards the user's workspace session."),
		forge.WithOperationID("workspaceSignOut"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	)
}

func (a *API) signIn(ctx forge.Context, req *SignInRequest) (*SessionResponse, error) {
	if req.UserID == "" {
		return nil, forge.BadRequest("user_id is required")
	}

	sess, err := a.ws.SignIn(ctx.Context(), req.UserID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := toSessionResponse(sess)
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) switchTenant(ctx forge.Context, req *SwitchTenantRequest) (*SessionResponse, error) {
	if req.UserID == "" {
		return nil, forge.BadRequest("user_id is required")
	}
	tenantID, err := id.ParseTenantID(req.TenantID)
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid tenant ID: %v", err))
	}

	sess, err := a.ws.SwitchTenant(ctx.Context(), req.UserID, tenantID)
	if err != nil {
		return nil, mapError(err)
	}

	resp := toSessionResponse(sess)
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) currentSession(ctx forge.Context, _ *struct{}) (*SessionResponse, error) {
	userID := ctx.Param("userId")
	if userID == "" {
		return nil, forge.BadRequest("user ID is required")
	}

	sess, ok := a.ws.Current(userID)
	if !ok {
		return nil, forge.NotFound("no session for user")
	}

	resp := toSessionResponse(sess)
	return resp, ctx.JSON(http.StatusOK, resp)
}

func (a *API) signOut(ctx forge.Context, _ *struct{}) (*struct{}, error) {
	userID := ctx.Param("userId")
	if userID == "" {
		return nil, forge.BadRequest("user ID is required")
	}

	a.ws.SignOut(userID)
	return nil, ctx.NoContent(http.StatusNoContent)
}

func toSessionResponse(sess *workspace.Session) *SessionResponse {
	resp := &SessionResponse{UserID: sess.UserID}
	if sess.Tenant != nil {
		resp.TenantID = sess.Tenant.ID.String()
		resp.Tenant = sess.Tenant.Name
	}
	if sess.Grant != nil {
		resp.Grant = toGrantResponse(sess.Grant)
	}
	return resp
}
