package plugin

import (
	"context"
	"log/slog"
	"testing"

	"github.com/xraph/custos/id"
	"github.com/xraph/custos/role"
	"github.com/xraph/custos/tenant"
)

// testPlugin implements Plugin + RoleCreated + AfterResolve.
type testPlugin struct {
	roleCreatedCalled  bool
	afterResolveCalled bool
}

func (t *testPlugin) Name() string { return "test-plugin" }

func (t *testPlugin) OnRoleCreated(_ context.Context, _ *role.Role) error {
	t.roleCreatedCalled = true
	return nil
}

func (t *testPlugin) OnAfterResolve(_ context.Context, _ string, _ id.TenantID, _ any) error {
	t.afterResolveCalled = true
	return nil
}

// minimalPlugin only implements Plugin (no hooks).
type minimalPlugin struct{}

func (m *minimalPlugin) Name() string { return "minimal" }

func TestRegistryDispatch(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(slog.Default())

	tp := &testPlugin{}
	reg.Register(tp)
	reg.Register(&minimalPlugin{})

	if len(reg.Plugins()) != 2 {
		t.Fatalf("expected 2 plugins, got %d", len(reg.Plugins()))
	}

	// Should dispatch RoleCreated to testPlugin only.
	reg.EmitRoleCreated(ctx, &role.Role{ID: id.NewRoleID(), Name: "Admin"})
	if !tp.roleCreatedCalled {
		t.Fatal("OnRoleCreated was not called")
	}

	// Should dispatch AfterResolve.
	reg.EmitAfterResolve(ctx, "user_1", id.NewTenantID(), nil)
	if !tp.afterResolveCalled {
		t.Fatal("OnAfterResolve was not called")
	}

	// Should not panic on hooks with no listeners.
	reg.EmitBeforeResolve(ctx, "user_1", id.NewTenantID())
	reg.EmitRoleDeleted(ctx, id.NewRoleID())
	reg.EmitTenantStatusChanged(ctx, &tenant.Tenant{ID: id.NewTenantID(), Name: "Hospital A"})
	reg.EmitShutdown(ctx)
}
