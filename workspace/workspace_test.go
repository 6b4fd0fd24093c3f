package workspace_test

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/custos"
	"github.com/xraph/custos/id"
	"github.com/xraph/custos/store/memory"
	"github.com/xraph/custos/workspace"
)

type fixture struct {
	eng    *custos.Engine
	mgr    *workspace.Manager
	editor id.RoleID
	viewer id.RoleID
	tntA   id.TenantID
	tntB   id.TenantID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	eng, err := custos.NewEngine(custos.WithStore(memory.New()))
	if err != nil {
		t.Fatal(err)
	}

	err = eng.EnsurePermissions(ctx, []custos.PermissionInput{
		{Slug: "content.read", Name: "Read content"},
		{Slug: "content.write", Name: "Write content"},
	})
	if err != nil {
		t.Fatal(err)
	}

	editor, err := eng.CreateRole(ctx, custos.CreateRoleInput{
		Name:        "Editor",
		Permissions: []string{"content.read", "content.write"},
	})
	if err != nil {
		t.Fatal(err)
	}
	viewer, err := eng.CreateRole(ctx, custos.CreateRoleInput{
		Name:        "Viewer",
		Permissions: []string{"content.read"},
	})
	if err != nil {
		t.Fatal(err)
	}

	tntA, err := eng.CreateTenant(ctx, custos.CreateTenantInput{Name: "Hospital A"})
	if err != nil {
		t.Fatal(err)
	}
	tntB, err := eng.CreateTenant(ctx, custos.CreateTenantInput{Name: "Hospital B"})
	if err != nil {
		t.Fatal(err)
	}

	return &fixture{
		eng:    eng,
		mgr:    workspace.NewManager(eng),
		editor: editor.ID,
		viewer: viewer.ID,
		tntA:   tntA.ID,
		tntB:   tntB.ID,
	}
}

func TestSignInPicksOldestActiveTenant(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, err := f.eng.AssignRole(ctx, "u1", f.editor, f.tntA); err != nil {
		t.Fatal(err)
	}
	if _, err := f.eng.AssignRole(ctx, "u1", f.viewer, f.tntB); err != nil {
		t.Fatal(err)
	}

	session, err := f.mgr.SignIn(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if !session.Selected() {
		t.Fatal("expected a selected tenant")
	}
	if session.Tenant.ID != f.tntA {
		t.Fatalf("expected oldest tenant, got %s", session.Tenant.Slug)
	}
	if !session.Grant.Has("content.write") {
		t.Fatal("expected editor grant in Hospital A")
	}
}

func TestSignInSkipsInactiveTenants(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, err := f.eng.AssignRole(ctx, "u1", f.editor, f.tntA); err != nil {
		t.Fatal(err)
	}
	if _, err := f.eng.AssignRole(ctx, "u1", f.viewer, f.tntB); err != nil {
		t.Fatal(err)
	}
	if _, err := f.eng.DeactivateTenant(ctx, f.tntA); err != nil {
		t.Fatal(err)
	}

	session, err := f.mgr.SignIn(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if session.Tenant.ID != f.tntB {
		t.Fatal("expected inactive tenant to be skipped")
	}
}

func TestSignInWithoutMemberships(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	session, err := f.mgr.SignIn(ctx, "stranger")
	if err != nil {
		t.Fatal(err)
	}
	if session.Selected() {
		t.Fatal("expected no selection")
	}
	if session.Grant.Has("content.read") {
		t.Fatal("nil grant must deny everything")
	}
}

func TestSwitchTenant(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, err := f.eng.AssignRole(ctx, "u1", f.editor, f.tntA); err != nil {
		t.Fatal(err)
	}
	if _, err := f.eng.AssignRole(ctx, "u1", f.viewer, f.tntB); err != nil {
		t.Fatal(err)
	}
	if _, err := f.mgr.SignIn(ctx, "u1"); err != nil {
		t.Fatal(err)
	}

	session, err := f.mgr.SwitchTenant(ctx, "u1", f.tntB)
	if err != nil {
		t.Fatal(err)
	}
	if session.Tenant.ID != f.tntB {
		t.Fatal("switch did not select Hospital B")
	}
	if session.Grant.Has("content.write") {
		t.Fatal("viewer must not hold content.write")
	}
	if !session.Grant.Has("content.read") {
		t.Fatal("viewer must hold content.read")
	}
}

func TestSwitchTenantFailurePreservesSelection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, err := f.eng.AssignRole(ctx, "u1", f.editor, f.tntA); err != nil {
		t.Fatal(err)
	}
	if _, err := f.mgr.SignIn(ctx, "u1"); err != nil {
		t.Fatal(err)
	}

	// Not a member of Hospital B.
	if _, err := f.mgr.SwitchTenant(ctx, "u1", f.tntB); !errors.Is(err, custos.ErrNotAMember) {
		t.Fatalf("expected ErrNotAMember, got %v", err)
	}

	// Inactive target.
	if _, err := f.eng.AssignRole(ctx, "u1", f.viewer, f.tntB); err != nil {
		t.Fatal(err)
	}
	if _, err := f.eng.DeactivateTenant(ctx, f.tntB); err != nil {
		t.Fatal(err)
	}
	if _, err := f.mgr.SwitchTenant(ctx, "u1", f.tntB); !errors.Is(err, custos.ErrTenantInactive) {
		t.Fatalf("expected ErrTenantInactive, got %v", err)
	}

	// Both failures leave the original selection intact.
	current, ok := f.mgr.Current("u1")
	if !ok || current.Tenant.ID != f.tntA {
		t.Fatal("failed switch must preserve the previous selection")
	}
	if !current.Grant.Has("content.write") {
		t.Fatal("previous grant must survive a failed switch")
	}
}

func TestRefreshPicksUpRoleChanges(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, err := f.eng.AssignRole(ctx, "u1", f.viewer, f.tntA); err != nil {
		t.Fatal(err)
	}
	session, err := f.mgr.SignIn(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if session.Grant.Has("content.write") {
		t.Fatal("viewer must not hold content.write yet")
	}

	perms := []string{"content.read", "content.write"}
	if _, err := f.eng.UpdateRole(ctx, f.viewer, custos.UpdateRoleInput{Permissions: &perms}); err != nil {
		t.Fatal(err)
	}

	session, err = f.mgr.Refresh(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if !session.Grant.Has("content.write") {
		t.Fatal("refresh must pick up the widened role")
	}
}

func TestSignOut(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, err := f.eng.AssignRole(ctx, "u1", f.editor, f.tntA); err != nil {
		t.Fatal(err)
	}
	if _, err := f.mgr.SignIn(ctx, "u1"); err != nil {
		t.Fatal(err)
	}

	f.mgr.SignOut("u1")
	if _, ok := f.mgr.Current("u1"); ok {
		t.Fatal("expected no session after sign-out")
	}
}
