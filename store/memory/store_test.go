package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xraph/custos/assignment"
	"github.com/xraph/custos/audit"
	"github.com/xraph/custos/id"
	"github.com/xraph/custos/permission"
	"github.com/xraph/custos/role"
	"github.com/xraph/custos/store"
	"github.com/xraph/custos/tenant"
)

func TestRoleCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	r := &role.Role{
		ID:   id.NewRoleID(),
		Name: "Admin",
		Slug: "admin",
		Kind: role.KindSystem,
	}

	// Create
	if err := s.CreateRole(ctx, r); err != nil {
		t.Fatal(err)
	}

	// Get
	got, err := s.GetRole(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Admin" {
		t.Fatalf("expected Admin, got %s", got.Name)
	}

	// GetBySlug
	got, err = s.GetRoleBySlug(ctx, "admin")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != r.ID {
		t.Fatal("slug lookup mismatch")
	}

	// Update
	r.Name = "Super Admin"
	err = s.UpdateRole(ctx, r)
	if err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetRole(ctx, r.ID)
	if got.Name != "Super Admin" {
		t.Fatal("update failed")
	}

	// List with kind filter
	kind := role.KindSystem
	list, _ := s.ListRoles(ctx, &role.ListFilter{Kind: &kind})
	if len(list) != 1 {
		t.Fatalf("expected 1 role, got %d", len(list))
	}

	// Count
	count, _ := s.CountRoles(ctx, nil)
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}

	// Delete
	err = s.DeleteRole(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.GetRole(ctx, r.ID)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRolePermissionLinks(t *testing.T) {
	ctx := context.Background()
	s := New()

	r := &role.Role{ID: id.NewRoleID(), Name: "Editor", Slug: "editor", Kind: role.KindCustom}
	if err := s.CreateRole(ctx, r); err != nil {
		t.Fatal(err)
	}

	p1 := &permission.Permission{ID: id.NewPermissionID(), Slug: "content.read", Name: "Read content", Resource: "content", Action: "read"}
	p2 := &permission.Permission{ID: id.NewPermissionID(), Slug: "content.write", Name: "Write content", Resource: "content", Action: "write"}
	for _, p := range []*permission.Permission{p1, p2} {
		if err := s.CreatePermission(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.SetRolePermissions(ctx, r.ID, []id.PermissionID{p1.ID, p2.ID}); err != nil {
		t.Fatal(err)
	}

	perms, err := s.ListPermissionsByRole(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(perms) != 2 {
		t.Fatalf("expected 2 permissions, got %d", len(perms))
	}
	if perms[0].Slug != "content.read" || perms[1].Slug != "content.write" {
		t.Fatalf("unexpected slugs: %s, %s", perms[0].Slug, perms[1].Slug)
	}

	// Replace the whole set.
	if err := s.SetRolePermissions(ctx, r.ID, []id.PermissionID{p2.ID}); err != nil {
		t.Fatal(err)
	}
	perms, _ = s.ListPermissionsByRole(ctx, r.ID)
	if len(perms) != 1 || perms[0].Slug != "content.write" {
		t.Fatal("set replace failed")
	}

	// Detach
	if err := s.DetachPermission(ctx, r.ID, p2.ID); err != nil {
		t.Fatal(err)
	}
	perms, _ = s.ListPermissionsByRole(ctx, r.ID)
	if len(perms) != 0 {
		t.Fatalf("expected 0 permissions, got %d", len(perms))
	}

	// Deleting a permission removes it from role links.
	if err := s.AttachPermission(ctx, r.ID, p1.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeletePermission(ctx, p1.ID); err != nil {
		t.Fatal(err)
	}
	perms, _ = s.ListPermissionsByRole(ctx, r.ID)
	if len(perms) != 0 {
		t.Fatal("expected no permissions after catalog delete")
	}
}

func TestTenantCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	tn := &tenant.Tenant{
		ID:       id.NewTenantID(),
		Name:     "Hospital A",
		Slug:     "hospital-a",
		IsActive: true,
	}
	if err := s.CreateTenant(ctx, tn); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetTenantBySlug(ctx, "hospital-a")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != tn.ID {
		t.Fatal("slug lookup mismatch")
	}

	tn.IsActive = false
	if err := s.UpdateTenant(ctx, tn); err != nil {
		t.Fatal(err)
	}

	inactive := false
	list, _ := s.ListTenants(ctx, &tenant.ListFilter{IsActive: &inactive})
	if len(list) != 1 {
		t.Fatalf("expected 1 inactive tenant, got %d", len(list))
	}

	if err := s.DeleteTenant(ctx, tn.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetTenant(ctx, tn.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAssignmentQueries(t *testing.T) {
	ctx := context.Background()
	s := New()

	roleA := id.NewRoleID()
	roleB := id.NewRoleID()
	tntA := id.NewTenantID()
	tntB := id.NewTenantID()

	base := time.Now().Add(-time.Hour)
	mk := func(user string, rid id.RoleID, tid id.TenantID, offset time.Duration) *assignment.Assignment {
		a := &assignment.Assignment{
			ID:        id.NewAssignmentID(),
			UserID:    user,
			RoleID:    rid,
			TenantID:  tid,
			CreatedAt: base.Add(offset),
		}
		if err := s.CreateAssignment(ctx, a); err != nil {
			t.Fatal(err)
		}
		return a
	}

	mk("u1", roleA, tntB, 2*time.Minute)
	first := mk("u1", roleA, tntA, time.Minute)
	mk("u1", roleB, tntA, 3*time.Minute)
	mk("u2", roleA, tntA, 4*time.Minute)

	// FindAssignment hits the exact triple.
	found, err := s.FindAssignment(ctx, "u1", roleA, tntA)
	if err != nil {
		t.Fatal(err)
	}
	if found.ID != first.ID {
		t.Fatal("wrong assignment for triple")
	}

	// Missing triple is ErrNotFound.
	if _, err := s.FindAssignment(ctx, "u2", roleB, tntA); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Roles for user in tenant.
	roles, err := s.ListRolesForUser(ctx, "u1", tntA)
	if err != nil {
		t.Fatal(err)
	}
	if len(roles) != 2 {
		t.Fatalf("expected 2 roles, got %d", len(roles))
	}

	// All assignments for user, oldest first.
	all, err := s.ListAssignmentsForUser(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 assignments, got %d", len(all))
	}
	if !all[0].CreatedAt.Before(all[1].CreatedAt) || !all[1].CreatedAt.Before(all[2].CreatedAt) {
		t.Fatal("assignments not ordered oldest first")
	}

	// Delete by role.
	if err := s.DeleteAssignmentsByRole(ctx, roleA); err != nil {
		t.Fatal(err)
	}
	count, _ := s.CountAssignments(ctx, nil)
	if count != 1 {
		t.Fatalf("expected 1 assignment after role delete, got %d", count)
	}

	// Delete by tenant.
	if err := s.DeleteAssignmentsByTenant(ctx, tntA); err != nil {
		t.Fatal(err)
	}
	count, _ = s.CountAssignments(ctx, nil)
	if count != 0 {
		t.Fatalf("expected 0 assignments after tenant delete, got %d", count)
	}
}

func TestAuditEntries(t *testing.T) {
	ctx := context.Background()
	s := New()

	old := &audit.Entry{
		ID:        id.NewAuditLogID(),
		Actor:     "u1",
		Action:    audit.ActionRoleCreated,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	recent := &audit.Entry{
		ID:        id.NewAuditLogID(),
		Actor:     "u2",
		Action:    audit.ActionRoleAssigned,
		CreatedAt: time.Now(),
	}
	for _, e := range []*audit.Entry{old, recent} {
		if err := s.CreateAuditEntry(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	list, err := s.ListAuditEntries(ctx, &audit.QueryFilter{Actor: "u2"})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Action != audit.ActionRoleAssigned {
		t.Fatal("actor filter failed")
	}

	purged, err := s.PurgeAuditEntries(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if purged != 1 {
		t.Fatalf("expected 1 purged, got %d", purged)
	}
	count, _ := s.CountAuditEntries(ctx, nil)
	if count != 1 {
		t.Fatalf("expected 1 remaining, got %d", count)
	}
}

func TestPagination(t *testing.T) {
	ctx := context.Background()
	s := New()

	names := []string{"Admin", "Editor", "Nurse", "Pharmacist", "Viewer"}
	for _, n := range names {
		r := &role.Role{ID: id.NewRoleID(), Name: n, Slug: n, Kind: role.KindCustom}
		if err := s.CreateRole(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	page, err := s.ListRoles(ctx, &role.ListFilter{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 roles, got %d", len(page))
	}
	if page[0].Name != "Nurse" || page[1].Name != "Pharmacist" {
		t.Fatalf("unexpected page: %s, %s", page[0].Name, page[1].Name)
	}

	// Count ignores pagination.
	count, _ := s.CountRoles(ctx, &role.ListFilter{Limit: 2})
	if count != 5 {
		t.Fatalf("expected count 5, got %d", count)
	}
}
