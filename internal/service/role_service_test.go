package service

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"

	"reportdesk/internal/apperr"
	"reportdesk/internal/permissions"
)

func TestSetThenGetPermissions(t *testing.T) {
	t.Parallel()

	svc := NewRoleService(newFakeRoleRepo(permissions.RoleAgent))
	want := []string{permissions.ViewTickets, permissions.CreateTickets, permissions.ViewReports}

	if err := svc.SetPermissionsForRole(context.Background(), permissions.RoleAgent, want); err != nil {
		t.Fatalf("SetPermissionsForRole: %v", err)
	}
	got, err := svc.GetPermissionsForRole(context.Background(), permissions.RoleAgent)
	if err != nil {
		t.Fatalf("GetPermissionsForRole: %v", err)
	}

	sort.Strings(want)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want exactly %v", got, want)
	}
}

func TestSetPermissionsRejectsUnknownName(t *testing.T) {
	t.Parallel()

	repo := newFakeRoleRepo(permissions.RoleAgent)
	svc := NewRoleService(repo)
	if err := svc.SetPermissionsForRole(context.Background(), permissions.RoleAgent,
		[]string{permissions.ViewTickets, "LAUNCH_MISSILES"}); err == nil {
		t.Fatal("unknown permission accepted")
	} else {
		var e *apperr.Error
		if !errors.As(err, &e) || e.Kind != apperr.Validation {
			t.Errorf("wrong error kind: %v", err)
		}
	}

	// The whole replacement must have been rejected: no partial write.
	got, _ := svc.GetPermissionsForRole(context.Background(), permissions.RoleAgent)
	if len(got) != 0 {
		t.Errorf("partial permission set applied: %v", got)
	}
}

func TestSetPermissionsCollapsesDuplicates(t *testing.T) {
	t.Parallel()

	repo := newFakeRoleRepo(permissions.RoleAgent)
	svc := NewRoleService(repo)

	// Repeated catalog-valid names are a set-replacement no-op, not an
	// error: the store only ever sees each name once.
	err := svc.SetPermissionsForRole(context.Background(), permissions.RoleAgent,
		[]string{permissions.ViewTickets, permissions.ViewTickets, permissions.EditTickets})
	if err != nil {
		t.Fatalf("duplicate-bearing set rejected: %v", err)
	}

	repo.mu.Lock()
	stored := repo.rolePerms[permissions.RoleAgent]
	repo.mu.Unlock()
	if len(stored) != 2 {
		t.Errorf("store received %v, want the 2 distinct names", stored)
	}

	got, _ := svc.GetPermissionsForRole(context.Background(), permissions.RoleAgent)
	want := []string{permissions.EditTickets, permissions.ViewTickets}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want exactly %v", got, want)
	}
}

func TestGetPermissionsForUnknownRole(t *testing.T) {
	t.Parallel()

	svc := NewRoleService(newFakeRoleRepo())
	got, err := svc.GetPermissionsForRole(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("GetPermissionsForRole: %v", err)
	}
	if got == nil {
		t.Fatal("expected empty set, got nil")
	}
	if len(got) != 0 {
		t.Errorf("unknown role has permissions: %v", got)
	}
}

func TestResetRoleToDefault(t *testing.T) {
	t.Parallel()

	svc := NewRoleService(newFakeRoleRepo(permissions.RoleUser))
	if err := svc.SetPermissionsForRole(context.Background(), permissions.RoleUser,
		[]string{permissions.ManageRoles}); err != nil {
		t.Fatalf("SetPermissionsForRole: %v", err)
	}

	if err := svc.ResetRoleToDefault(context.Background(), permissions.RoleUser); err != nil {
		t.Fatalf("ResetRoleToDefault: %v", err)
	}

	got, _ := svc.GetPermissionsForRole(context.Background(), permissions.RoleUser)
	want := permissions.DefaultsFor(permissions.RoleUser)
	sort.Strings(want)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("after reset got %v, want %v", got, want)
	}
}

func TestReplaceUserRolesSinglePrimary(t *testing.T) {
	t.Parallel()

	repo := newFakeRoleRepo("a", "b", "c")
	svc := NewRoleService(repo)

	// Replace twice; the second replacement must fully supersede the first.
	if err := svc.ReplaceUserRoles(context.Background(), "u1", "c", nil); err != nil {
		t.Fatalf("first ReplaceUserRoles: %v", err)
	}
	if err := svc.ReplaceUserRoles(context.Background(), "u1", "a", []string{"b", "c"}); err != nil {
		t.Fatalf("second ReplaceUserRoles: %v", err)
	}

	links, err := svc.RolesForUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("RolesForUser: %v", err)
	}
	primaries := 0
	for _, l := range links {
		if l.IsPrimary {
			primaries++
			if l.RoleName != "a" {
				t.Errorf("primary = %q, want a", l.RoleName)
			}
		}
	}
	if primaries != 1 {
		t.Errorf("%d primary links, want exactly 1", primaries)
	}
	if len(links) != 3 {
		t.Errorf("%d links, want 3", len(links))
	}
}

func TestReplaceUserRolesRequiresPrimary(t *testing.T) {
	t.Parallel()

	svc := NewRoleService(newFakeRoleRepo("a"))
	err := svc.ReplaceUserRoles(context.Background(), "u1", "", []string{"a"})
	if apperr.HTTPStatus(err) != 400 {
		t.Errorf("missing primary not rejected with 400: %v", err)
	}
}

func TestEffectivePermissionsUnion(t *testing.T) {
	t.Parallel()

	repo := newFakeRoleRepo("a", "b", "c")
	svc := NewRoleService(repo)

	ctx := context.Background()
	mustSet := func(role string, perms []string) {
		t.Helper()
		if err := svc.SetPermissionsForRole(ctx, role, perms); err != nil {
			t.Fatalf("SetPermissionsForRole(%s): %v", role, err)
		}
	}
	mustSet("a", []string{permissions.ViewTickets, permissions.EditTickets})
	mustSet("b", []string{permissions.ViewTickets, permissions.ViewReports})
	mustSet("c", []string{permissions.ManageViews})

	if err := svc.ReplaceUserRoles(ctx, "u1", "a", []string{"b", "c"}); err != nil {
		t.Fatalf("ReplaceUserRoles: %v", err)
	}

	got, err := svc.GetEffectivePermissions(ctx, "u1")
	if err != nil {
		t.Fatalf("GetEffectivePermissions: %v", err)
	}
	want := []string{
		permissions.EditTickets, permissions.ManageViews,
		permissions.ViewReports, permissions.ViewTickets,
	}
	sort.Strings(want)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("union = %v, want %v (deduplicated)", got, want)
	}
}
