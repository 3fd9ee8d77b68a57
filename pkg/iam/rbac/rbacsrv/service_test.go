package rbacsrv_test

import (
	"context"
	"testing"

	"github.com/texamhq/texam/pkg/errx"
	"github.com/texamhq/texam/pkg/iam/rbac"
	"github.com/texamhq/texam/pkg/iam/rbac/rbacsrv"
	"github.com/texamhq/texam/pkg/kernel"
)

// fakeRepo holds a small in-memory role graph.
type fakeRepo struct {
	rolesByName map[string]*rbac.Role
	userRoles   map[kernel.UserID][]*rbac.Role
	rolePerms   map[kernel.RoleID][]*rbac.Permission
	grants      int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		rolesByName: make(map[string]*rbac.Role),
		userRoles:   make(map[kernel.UserID][]*rbac.Role),
		rolePerms:   make(map[kernel.RoleID][]*rbac.Permission),
	}
}

func (f *fakeRepo) addRole(name string, perms ...string) *rbac.Role {
	role := &rbac.Role{ID: kernel.NewRoleID("role-" + name), Name: name}
	f.rolesByName[name] = role
	for _, p := range perms {
		f.rolePerms[role.ID] = append(f.rolePerms[role.ID], &rbac.Permission{
			ID:   kernel.NewPermissionID("perm-" + p),
			Name: p,
		})
	}
	return role
}

func (f *fakeRepo) FindRoleByName(_ context.Context, name string) (*rbac.Role, error) {
	role, ok := f.rolesByName[name]
	if !ok {
		return nil, rbac.ErrRoleNotFound()
	}
	return role, nil
}

func (f *fakeRepo) RolesForUser(_ context.Context, userID kernel.UserID) ([]*rbac.Role, error) {
	return f.userRoles[userID], nil
}

func (f *fakeRepo) PermissionsForRole(_ context.Context, roleID kernel.RoleID) ([]*rbac.Permission, error) {
	return f.rolePerms[roleID], nil
}

func (f *fakeRepo) GrantRole(_ context.Context, userID kernel.UserID, roleID kernel.RoleID) error {
	f.grants++
	for _, role := range f.rolesByName {
		if role.ID == roleID {
			f.userRoles[userID] = append(f.userRoles[userID], role)
			return nil
		}
	}
	return rbac.ErrRoleNotFound()
}

const alice = kernel.UserID("user-alice")

func TestAuthorize_DeniesUserWithNoRoles(t *testing.T) {
	svc := rbacsrv.NewRBACService(newFakeRepo())

	ok, err := svc.Authorize(context.Background(), alice, rbac.PermReadUsers)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("a user with no roles must be denied")
	}
}

func TestAuthorize_GrantsThroughRolePermission(t *testing.T) {
	repo := newFakeRepo()
	viewer := repo.addRole(rbac.RoleViewer, rbac.PermReadUsers, rbac.PermReadReports)
	repo.userRoles[alice] = []*rbac.Role{viewer}
	svc := rbacsrv.NewRBACService(repo)

	ok, err := svc.Authorize(context.Background(), alice, rbac.PermReadReports)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("viewer must hold read:reports")
	}

	ok, err = svc.Authorize(context.Background(), alice, rbac.PermWriteReports)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("viewer must not hold write:reports")
	}
}

func TestAuthorize_UnionAcrossRoles(t *testing.T) {
	repo := newFakeRepo()
	viewer := repo.addRole(rbac.RoleViewer, rbac.PermReadUsers)
	student := repo.addRole(rbac.RoleStudent, rbac.PermReadExams)
	repo.userRoles[alice] = []*rbac.Role{viewer, student}
	svc := rbacsrv.NewRBACService(repo)

	for _, perm := range []string{rbac.PermReadUsers, rbac.PermReadExams} {
		ok, err := svc.Authorize(context.Background(), alice, perm)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatalf("expected %s through the role union", perm)
		}
	}
}

func TestAuthorize_AdminHoldsEverySeedPermission(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addRole(rbac.RoleAdmin, rbac.SeedPermissions()...)
	repo.userRoles[alice] = []*rbac.Role{admin}
	svc := rbacsrv.NewRBACService(repo)

	for _, perm := range rbac.SeedPermissions() {
		ok, err := svc.Authorize(context.Background(), alice, perm)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatalf("admin must hold %s", perm)
		}
	}
}

func TestAuthorize_UnknownPermissionDenied(t *testing.T) {
	repo := newFakeRepo()
	admin := repo.addRole(rbac.RoleAdmin, rbac.SeedPermissions()...)
	repo.userRoles[alice] = []*rbac.Role{admin}
	svc := rbacsrv.NewRBACService(repo)

	ok, err := svc.Authorize(context.Background(), alice, "launch:missiles")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("an unseeded permission must be denied for everyone")
	}
}

func TestAssignRole(t *testing.T) {
	repo := newFakeRepo()
	repo.addRole(rbac.RoleMember)
	svc := rbacsrv.NewRBACService(repo)

	if err := svc.AssignRole(context.Background(), alice, rbac.RoleMember); err != nil {
		t.Fatal(err)
	}
	if repo.grants != 1 {
		t.Fatalf("expected 1 grant, got %d", repo.grants)
	}

	err := svc.AssignRole(context.Background(), alice, "Ghost")
	if err == nil {
		t.Fatal("expected unknown role to fail")
	}
	if !errx.IsType(err, errx.TypeNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}
