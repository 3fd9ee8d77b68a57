package rbac

import (
	"net/http"

	"github.com/texamhq/texam/pkg/errx"
	"github.com/texamhq/texam/pkg/kernel"
)

// Role is a named bundle of permissions. The set is fixed at bootstrap and
// immutable afterwards.
type Role struct {
	ID   kernel.RoleID `db:"id" json:"id"`
	Name string        `db:"name" json:"name"`
}

// Permission is an atomic named capability gating one class of operation.
type Permission struct {
	ID   kernel.PermissionID `db:"id" json:"id"`
	Name string              `db:"name" json:"name"`
}

// Bootstrap roles.
const (
	RoleAdmin   = "Admin"
	RoleViewer  = "Viewer"
	RoleStudent = "Student"
	RoleMember  = "Member"
)

// Bootstrap permissions. Admin holds every one of these after seeding.
const (
	PermReadUsers          = "read:users"
	PermWriteUsers         = "write:users"
	PermReadReports        = "read:reports"
	PermWriteReports       = "write:reports"
	PermReadOrganizations  = "read:organizations"
	PermWriteOrganizations = "write:organizations"
	PermReadExams          = "read:exams"
	PermWriteExams         = "write:exams"
	PermReadGroups         = "read:groups"
	PermWriteGroups        = "write:groups"
)

// SeedRoles lists every bootstrap role.
func SeedRoles() []string {
	return []string{RoleAdmin, RoleViewer, RoleStudent, RoleMember}
}

// SeedPermissions lists every bootstrap permission.
func SeedPermissions() []string {
	return []string{
		PermReadUsers, PermWriteUsers,
		PermReadReports, PermWriteReports,
		PermReadOrganizations, PermWriteOrganizations,
		PermReadExams, PermWriteExams,
		PermReadGroups, PermWriteGroups,
	}
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("RBAC")

var (
	CodeRoleNotFound = ErrRegistry.Register("ROLE_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Role not found")
)

func ErrRoleNotFound() *errx.Error {
	return ErrRegistry.New(CodeRoleNotFound)
}
