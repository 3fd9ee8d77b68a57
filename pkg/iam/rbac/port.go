package rbac

import (
	"context"

	"github.com/texamhq/texam/pkg/kernel"
)

// RoleRepository defines the contract for the role/permission graph.
type RoleRepository interface {
	FindRoleByName(ctx context.Context, name string) (*Role, error)
	RolesForUser(ctx context.Context, userID kernel.UserID) ([]*Role, error)
	PermissionsForRole(ctx context.Context, roleID kernel.RoleID) ([]*Permission, error)

	// GrantRole attaches a global role to a user. Granting an already-held
	// role is a no-op.
	GrantRole(ctx context.Context, userID kernel.UserID, roleID kernel.RoleID) error
}

// Authorizer answers whether an identity holds a named permission.
type Authorizer interface {
	Authorize(ctx context.Context, userID kernel.UserID, permission string) (bool, error)
}
