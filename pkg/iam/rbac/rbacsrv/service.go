package rbacsrv

import (
	"context"

	"github.com/texamhq/texam/pkg/iam/rbac"
	"github.com/texamhq/texam/pkg/kernel"
)

// RBACService resolves permission checks by walking the identity graph:
// user → roles → permissions. Resolution is deny-by-default and re-walks
// the graph on every check; nothing is cached across requests since grants
// can change between them.
type RBACService struct {
	repo rbac.RoleRepository
}

// NewRBACService creates a new service instance.
func NewRBACService(repo rbac.RoleRepository) *RBACService {
	return &RBACService{repo: repo}
}

// Authorize reports whether the user holds the named permission through any
// of their roles. A user with no roles is always denied.
func (s *RBACService) Authorize(ctx context.Context, userID kernel.UserID, permission string) (bool, error) {
	roles, err := s.repo.RolesForUser(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, role := range roles {
		perms, err := s.repo.PermissionsForRole(ctx, role.ID)
		if err != nil {
			return false, err
		}
		for _, p := range perms {
			if p.Name == permission {
				return true, nil
			}
		}
	}
	return false, nil
}

// AssignRole grants a global role to a user by role name.
func (s *RBACService) AssignRole(ctx context.Context, userID kernel.UserID, roleName string) error {
	role, err := s.repo.FindRoleByName(ctx, roleName)
	if err != nil {
		return err
	}
	return s.repo.GrantRole(ctx, userID, role.ID)
}
