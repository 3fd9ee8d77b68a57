package rbacinfra

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/texamhq/texam/pkg/errx"
	"github.com/texamhq/texam/pkg/iam/rbac"
	"github.com/texamhq/texam/pkg/kernel"
)

// PostgresRoleRepository is the Postgres implementation of RoleRepository.
type PostgresRoleRepository struct {
	db *sqlx.DB
}

// NewPostgresRoleRepository creates a new repository instance.
func NewPostgresRoleRepository(db *sqlx.DB) rbac.RoleRepository {
	return &PostgresRoleRepository{db: db}
}

// FindRoleByName looks up a role by its unique name.
func (r *PostgresRoleRepository) FindRoleByName(ctx context.Context, name string) (*rbac.Role, error) {
	var role rbac.Role
	query := `SELECT * FROM roles WHERE name = $1`
	if err := r.db.GetContext(ctx, &role, query, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, rbac.ErrRoleNotFound().WithDetail("role", name)
		}
		return nil, errx.Wrap(err, "failed to find role by name", errx.TypeInternal)
	}
	return &role, nil
}

// RolesForUser returns the distinct global roles held by a user.
func (r *PostgresRoleRepository) RolesForUser(ctx context.Context, userID kernel.UserID) ([]*rbac.Role, error) {
	var roles []*rbac.Role
	query := `
		SELECT DISTINCT r.id, r.name
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1`
	if err := r.db.SelectContext(ctx, &roles, query, userID.String()); err != nil {
		return nil, errx.Wrap(err, "failed to load user roles", errx.TypeInternal)
	}
	return roles, nil
}

// PermissionsForRole returns the permissions granted to a role.
func (r *PostgresRoleRepository) PermissionsForRole(ctx context.Context, roleID kernel.RoleID) ([]*rbac.Permission, error) {
	var perms []*rbac.Permission
	query := `
		SELECT p.id, p.name
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = $1`
	if err := r.db.SelectContext(ctx, &perms, query, roleID.String()); err != nil {
		return nil, errx.Wrap(err, "failed to load role permissions", errx.TypeInternal)
	}
	return perms, nil
}

// GrantRole attaches a role to a user. The (user, role) pair is unique;
// re-granting is a no-op.
func (r *PostgresRoleRepository) GrantRole(ctx context.Context, userID kernel.UserID, roleID kernel.RoleID) error {
	query := `
		INSERT INTO user_roles (id, user_id, role_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, role_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), userID.String(), roleID.String()); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" { // foreign_key_violation
			return rbac.ErrRoleNotFound().WithCause(err)
		}
		return errx.Wrap(err, "failed to grant role", errx.TypeInternal).
			WithDetail("user_id", userID.String()).
			WithDetail("role_id", roleID.String())
	}
	return nil
}
