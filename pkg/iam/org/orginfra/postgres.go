package orginfra

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/texamhq/texam/pkg/errx"
	"github.com/texamhq/texam/pkg/iam/org"
	"github.com/texamhq/texam/pkg/kernel"
)

// PostgresOrganizationRepository is the Postgres implementation of
// OrganizationRepository.
type PostgresOrganizationRepository struct {
	db *sqlx.DB
}

// NewPostgresOrganizationRepository creates a new repository instance.
func NewPostgresOrganizationRepository(db *sqlx.DB) org.OrganizationRepository {
	return &PostgresOrganizationRepository{db: db}
}

// CreateWithAdmin inserts the organization and the creator's admin-scoped
// membership atomically.
func (r *PostgresOrganizationRepository) CreateWithAdmin(ctx context.Context, o org.Organization, creatorID kernel.UserID, adminRoleID kernel.RoleID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errx.Wrap(err, "failed to begin transaction", errx.TypeInternal)
	}
	defer tx.Rollback()

	insertOrg := `INSERT INTO organizations (id, name, created_at) VALUES (:id, :name, :created_at)`
	if _, err := tx.NamedExecContext(ctx, insertOrg, o); err != nil {
		return errx.Wrap(err, "failed to create organization", errx.TypeInternal)
	}

	insertMembership := `
		INSERT INTO user_organizations (id, user_id, organization_id, role_id)
		VALUES ($1, $2, $3, $4)`
	if _, err := tx.ExecContext(ctx, insertMembership, uuid.NewString(), creatorID.String(), o.ID.String(), adminRoleID.String()); err != nil {
		return errx.Wrap(err, "failed to attach creator membership", errx.TypeInternal)
	}

	if err := tx.Commit(); err != nil {
		return errx.Wrap(err, "failed to commit organization creation", errx.TypeInternal)
	}
	return nil
}

// FindByID looks up an organization.
func (r *PostgresOrganizationRepository) FindByID(ctx context.Context, id kernel.OrgID) (*org.Organization, error) {
	var o org.Organization
	query := `SELECT * FROM organizations WHERE id = $1`
	if err := r.db.GetContext(ctx, &o, query, id.String()); err != nil {
		if err == sql.ErrNoRows {
			return nil, org.ErrOrgNotFound()
		}
		return nil, errx.Wrap(err, "failed to find organization", errx.TypeInternal)
	}
	return &o, nil
}

// Members lists memberships joined with user and role names.
func (r *PostgresOrganizationRepository) Members(ctx context.Context, id kernel.OrgID) ([]*org.Member, error) {
	var members []*org.Member
	query := `
		SELECT uo.user_id, u.name AS user_name, r.name AS role
		FROM user_organizations uo
		JOIN users u ON u.id = uo.user_id
		JOIN roles r ON r.id = uo.role_id
		WHERE uo.organization_id = $1`
	if err := r.db.SelectContext(ctx, &members, query, id.String()); err != nil {
		return nil, errx.Wrap(err, "failed to list organization members", errx.TypeInternal)
	}
	return members, nil
}

// AddMember attaches a user to the organization with an org-scoped role.
func (r *PostgresOrganizationRepository) AddMember(ctx context.Context, orgID kernel.OrgID, userID kernel.UserID, roleID kernel.RoleID) error {
	query := `
		INSERT INTO user_organizations (id, user_id, organization_id, role_id)
		VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), userID.String(), orgID.String(), roleID.String()); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return org.ErrDuplicateMember()
		}
		return errx.Wrap(err, "failed to add organization member", errx.TypeInternal)
	}
	return nil
}

// RemoveMember detaches a user from the organization.
func (r *PostgresOrganizationRepository) RemoveMember(ctx context.Context, orgID kernel.OrgID, userID kernel.UserID) error {
	query := `DELETE FROM user_organizations WHERE organization_id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, orgID.String(), userID.String())
	if err != nil {
		return errx.Wrap(err, "failed to remove organization member", errx.TypeInternal)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return org.ErrMemberNotFound()
	}
	return nil
}
