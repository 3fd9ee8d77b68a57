package userinfra

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/texamhq/texam/pkg/errx"
	"github.com/texamhq/texam/pkg/iam/user"
	"github.com/texamhq/texam/pkg/kernel"
)

// PostgresUserRepository is the Postgres implementation of UserRepository.
type PostgresUserRepository struct {
	db *sqlx.DB
}

// NewPostgresUserRepository creates a new repository instance.
func NewPostgresUserRepository(db *sqlx.DB) user.UserRepository {
	return &PostgresUserRepository{db: db}
}

// FindByID looks up a user by id.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id kernel.UserID) (*user.User, error) {
	var u user.User
	query := `SELECT * FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &u, query, id.String()); err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrUserNotFound()
		}
		return nil, errx.Wrap(err, "failed to find user by ID", errx.TypeInternal)
	}
	return &u, nil
}

// FindByEmail looks up a user by email. Email is unique, so at most one row
// can match; the store's constraint is the authority under concurrent
// first-logins.
func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	query := `SELECT * FROM users WHERE email = $1`
	if err := r.db.GetContext(ctx, &u, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrUserNotFound().WithDetail("email", email)
		}
		return nil, errx.Wrap(err, "failed to find user by email", errx.TypeInternal)
	}
	return &u, nil
}

// List returns all users.
func (r *PostgresUserRepository) List(ctx context.Context) ([]*user.User, error) {
	var users []*user.User
	query := `SELECT * FROM users ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, errx.Wrap(err, "failed to list users", errx.TypeInternal)
	}
	return users, nil
}

const insertUserQuery = `
	INSERT INTO users (id, username, email, name, picture, created_at, updated_at)
	VALUES (:id, :username, :email, :name, :picture, :created_at, :updated_at)`

// Create inserts a user row.
func (r *PostgresUserRepository) Create(ctx context.Context, u user.User) error {
	if _, err := r.db.NamedExecContext(ctx, insertUserQuery, u); err != nil {
		return mapInsertError(err, u)
	}
	return nil
}

// CreateWithRole inserts a user and grants the named role atomically. Either
// both rows land or neither does; a failing grant leg is reported as
// CodeRoleGrant so the caller can retry the insert without the grant.
func (r *PostgresUserRepository) CreateWithRole(ctx context.Context, u user.User, roleName string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errx.Wrap(err, "failed to begin transaction", errx.TypeInternal)
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, insertUserQuery, u); err != nil {
		return mapInsertError(err, u)
	}

	var roleID string
	if err := tx.GetContext(ctx, &roleID, `SELECT id FROM roles WHERE name = $1`, roleName); err != nil {
		return user.ErrRoleGrant(err).WithDetail("role", roleName)
	}

	grant := `INSERT INTO user_roles (id, user_id, role_id) VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, grant, uuid.NewString(), u.ID.String(), roleID); err != nil {
		return user.ErrRoleGrant(err).WithDetail("role", roleName)
	}

	if err := tx.Commit(); err != nil {
		return errx.Wrap(err, "failed to commit user creation", errx.TypeInternal)
	}
	return nil
}

// UpdateProfile persists the mutable profile fields.
func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, u user.User) error {
	query := `UPDATE users SET name = :name, picture = :picture, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, u)
	if err != nil {
		return errx.Wrap(err, "failed to update user profile", errx.TypeInternal).
			WithDetail("user_id", u.ID.String())
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return user.ErrUserNotFound()
	}
	return nil
}

func mapInsertError(err error, u user.User) error {
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
		return user.ErrEmailTaken().WithDetail("email", u.EmailValue())
	}
	return errx.Wrap(err, "failed to create user", errx.TypeInternal).
		WithDetail("user_id", u.ID.String())
}
