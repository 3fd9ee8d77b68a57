package apitokeninfra

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/texamhq/texam/pkg/errx"
	"github.com/texamhq/texam/pkg/iam/apitoken"
	"github.com/texamhq/texam/pkg/kernel"
)

// PostgresAPITokenRepository is the Postgres implementation of
// APITokenRepository.
type PostgresAPITokenRepository struct {
	db *sqlx.DB
}

// NewPostgresAPITokenRepository creates a new repository instance.
func NewPostgresAPITokenRepository(db *sqlx.DB) apitoken.APITokenRepository {
	return &PostgresAPITokenRepository{db: db}
}

// Save inserts a token record. The hash column is unique.
func (r *PostgresAPITokenRepository) Save(ctx context.Context, t apitoken.APIToken) error {
	query := `
		INSERT INTO api_tokens (id, user_id, token_hash, expires_at, revoked, created_at)
		VALUES (:id, :user_id, :token_hash, :expires_at, :revoked, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return errx.New("token hash collision", errx.TypeInternal).WithCause(err)
		}
		return errx.Wrap(err, "failed to save API token", errx.TypeInternal).
			WithDetail("token_id", t.ID)
	}
	return nil
}

// FindByHash looks up a token by its persisted hash.
func (r *PostgresAPITokenRepository) FindByHash(ctx context.Context, hash string) (*apitoken.APIToken, error) {
	var t apitoken.APIToken
	query := `SELECT * FROM api_tokens WHERE token_hash = $1`
	if err := r.db.GetContext(ctx, &t, query, hash); err != nil {
		if err == sql.ErrNoRows {
			return nil, apitoken.ErrTokenNotFound()
		}
		return nil, errx.Wrap(err, "failed to find API token by hash", errx.TypeInternal)
	}
	return &t, nil
}

// ListActiveByUser returns a user's currently usable tokens.
func (r *PostgresAPITokenRepository) ListActiveByUser(ctx context.Context, userID kernel.UserID) ([]*apitoken.APIToken, error) {
	var tokens []*apitoken.APIToken
	query := `
		SELECT * FROM api_tokens
		WHERE user_id = $1 AND revoked = false AND expires_at > now()
		ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &tokens, query, userID.String()); err != nil {
		return nil, errx.Wrap(err, "failed to list API tokens", errx.TypeInternal)
	}
	return tokens, nil
}

// Revoke flips the revoked flag under the row's own atomicity. The owner
// check is part of the predicate: a wrong owner and a missing id are the
// same zero-row outcome, and a double revoke matches the row again and is
// harmless.
func (r *PostgresAPITokenRepository) Revoke(ctx context.Context, id string, ownerID kernel.UserID) error {
	query := `UPDATE api_tokens SET revoked = true WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, ownerID.String())
	if err != nil {
		return errx.Wrap(err, "failed to revoke API token", errx.TypeInternal).
			WithDetail("token_id", id)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to read revoke result", errx.TypeInternal)
	}
	if n == 0 {
		return apitoken.ErrTokenNotFound()
	}
	return nil
}
