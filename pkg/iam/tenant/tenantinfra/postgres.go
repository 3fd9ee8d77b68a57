package tenantinfra

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/texamhq/texam/pkg/errx"
	"github.com/texamhq/texam/pkg/iam/tenant"
)

// PostgresTenantRepository is the Postgres implementation of TenantRepository.
type PostgresTenantRepository struct {
	db *sqlx.DB
}

// NewPostgresTenantRepository creates a new repository instance.
func NewPostgresTenantRepository(db *sqlx.DB) tenant.TenantRepository {
	return &PostgresTenantRepository{db: db}
}

// FindByDomain looks up a tenant by its exact domain.
func (r *PostgresTenantRepository) FindByDomain(ctx context.Context, domain string) (*tenant.Tenant, error) {
	var t tenant.Tenant
	query := `SELECT * FROM tenants WHERE domain = $1`
	if err := r.db.GetContext(ctx, &t, query, domain); err != nil {
		if err == sql.ErrNoRows {
			return nil, tenant.ErrTenantNotFound().WithDetail("domain", domain)
		}
		return nil, errx.Wrap(err, "failed to find tenant by domain", errx.TypeInternal)
	}
	return &t, nil
}

// FindByID looks up a tenant by its id.
func (r *PostgresTenantRepository) FindByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	var t tenant.Tenant
	query := `SELECT * FROM tenants WHERE id = $1`
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, tenant.ErrTenantNotFound()
		}
		return nil, errx.Wrap(err, "failed to find tenant by ID", errx.TypeInternal)
	}
	return &t, nil
}

// Save inserts a tenant. Name and domain are unique.
func (r *PostgresTenantRepository) Save(ctx context.Context, t tenant.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, domain, provider, client_id, client_secret, auth_url, token_url, userinfo_url)
		VALUES (:id, :name, :domain, :provider, :client_id, :client_secret, :auth_url, :token_url, :userinfo_url)`

	_, err := r.db.NamedExecContext(ctx, query, t)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return errx.New("tenant name or domain already exists", errx.TypeConflict).
				WithDetail("domain", t.Domain)
		}
		return errx.Wrap(err, "failed to save tenant", errx.TypeInternal).
			WithDetail("tenant_id", t.ID.String())
	}
	return nil
}
