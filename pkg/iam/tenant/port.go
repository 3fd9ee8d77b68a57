package tenant

import "context"

// TenantRepository defines the contract for tenant persistence.
type TenantRepository interface {
	FindByDomain(ctx context.Context, domain string) (*Tenant, error)
	FindByID(ctx context.Context, id string) (*Tenant, error)
	Save(ctx context.Context, t Tenant) error
}

// Resolver maps a request domain to a tenant. Resolution never fails:
// an unknown, empty or absent domain resolves to the default tenant.
type Resolver interface {
	Resolve(ctx context.Context, domain string) *Tenant
}
