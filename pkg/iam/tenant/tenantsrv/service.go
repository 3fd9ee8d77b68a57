package tenantsrv

import (
	"context"

	"github.com/texamhq/texam/pkg/iam/tenant"
	"github.com/texamhq/texam/pkg/logx"
)

// TenantService resolves request domains to tenants. Resolution is a policy
// fallback, not a lookup that can fail: anything without an exact domain
// match gets the statically configured default tenant.
type TenantService struct {
	repo          tenant.TenantRepository
	defaultTenant tenant.Tenant
}

// NewTenantService creates a resolver with the given fallback tenant.
func NewTenantService(repo tenant.TenantRepository, defaultTenant tenant.Tenant) *TenantService {
	return &TenantService{
		repo:          repo,
		defaultTenant: defaultTenant,
	}
}

// Resolve maps a domain to its tenant, falling back to the default tenant
// for empty or unknown domains. Store failures also fall back; they are
// logged but must not block a login.
func (s *TenantService) Resolve(ctx context.Context, domain string) *tenant.Tenant {
	if domain == "" || domain == tenant.DefaultDomain {
		t := s.defaultTenant
		return &t
	}

	t, err := s.repo.FindByDomain(ctx, domain)
	if err != nil {
		logx.WithFields(logx.Fields{"domain": domain}).Debugf("tenant resolution fell back to default: %v", err)
		fallback := s.defaultTenant
		return &fallback
	}
	return t
}

// DefaultTenant returns a copy of the configured fallback tenant.
func (s *TenantService) DefaultTenant() tenant.Tenant {
	return s.defaultTenant
}
