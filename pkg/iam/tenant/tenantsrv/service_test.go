package tenantsrv_test

import (
	"context"
	"errors"
	"testing"

	"github.com/texamhq/texam/pkg/iam/tenant"
	"github.com/texamhq/texam/pkg/iam/tenant/tenantsrv"
	"github.com/texamhq/texam/pkg/kernel"
)

type fakeRepo struct {
	byDomain map[string]*tenant.Tenant
	err      error
}

func (f *fakeRepo) FindByDomain(_ context.Context, domain string) (*tenant.Tenant, error) {
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.byDomain[domain]
	if !ok {
		return nil, tenant.ErrTenantNotFound()
	}
	return t, nil
}

func (f *fakeRepo) FindByID(_ context.Context, _ string) (*tenant.Tenant, error) {
	return nil, tenant.ErrTenantNotFound()
}

func (f *fakeRepo) Save(_ context.Context, _ tenant.Tenant) error { return nil }

func fallbackTenant() tenant.Tenant {
	return tenant.Tenant{
		ID:     kernel.NewTenantID("tenant-default"),
		Domain: tenant.DefaultDomain,
	}
}

func TestResolve_KnownDomain(t *testing.T) {
	acme := &tenant.Tenant{ID: kernel.NewTenantID("tenant-acme"), Domain: "acme.edu"}
	svc := tenantsrv.NewTenantService(&fakeRepo{byDomain: map[string]*tenant.Tenant{"acme.edu": acme}}, fallbackTenant())

	resolved := svc.Resolve(context.Background(), "acme.edu")
	if resolved.ID != acme.ID {
		t.Fatalf("expected acme tenant, got %s", resolved.ID)
	}
	if resolved.IsDefault() {
		t.Fatal("a matched tenant is not the default")
	}
}

func TestResolve_EmptyDomainFallsBack(t *testing.T) {
	svc := tenantsrv.NewTenantService(&fakeRepo{}, fallbackTenant())

	resolved := svc.Resolve(context.Background(), "")
	if !resolved.IsDefault() {
		t.Fatal("empty domain must resolve to the default tenant")
	}
}

func TestResolve_UnknownDomainFallsBack(t *testing.T) {
	svc := tenantsrv.NewTenantService(&fakeRepo{byDomain: map[string]*tenant.Tenant{}}, fallbackTenant())

	resolved := svc.Resolve(context.Background(), "nobody.example.com")
	if !resolved.IsDefault() {
		t.Fatal("unknown domain must resolve to the default tenant")
	}
}

func TestResolve_StoreFailureFallsBack(t *testing.T) {
	svc := tenantsrv.NewTenantService(&fakeRepo{err: errors.New("connection refused")}, fallbackTenant())

	resolved := svc.Resolve(context.Background(), "acme.edu")
	if !resolved.IsDefault() {
		t.Fatal("a store failure must not block login")
	}
}

func TestResolve_ReturnsACopy(t *testing.T) {
	svc := tenantsrv.NewTenantService(&fakeRepo{}, fallbackTenant())

	first := svc.Resolve(context.Background(), "")
	first.Name = "mutated"

	second := svc.Resolve(context.Background(), "")
	if second.Name == "mutated" {
		t.Fatal("resolved default tenant must be a copy")
	}
}
