package tenant

import (
	"net/http"

	"github.com/texamhq/texam/pkg/errx"
	"github.com/texamhq/texam/pkg/kernel"
)

// Tenant is an organization-level OAuth configuration. It scopes which
// identity provider, client credentials and endpoints apply to a login.
// Tenants are immutable after creation in normal operation.
type Tenant struct {
	ID           kernel.TenantID `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	Domain       string          `db:"domain" json:"domain"`
	Provider     string          `db:"provider" json:"provider"`
	ClientID     string          `db:"client_id" json:"-"`
	ClientSecret string          `db:"client_secret" json:"-"`
	AuthURL      string          `db:"auth_url" json:"-"`
	TokenURL     string          `db:"token_url" json:"-"`
	UserinfoURL  string          `db:"userinfo_url" json:"-"`
}

// DefaultDomain is the domain of the synthetic fallback tenant. Logins
// through it represent unaffiliated identities and are not auto-granted
// membership.
const DefaultDomain = "default"

// IsDefault reports whether this is the synthetic fallback tenant.
func (t *Tenant) IsDefault() bool {
	return t.Domain == DefaultDomain
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("TENANT")

var (
	CodeTenantNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Tenant not found")
)

func ErrTenantNotFound() *errx.Error {
	return ErrRegistry.New(CodeTenantNotFound)
}
