package iamcontainer

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/texamhq/texam/pkg/config"
	"github.com/texamhq/texam/pkg/iam/apitoken/apitokenapi"
	"github.com/texamhq/texam/pkg/iam/apitoken/apitokeninfra"
	"github.com/texamhq/texam/pkg/iam/apitoken/apitokensrv"
	"github.com/texamhq/texam/pkg/iam/auth"
	"github.com/texamhq/texam/pkg/iam/auth/authinfra"
	"github.com/texamhq/texam/pkg/iam/oauth"
	"github.com/texamhq/texam/pkg/iam/org/orgapi"
	"github.com/texamhq/texam/pkg/iam/org/orginfra"
	"github.com/texamhq/texam/pkg/iam/org/orgsrv"
	"github.com/texamhq/texam/pkg/iam/rbac"
	"github.com/texamhq/texam/pkg/iam/rbac/rbacinfra"
	"github.com/texamhq/texam/pkg/iam/rbac/rbacsrv"
	"github.com/texamhq/texam/pkg/iam/tenant"
	"github.com/texamhq/texam/pkg/iam/tenant/tenantinfra"
	"github.com/texamhq/texam/pkg/iam/tenant/tenantsrv"
	"github.com/texamhq/texam/pkg/iam/user/userapi"
	"github.com/texamhq/texam/pkg/iam/user/userinfra"
	"github.com/texamhq/texam/pkg/iam/user/usersrv"
	"github.com/texamhq/texam/pkg/kernel"
)

// ---------------------------------------------------------------------------
// Deps: explicit external dependencies this bounded context requires.
// No hidden globals, no ambient state — everything comes through here.
// ---------------------------------------------------------------------------

type Deps struct {
	DB    *sqlx.DB
	Redis *redis.Client
	Cfg   *config.Config
}

// ---------------------------------------------------------------------------
// Container: the public surface of the IAM module. Only what cmd/ needs to
// register routes and guards is exposed; repos stay private.
// ---------------------------------------------------------------------------

type Container struct {
	// Services
	TenantService   *tenantsrv.TenantService
	UserService     *usersrv.UserService
	RBACService     *rbacsrv.RBACService
	APITokenService *apitokensrv.APITokenService
	AuthService     *auth.AuthService
	OrgService      *orgsrv.OrgService

	// Handlers — needed by cmd/ to register routes
	AuthHandlers     *auth.AuthHandlers
	APITokenHandlers *apitokenapi.APITokenHandlers
	UserHandlers     *userapi.UserHandlers
	OrgHandlers      *orgapi.OrgHandlers

	// Middleware — needed by cmd/ to protect route groups
	AuthMiddleware       *auth.TokenMiddleware
	PermissionMiddleware *rbac.PermissionMiddleware
}

// New constructs the IAM dependency graph.
// Order matters: infra → repos → services → handlers → middleware.
func New(deps Deps) *Container {
	cfg := deps.Cfg

	// The synthetic fallback tenant lives in configuration, not in the
	// store; it exists even when the tenants table is empty.
	defaultTenant := tenant.Tenant{
		ID:           kernel.NewTenantID(uuid.NewString()),
		Name:         "Default Tenant",
		Domain:       cfg.DefaultTenant.Domain,
		Provider:     cfg.DefaultTenant.Provider,
		ClientID:     cfg.DefaultTenant.ClientID,
		ClientSecret: cfg.DefaultTenant.ClientSecret,
		AuthURL:      cfg.DefaultTenant.AuthURL,
		TokenURL:     cfg.DefaultTenant.TokenURL,
		UserinfoURL:  cfg.DefaultTenant.UserinfoURL,
	}

	tenantRepo := tenantinfra.NewPostgresTenantRepository(deps.DB)
	userRepo := userinfra.NewPostgresUserRepository(deps.DB)
	roleRepo := rbacinfra.NewPostgresRoleRepository(deps.DB)
	apiTokenRepo := apitokeninfra.NewPostgresAPITokenRepository(deps.DB)
	orgRepo := orginfra.NewPostgresOrganizationRepository(deps.DB)
	sessionStore := authinfra.NewRedisSessionStore(deps.Redis)

	tenantService := tenantsrv.NewTenantService(tenantRepo, defaultTenant)
	userService := usersrv.NewUserService(userRepo)
	rbacService := rbacsrv.NewRBACService(roleRepo)
	apiTokenService := apitokensrv.NewAPITokenService(apiTokenRepo)
	orgService := orgsrv.NewOrgService(orgRepo, roleRepo, userRepo)

	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.Issuer)
	exchanger := oauth.NewExchangeClient(cfg.Server.BaseURL, cfg.Auth.OAuthTimeout)

	authService := auth.NewAuthService(
		tenantService,
		exchanger,
		userService,
		jwtService,
		sessionStore,
		apiTokenService,
		cfg.Auth.RefreshTokenTTL,
	)

	return &Container{
		TenantService:   tenantService,
		UserService:     userService,
		RBACService:     rbacService,
		APITokenService: apiTokenService,
		AuthService:     authService,
		OrgService:      orgService,

		AuthHandlers:     auth.NewAuthHandlers(authService, userService),
		APITokenHandlers: apitokenapi.NewAPITokenHandlers(apiTokenService),
		UserHandlers:     userapi.NewUserHandlers(userService),
		OrgHandlers:      orgapi.NewOrgHandlers(orgService),

		AuthMiddleware:       auth.NewTokenMiddleware(authService),
		PermissionMiddleware: rbac.NewPermissionMiddleware(rbacService),
	}
}
