package auth

import (
	"context"
	"time"

	"github.com/texamhq/texam/pkg/iam/oauth"
	"github.com/texamhq/texam/pkg/iam/tenant"
	"github.com/texamhq/texam/pkg/iam/user"
	"github.com/texamhq/texam/pkg/kernel"
)

// TokenService defines the contract for signed access-token management.
// Issue and validate are pure computation; neither touches a store.
type TokenService interface {
	IssueAccessToken(userID kernel.UserID, email string) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	AccessTokenTTL() time.Duration
}

// SessionStore defines the contract for refresh-session persistence in the
// ephemeral store. Sessions are independent per-key records with server-side
// expiry; losing the store only forces re-login.
type SessionStore interface {
	Save(ctx context.Context, refreshToken string, userID kernel.UserID, email string, ttl time.Duration) error

	// Lookup resolves a refresh token to its identity. An absent or
	// expired key answers CodeInvalidRefreshToken.
	Lookup(ctx context.Context, refreshToken string) (kernel.UserID, string, error)

	// Delete removes a session. Deleting an absent key is not an error.
	Delete(ctx context.Context, refreshToken string) error
}

// APITokenValidator is the API-token leg of request authentication.
type APITokenValidator interface {
	Validate(ctx context.Context, raw string) (kernel.UserID, bool)
}

// IdentityReconciler maps provider claims onto a local user.
type IdentityReconciler interface {
	Reconcile(ctx context.Context, t *tenant.Tenant, claims *oauth.IdentityClaims) (*user.User, error)
}

// Exchanger performs the authorization-code flow against a tenant provider.
type Exchanger interface {
	AuthorizationURL(t *tenant.Tenant) string
	Exchange(ctx context.Context, t *tenant.Tenant, code string) (*oauth.IdentityClaims, error)
}
