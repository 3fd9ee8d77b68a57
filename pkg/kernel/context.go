package kernel

import "context"

// CredentialKind distinguishes how a request was authenticated.
type CredentialKind string

const (
	// CredentialAccessToken means a signed short-lived access token.
	CredentialAccessToken CredentialKind = "access_token"
	// CredentialAPIToken means a long-lived hashed API token.
	CredentialAPIToken CredentialKind = "api_token"
)

// AuthContext is the authenticated principal attached to a request by the
// authentication middleware. It is threaded as an explicit typed context
// value, never as ambient mutable request state.
type AuthContext struct {
	UserID     UserID         `json:"user_id"`
	Email      string         `json:"email"`
	Credential CredentialKind `json:"credential"`
}

// IsValid reports whether the context identifies a user.
func (ac *AuthContext) IsValid() bool {
	return ac != nil && !ac.UserID.IsEmpty()
}

type contextKey string

const authContextKey contextKey = "texam.auth_context"

// WithAuthContext returns a context carrying the authenticated principal.
func WithAuthContext(ctx context.Context, ac *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, ac)
}

// AuthFromContext extracts the authenticated principal, if any.
func AuthFromContext(ctx context.Context) (*AuthContext, bool) {
	ac, ok := ctx.Value(authContextKey).(*AuthContext)
	return ac, ok && ac.IsValid()
}
