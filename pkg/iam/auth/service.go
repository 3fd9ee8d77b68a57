package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/texamhq/texam/pkg/iam"
	"github.com/texamhq/texam/pkg/iam/tenant"
	"github.com/texamhq/texam/pkg/kernel"
	"github.com/texamhq/texam/pkg/logx"
)

// AuthService orchestrates the credential lifecycle: the OAuth login flow,
// the three-credential validation fallback, refresh and logout.
type AuthService struct {
	tenants     tenant.Resolver
	exchanger   Exchanger
	reconciler  IdentityReconciler
	tokens      TokenService
	sessions    SessionStore
	apiTokens   APITokenValidator
	refreshTTL  time.Duration
}

// NewAuthService wires the credential lifecycle together.
func NewAuthService(
	tenants tenant.Resolver,
	exchanger Exchanger,
	reconciler IdentityReconciler,
	tokens TokenService,
	sessions SessionStore,
	apiTokens APITokenValidator,
	refreshTTL time.Duration,
) *AuthService {
	if refreshTTL == 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &AuthService{
		tenants:    tenants,
		exchanger:  exchanger,
		reconciler: reconciler,
		tokens:     tokens,
		sessions:   sessions,
		apiTokens:  apiTokens,
		refreshTTL: refreshTTL,
	}
}

// LoginRedirect resolves the domain to a tenant and builds the provider
// authorization URL. An absent or unknown domain uses the default tenant;
// login never fails on the way out.
func (s *AuthService) LoginRedirect(ctx context.Context, domain string) string {
	t := s.tenants.Resolve(ctx, domain)
	return s.exchanger.AuthorizationURL(t)
}

// Callback completes the login: code exchange, identity reconciliation,
// then access + refresh token issuance. Provider failures surface as
// authentication failures, never as server faults.
func (s *AuthService) Callback(ctx context.Context, domain, code string) (*LoginResult, error) {
	if code == "" {
		return nil, ErrMissingCode()
	}

	t := s.tenants.Resolve(ctx, domain)

	claims, err := s.exchanger.Exchange(ctx, t, code)
	if err != nil {
		logx.WithFields(logx.Fields{"domain": t.Domain}).Errorf("oauth exchange failed: %v", err)
		return nil, err
	}

	u, err := s.reconciler.Reconcile(ctx, t, claims)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.IssueAccessToken(u.ID, u.EmailValue())
	if err != nil {
		return nil, err
	}

	refreshToken := s.IssueRefreshToken()
	if err := s.sessions.Save(ctx, refreshToken, u.ID, u.EmailValue(), s.refreshTTL); err != nil {
		return nil, err
	}

	return &LoginResult{
		User:         u,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.tokens.AccessTokenTTL().Seconds()),
	}, nil
}

// IssueRefreshToken generates a fresh opaque refresh token. The caller is
// responsible for storing the session mapping.
func (s *AuthService) IssueRefreshToken() string {
	return uuid.NewString()
}

// Refresh exchanges a live refresh token for a new access token. The
// refresh token is not rotated; it stays valid until its original TTL or
// an explicit logout.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, int, error) {
	userID, email, err := s.sessions.Lookup(ctx, refreshToken)
	if err != nil {
		return "", 0, err
	}

	accessToken, err := s.tokens.IssueAccessToken(userID, email)
	if err != nil {
		return "", 0, err
	}
	return accessToken, int(s.tokens.AccessTokenTTL().Seconds()), nil
}

// Logout invalidates a refresh session. Idempotent: logging out an already
// logged-out token succeeds.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.sessions.Delete(ctx, refreshToken)
}

// Authenticate resolves a bearer credential to a principal. Access tokens
// are tried first since they verify without a store lookup; API tokens,
// which cost a round-trip, are the fallback. Both failing means the
// request is unauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, bearer string) (*kernel.AuthContext, error) {
	if claims, err := s.tokens.ValidateAccessToken(bearer); err == nil {
		return &kernel.AuthContext{
			UserID:     claims.UserID,
			Email:      claims.Email,
			Credential: kernel.CredentialAccessToken,
		}, nil
	}

	if userID, ok := s.apiTokens.Validate(ctx, bearer); ok {
		return &kernel.AuthContext{
			UserID:     userID,
			Credential: kernel.CredentialAPIToken,
		}, nil
	}

	return nil, iam.ErrInvalidToken()
}
