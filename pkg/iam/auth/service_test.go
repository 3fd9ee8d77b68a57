package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/texamhq/texam/pkg/errx"
	"github.com/texamhq/texam/pkg/iam/auth"
	"github.com/texamhq/texam/pkg/iam/oauth"
	"github.com/texamhq/texam/pkg/iam/tenant"
	"github.com/texamhq/texam/pkg/iam/user"
	"github.com/texamhq/texam/pkg/kernel"
)

// --- fakes ---

type fakeResolver struct {
	tenant tenant.Tenant
}

func (f *fakeResolver) Resolve(_ context.Context, _ string) *tenant.Tenant {
	t := f.tenant
	return &t
}

type fakeExchanger struct {
	claims *oauth.IdentityClaims
	err    error
	urls   int
}

func (f *fakeExchanger) AuthorizationURL(_ *tenant.Tenant) string {
	f.urls++
	return "https://provider.example.com/authorize?state=x"
}

func (f *fakeExchanger) Exchange(_ context.Context, _ *tenant.Tenant, _ string) (*oauth.IdentityClaims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

type fakeReconciler struct {
	user *user.User
	err  error
}

func (f *fakeReconciler) Reconcile(_ context.Context, _ *tenant.Tenant, _ *oauth.IdentityClaims) (*user.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.user, nil
}

type sessionRecord struct {
	userID kernel.UserID
	email  string
}

type fakeSessions struct {
	store   map[string]sessionRecord
	deletes int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{store: make(map[string]sessionRecord)}
}

func (f *fakeSessions) Save(_ context.Context, token string, userID kernel.UserID, email string, _ time.Duration) error {
	f.store[token] = sessionRecord{userID: userID, email: email}
	return nil
}

func (f *fakeSessions) Lookup(_ context.Context, token string) (kernel.UserID, string, error) {
	rec, ok := f.store[token]
	if !ok {
		return "", "", auth.ErrInvalidRefreshToken()
	}
	return rec.userID, rec.email, nil
}

func (f *fakeSessions) Delete(_ context.Context, token string) error {
	delete(f.store, token)
	f.deletes++
	return nil
}

type fakeAPITokens struct {
	valid map[string]kernel.UserID
}

func (f *fakeAPITokens) Validate(_ context.Context, raw string) (kernel.UserID, bool) {
	id, ok := f.valid[raw]
	return id, ok
}

func testUser() *user.User {
	email := "alice@example.com"
	return &user.User{
		ID:       kernel.NewUserID("user-1"),
		Username: email,
		Email:    &email,
		Name:     "Alice",
	}
}

func newService(exchanger *fakeExchanger, reconciler *fakeReconciler, sessions *fakeSessions, apiTokens *fakeAPITokens) *auth.AuthService {
	return auth.NewAuthService(
		&fakeResolver{tenant: tenant.Tenant{Domain: tenant.DefaultDomain}},
		exchanger,
		reconciler,
		auth.NewJWTService("test-secret", time.Hour, "texam"),
		sessions,
		apiTokens,
		30*24*time.Hour,
	)
}

// --- Callback tests ---

func TestAuthService_CallbackIssuesBothTokens(t *testing.T) {
	sessions := newFakeSessions()
	svc := newService(
		&fakeExchanger{claims: &oauth.IdentityClaims{Email: "alice@example.com", Name: "Alice"}},
		&fakeReconciler{user: testUser()},
		sessions,
		&fakeAPITokens{},
	)

	result, err := svc.Callback(context.Background(), "", "auth-code")
	if err != nil {
		t.Fatal(err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("expected both tokens in the login result")
	}
	if result.ExpiresIn != 3600 {
		t.Fatalf("expected 3600s expiry, got %d", result.ExpiresIn)
	}

	rec, ok := sessions.store[result.RefreshToken]
	if !ok {
		t.Fatal("refresh session was not stored")
	}
	if rec.userID != kernel.NewUserID("user-1") {
		t.Fatalf("session stored wrong user: %s", rec.userID)
	}
}

func TestAuthService_CallbackMissingCode(t *testing.T) {
	svc := newService(&fakeExchanger{}, &fakeReconciler{}, newFakeSessions(), &fakeAPITokens{})

	_, err := svc.Callback(context.Background(), "", "")
	if err == nil {
		t.Fatal("expected missing code to fail")
	}
	if !errx.IsType(err, errx.TypeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthService_CallbackExchangeFailure(t *testing.T) {
	svc := newService(
		&fakeExchanger{err: oauth.ErrExchangeFailed(context.DeadlineExceeded)},
		&fakeReconciler{user: testUser()},
		newFakeSessions(),
		&fakeAPITokens{},
	)

	_, err := svc.Callback(context.Background(), "", "auth-code")
	if err == nil {
		t.Fatal("expected exchange failure to surface")
	}
	var e *errx.Error
	if !errx.As(err, &e) {
		t.Fatalf("expected *errx.Error, got %T", err)
	}
	if e.HTTPStatus != 401 {
		t.Fatalf("provider failures must answer 401, got %d", e.HTTPStatus)
	}
}

// --- Refresh tests ---

func TestAuthService_RefreshHappyPath(t *testing.T) {
	sessions := newFakeSessions()
	sessions.store["refresh-1"] = sessionRecord{userID: kernel.NewUserID("user-1"), email: "alice@example.com"}
	svc := newService(&fakeExchanger{}, &fakeReconciler{}, sessions, &fakeAPITokens{})

	accessToken, expiresIn, err := svc.Refresh(context.Background(), "refresh-1")
	if err != nil {
		t.Fatal(err)
	}
	if accessToken == "" {
		t.Fatal("expected a fresh access token")
	}
	if expiresIn != 3600 {
		t.Fatalf("expected 3600s expiry, got %d", expiresIn)
	}

	// No rotation: the original refresh token must still work.
	if _, _, err := svc.Refresh(context.Background(), "refresh-1"); err != nil {
		t.Fatalf("refresh token should remain valid: %v", err)
	}
}

func TestAuthService_RefreshUnknownToken(t *testing.T) {
	svc := newService(&fakeExchanger{}, &fakeReconciler{}, newFakeSessions(), &fakeAPITokens{})

	_, _, err := svc.Refresh(context.Background(), "never-issued")
	if err == nil {
		t.Fatal("expected unknown refresh token to fail")
	}
	if !errx.IsType(err, errx.TypeAuthentication) {
		t.Fatalf("expected authentication error, got %v", err)
	}
}

// --- Logout tests ---

func TestAuthService_LogoutIsIdempotent(t *testing.T) {
	sessions := newFakeSessions()
	sessions.store["refresh-1"] = sessionRecord{userID: kernel.NewUserID("user-1"), email: "alice@example.com"}
	svc := newService(&fakeExchanger{}, &fakeReconciler{}, sessions, &fakeAPITokens{})

	if err := svc.Logout(context.Background(), "refresh-1"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Refresh(context.Background(), "refresh-1"); err == nil {
		t.Fatal("refresh must fail after logout")
	}

	// Second logout of the same token still succeeds.
	if err := svc.Logout(context.Background(), "refresh-1"); err != nil {
		t.Fatalf("repeated logout must succeed: %v", err)
	}
}

// --- Authenticate tests ---

func TestAuthService_AuthenticateAccessToken(t *testing.T) {
	svc := newService(&fakeExchanger{}, &fakeReconciler{}, newFakeSessions(), &fakeAPITokens{})

	jwtSvc := auth.NewJWTService("test-secret", time.Hour, "texam")
	token, err := jwtSvc.IssueAccessToken(kernel.NewUserID("user-1"), "alice@example.com")
	if err != nil {
		t.Fatal(err)
	}

	authCtx, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatal(err)
	}
	if authCtx.UserID != kernel.NewUserID("user-1") {
		t.Fatalf("expected user-1, got %s", authCtx.UserID)
	}
	if authCtx.Credential != kernel.CredentialAccessToken {
		t.Fatalf("expected access_token credential, got %s", authCtx.Credential)
	}
}

func TestAuthService_AuthenticateFallsBackToAPIToken(t *testing.T) {
	apiTokens := &fakeAPITokens{valid: map[string]kernel.UserID{
		"raw-api-token": kernel.NewUserID("user-2"),
	}}
	svc := newService(&fakeExchanger{}, &fakeReconciler{}, newFakeSessions(), apiTokens)

	authCtx, err := svc.Authenticate(context.Background(), "raw-api-token")
	if err != nil {
		t.Fatal(err)
	}
	if authCtx.UserID != kernel.NewUserID("user-2") {
		t.Fatalf("expected user-2, got %s", authCtx.UserID)
	}
	if authCtx.Credential != kernel.CredentialAPIToken {
		t.Fatalf("expected api_token credential, got %s", authCtx.Credential)
	}
}

func TestAuthService_AuthenticateRejectsUnknownCredential(t *testing.T) {
	svc := newService(&fakeExchanger{}, &fakeReconciler{}, newFakeSessions(), &fakeAPITokens{})

	_, err := svc.Authenticate(context.Background(), "neither-jwt-nor-api-token")
	if err == nil {
		t.Fatal("expected unauthenticated request to fail")
	}
	var e *errx.Error
	if !errx.As(err, &e) {
		t.Fatalf("expected *errx.Error, got %T", err)
	}
	if e.HTTPStatus != 401 {
		t.Fatalf("expected 401, got %d", e.HTTPStatus)
	}
}

func TestAuthService_LoginRedirectNeverFails(t *testing.T) {
	exchanger := &fakeExchanger{}
	svc := newService(exchanger, &fakeReconciler{}, newFakeSessions(), &fakeAPITokens{})

	url := svc.LoginRedirect(context.Background(), "unknown-domain")
	if url == "" {
		t.Fatal("expected an authorization URL")
	}
	if exchanger.urls != 1 {
		t.Fatalf("expected 1 URL build, got %d", exchanger.urls)
	}
}
