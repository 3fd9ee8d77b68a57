package oauth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/texamhq/texam/pkg/errx"
	"github.com/texamhq/texam/pkg/iam/oauth"
	"github.com/texamhq/texam/pkg/iam/tenant"
)

// fakeProvider is an httptest OAuth provider with a token and a userinfo
// endpoint.
func fakeProvider(t *testing.T, userinfoStatus int, userinfoBody string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"provider-token","token_type":"bearer"}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(userinfoStatus)
		w.Write([]byte(userinfoBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func providerTenant(srv *httptest.Server) *tenant.Tenant {
	return &tenant.Tenant{
		Domain:       "acme.edu",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		AuthURL:      srv.URL + "/authorize",
		TokenURL:     srv.URL + "/token",
		UserinfoURL:  srv.URL + "/userinfo",
	}
}

func TestExchange_ReturnsClaims(t *testing.T) {
	srv := fakeProvider(t, http.StatusOK,
		`{"email":"alice@acme.edu","name":"Alice","picture":"https://cdn.example.com/alice.png"}`)
	client := oauth.NewExchangeClient("http://localhost:8080", time.Second)

	claims, err := client.Exchange(context.Background(), providerTenant(srv), "auth-code")
	if err != nil {
		t.Fatal(err)
	}
	if claims.Email != "alice@acme.edu" {
		t.Fatalf("unexpected email: %s", claims.Email)
	}
	if claims.Name != "Alice" {
		t.Fatalf("unexpected name: %s", claims.Name)
	}
}

func TestExchange_MissingEmailRejected(t *testing.T) {
	srv := fakeProvider(t, http.StatusOK, `{"name":"Alice"}`)
	client := oauth.NewExchangeClient("http://localhost:8080", time.Second)

	_, err := client.Exchange(context.Background(), providerTenant(srv), "auth-code")
	if err == nil {
		t.Fatal("claims without an email must be rejected")
	}
	if !errx.IsType(err, errx.TypeExternal) {
		t.Fatalf("expected external error, got %v", err)
	}
}

func TestExchange_UserinfoFailure(t *testing.T) {
	srv := fakeProvider(t, http.StatusInternalServerError, `boom`)
	client := oauth.NewExchangeClient("http://localhost:8080", time.Second)

	_, err := client.Exchange(context.Background(), providerTenant(srv), "auth-code")
	if err == nil {
		t.Fatal("a failing userinfo endpoint must fail the exchange")
	}
	var e *errx.Error
	if !errx.As(err, &e) {
		t.Fatalf("expected *errx.Error, got %T", err)
	}
	if e.HTTPStatus != http.StatusUnauthorized {
		t.Fatalf("provider failures must answer 401, got %d", e.HTTPStatus)
	}
}

func TestExchange_ProviderDown(t *testing.T) {
	client := oauth.NewExchangeClient("http://localhost:8080", 200*time.Millisecond)
	dead := &tenant.Tenant{
		Domain:      "acme.edu",
		TokenURL:    "http://127.0.0.1:1/token",
		UserinfoURL: "http://127.0.0.1:1/userinfo",
	}

	_, err := client.Exchange(context.Background(), dead, "auth-code")
	if err == nil {
		t.Fatal("an unreachable provider must fail the exchange")
	}
}

func TestAuthorizationURL(t *testing.T) {
	client := oauth.NewExchangeClient("https://api.texam.example.com", time.Second)
	tn := &tenant.Tenant{
		Domain:   "acme.edu",
		ClientID: "client-id",
		AuthURL:  "https://provider.example.com/authorize",
	}

	u := client.AuthorizationURL(tn)
	if !strings.HasPrefix(u, "https://provider.example.com/authorize?") {
		t.Fatalf("unexpected authorization URL: %s", u)
	}
	for _, want := range []string{"client_id=client-id", "state=", "redirect_uri="} {
		if !strings.Contains(u, want) {
			t.Fatalf("authorization URL missing %q: %s", want, u)
		}
	}
	// The callback must carry the domain so the same tenant resolves again.
	if !strings.Contains(u, "domain%3Dacme.edu") {
		t.Fatalf("redirect URI must echo the tenant domain: %s", u)
	}
}

func TestAuthorizationURL_FreshStatePerCall(t *testing.T) {
	client := oauth.NewExchangeClient("https://api.texam.example.com", time.Second)
	tn := &tenant.Tenant{Domain: "acme.edu", AuthURL: "https://provider.example.com/authorize"}

	if client.AuthorizationURL(tn) == client.AuthorizationURL(tn) {
		t.Fatal("each login redirect must carry a fresh state value")
	}
}
