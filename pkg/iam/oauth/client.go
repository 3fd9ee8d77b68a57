package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/texamhq/texam/pkg/iam/tenant"
)

// ExchangeClient performs the authorization-code flow against a tenant's
// provider. It keeps no state between the redirect and the callback; the
// provider is trusted to echo the domain back so the callback can re-resolve
// the same tenant.
type ExchangeClient struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures an ExchangeClient.
type Option func(*ExchangeClient)

// WithHTTPClient sets a custom HTTP client for provider calls.
func WithHTTPClient(c *http.Client) Option {
	return func(e *ExchangeClient) {
		e.httpClient = c
	}
}

// NewExchangeClient creates a client whose callback URLs are rooted at
// baseURL. Provider calls are bounded by timeout.
func NewExchangeClient(baseURL string, timeout time.Duration, opts ...Option) *ExchangeClient {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	e := &ExchangeClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		timeout:    timeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *ExchangeClient) oauthConfig(t *tenant.Tenant) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     t.ClientID,
		ClientSecret: t.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  t.AuthURL,
			TokenURL: t.TokenURL,
		},
		RedirectURL: fmt.Sprintf("%s/auth/callback?domain=%s", e.baseURL, url.QueryEscape(t.Domain)),
		Scopes:      []string{"openid", "profile", "email"},
	}
}

// AuthorizationURL builds the provider redirect URL for a login against the
// given tenant. The state parameter is freshly generated but not checked on
// callback; nothing is kept across the two requests.
func (e *ExchangeClient) AuthorizationURL(t *tenant.Tenant) string {
	return e.oauthConfig(t).AuthCodeURL(uuid.NewString())
}

// Exchange trades an authorization code for the tenant user's identity
// claims. The code exchange and the userinfo fetch share one deadline; a
// timeout is indistinguishable from any other provider failure.
func (e *ExchangeClient) Exchange(ctx context.Context, t *tenant.Tenant, code string) (*IdentityClaims, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, e.httpClient)

	conf := e.oauthConfig(t)

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, ErrExchangeFailed(err).WithDetail("domain", t.Domain)
	}

	resp, err := conf.Client(ctx, token).Get(t.UserinfoURL)
	if err != nil {
		return nil, ErrExchangeFailed(err).WithDetail("domain", t.Domain)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, ErrExchangeFailed(fmt.Errorf("userinfo returned %d: %s", resp.StatusCode, body)).
			WithDetail("domain", t.Domain)
	}

	var claims IdentityClaims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, ErrMalformedClaims(err)
	}
	if claims.Email == "" {
		return nil, ErrMalformedClaims(fmt.Errorf("userinfo response missing email"))
	}

	return &claims, nil
}
