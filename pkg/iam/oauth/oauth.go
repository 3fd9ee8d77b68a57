package oauth

import (
	"net/http"

	"github.com/texamhq/texam/pkg/errx"
)

// IdentityClaims are the provider claims the identity layer consumes.
// Anything else in the userinfo body is ignored.
type IdentityClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// ============================================================================
// Error Registry
// ============================================================================

// Exchange failures answer 401: a failed code exchange is an authentication
// failure from the caller's point of view, never a server fault. Provider
// detail stays in the wrapped cause and is only logged server-side.
var ErrRegistry = errx.NewRegistry("OAUTH")

var (
	CodeExchangeFailed  = ErrRegistry.Register("EXCHANGE_FAILED", errx.TypeExternal, http.StatusUnauthorized, "Authentication failed")
	CodeMalformedClaims = ErrRegistry.Register("MALFORMED_CLAIMS", errx.TypeExternal, http.StatusUnauthorized, "Authentication failed")
)

func ErrExchangeFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeExchangeFailed, cause)
}

func ErrMalformedClaims(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeMalformedClaims, cause)
}
