package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/texamhq/texam/pkg/iam"
	"github.com/texamhq/texam/pkg/kernel"
)

// TokenMiddleware authenticates requests from the Authorization header,
// accepting either credential kind. It is the first guard in the request
// pipeline; authorization guards run after it.
type TokenMiddleware struct {
	service *AuthService
}

// NewTokenMiddleware creates a new middleware instance.
func NewTokenMiddleware(service *AuthService) *TokenMiddleware {
	return &TokenMiddleware{service: service}
}

// Authenticate validates the bearer credential and attaches the typed
// principal to both the fiber locals and the request context.
func (tm *TokenMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		bearer := extractBearer(c.Get(fiber.HeaderAuthorization))
		if bearer == "" {
			return iam.ErrUnauthorized()
		}

		authCtx, err := tm.service.Authenticate(c.UserContext(), bearer)
		if err != nil {
			return err
		}

		c.Locals("auth", authCtx)
		c.SetUserContext(kernel.WithAuthContext(c.UserContext(), authCtx))

		return c.Next()
	}
}

func extractBearer(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
