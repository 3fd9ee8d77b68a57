package rbac

import (
	"github.com/gofiber/fiber/v2"

	"github.com/texamhq/texam/pkg/iam"
	"github.com/texamhq/texam/pkg/kernel"
)

// PermissionMiddleware gates routes on a named permission. It runs after
// the authentication middleware in the guard pipeline and short-circuits
// with 403 when the resolved roles do not carry the permission.
type PermissionMiddleware struct {
	authorizer Authorizer
}

// NewPermissionMiddleware creates a new middleware instance.
func NewPermissionMiddleware(authorizer Authorizer) *PermissionMiddleware {
	return &PermissionMiddleware{authorizer: authorizer}
}

// Require returns a handler that allows the request only when the
// authenticated principal holds the permission.
func (pm *PermissionMiddleware) Require(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authCtx, ok := c.Locals("auth").(*kernel.AuthContext)
		if !ok || !authCtx.IsValid() {
			return iam.ErrUnauthorized()
		}

		allowed, err := pm.authorizer.Authorize(c.UserContext(), authCtx.UserID, permission)
		if err != nil {
			return err
		}
		if !allowed {
			return iam.ErrAccessDenied().WithDetail("permission", permission)
		}

		return c.Next()
	}
}
