package rbac_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/texamhq/texam/pkg/errx"
	"github.com/texamhq/texam/pkg/iam/rbac"
	"github.com/texamhq/texam/pkg/kernel"
)

type fakeAuthorizer struct {
	allowed map[string]bool
}

func (f *fakeAuthorizer) Authorize(_ context.Context, _ kernel.UserID, permission string) (bool, error) {
	return f.allowed[permission], nil
}

// guardedApp mounts one route behind the permission guard, with the request
// optionally pre-authenticated.
func guardedApp(authorizer rbac.Authorizer, authCtx *kernel.AuthContext) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var e *errx.Error
			if errx.As(err, &e) {
				return c.Status(e.HTTPStatus).JSON(e)
			}
			return c.Status(fiber.StatusInternalServerError).SendString("internal")
		},
	})
	if authCtx != nil {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("auth", authCtx)
			return c.Next()
		})
	}
	perms := rbac.NewPermissionMiddleware(authorizer)
	app.Get("/users", perms.Require(rbac.PermReadUsers), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestRequire_AllowsHolder(t *testing.T) {
	app := guardedApp(
		&fakeAuthorizer{allowed: map[string]bool{rbac.PermReadUsers: true}},
		&kernel.AuthContext{UserID: kernel.NewUserID("user-1"), Credential: kernel.CredentialAccessToken},
	)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/users", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRequire_DeniesNonHolder(t *testing.T) {
	app := guardedApp(
		&fakeAuthorizer{allowed: map[string]bool{}},
		&kernel.AuthContext{UserID: kernel.NewUserID("user-1"), Credential: kernel.CredentialAccessToken},
	)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/users", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestRequire_RejectsUnauthenticated(t *testing.T) {
	app := guardedApp(&fakeAuthorizer{allowed: map[string]bool{rbac.PermReadUsers: true}}, nil)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/users", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
