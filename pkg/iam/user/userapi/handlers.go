package userapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/texamhq/texam/pkg/errx"
	"github.com/texamhq/texam/pkg/iam/rbac"
	"github.com/texamhq/texam/pkg/iam/user/usersrv"
	"github.com/texamhq/texam/pkg/kernel"
)

// UserHandlers exposes user lookup over HTTP.
type UserHandlers struct {
	service *usersrv.UserService
}

// NewUserHandlers creates a new handler set.
func NewUserHandlers(service *usersrv.UserService) *UserHandlers {
	return &UserHandlers{service: service}
}

// RegisterRoutes mounts the user routes behind authentication and the
// read:users guard.
func (h *UserHandlers) RegisterRoutes(app *fiber.App, authenticate fiber.Handler, perms *rbac.PermissionMiddleware) {
	grp := app.Group("/api/v1/users", authenticate, perms.Require(rbac.PermReadUsers))
	grp.Get("/", h.List)
	grp.Get("/:id", h.Get)
}

// List returns all users.
func (h *UserHandlers) List(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
	})
}

// Get returns one user by id.
func (h *UserHandlers) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return errx.New("invalid user id", errx.TypeValidation)
	}

	u, err := h.service.GetUser(c.UserContext(), kernel.NewUserID(id))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"user":    u,
	})
}
