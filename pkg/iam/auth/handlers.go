package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/texamhq/texam/pkg/iam"
	"github.com/texamhq/texam/pkg/iam/user"
	"github.com/texamhq/texam/pkg/kernel"
)

// UserGetter is the slice of the user service the auth surface needs.
type UserGetter interface {
	GetUser(ctx context.Context, id kernel.UserID) (*user.User, error)
}

// AuthHandlers exposes the login flow over HTTP.
type AuthHandlers struct {
	service *AuthService
	users   UserGetter
}

// NewAuthHandlers creates a new handler set.
func NewAuthHandlers(service *AuthService, users UserGetter) *AuthHandlers {
	return &AuthHandlers{service: service, users: users}
}

// RegisterRoutes mounts the auth routes. Login, callback, refresh and
// logout are public; /auth/me sits behind the authentication guard.
func (h *AuthHandlers) RegisterRoutes(app *fiber.App, authenticate fiber.Handler) {
	grp := app.Group("/auth")
	grp.Get("/login", h.Login)
	grp.Get("/callback", h.Callback)
	grp.Post("/refresh", h.Refresh)
	grp.Post("/logout", h.Logout)
	grp.Get("/me", authenticate, h.Me)
}

// Login redirects to the tenant provider's authorization URL. A missing
// domain is not an error: it resolves to the default tenant.
func (h *AuthHandlers) Login(c *fiber.Ctx) error {
	url := h.service.LoginRedirect(c.UserContext(), c.Query("domain"))
	return c.Redirect(url, fiber.StatusFound)
}

// Callback completes the OAuth flow and returns the credential pair.
func (h *AuthHandlers) Callback(c *fiber.Ctx) error {
	result, err := h.service.Callback(c.UserContext(), c.Query("domain"), c.Query("code"))
	if err != nil {
		return err
	}
	return c.JSON(result)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh exchanges a refresh token for a new access token.
func (h *AuthHandlers) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return ErrMissingRefreshToken()
	}

	accessToken, expiresIn, err := h.service.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"access_token": accessToken,
		"expires_in":   expiresIn,
	})
}

// Logout invalidates the refresh session.
func (h *AuthHandlers) Logout(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return ErrMissingRefreshToken()
	}

	if err := h.service.Logout(c.UserContext(), req.RefreshToken); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Logged out successfully",
	})
}

// Me returns the authenticated principal's user record.
func (h *AuthHandlers) Me(c *fiber.Ctx) error {
	authCtx, ok := c.Locals("auth").(*kernel.AuthContext)
	if !ok || !authCtx.IsValid() {
		return iam.ErrUnauthorized()
	}

	u, err := h.users.GetUser(c.UserContext(), authCtx.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": u})
}
