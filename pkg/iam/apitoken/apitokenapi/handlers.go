package apitokenapi

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/texamhq/texam/pkg/errx"
	"github.com/texamhq/texam/pkg/iam"
	"github.com/texamhq/texam/pkg/iam/apitoken/apitokensrv"
	"github.com/texamhq/texam/pkg/kernel"
)

// APITokenHandlers exposes the API token lifecycle over HTTP. All routes
// are bearer-authenticated; the raw token value appears only in the
// creation response.
type APITokenHandlers struct {
	service *apitokensrv.APITokenService
}

// NewAPITokenHandlers creates a new handler set.
func NewAPITokenHandlers(service *apitokensrv.APITokenService) *APITokenHandlers {
	return &APITokenHandlers{service: service}
}

// RegisterRoutes mounts the token routes behind the authentication guard.
func (h *APITokenHandlers) RegisterRoutes(app *fiber.App, authenticate fiber.Handler) {
	tokens := app.Group("/api/v1/tokens", authenticate)
	tokens.Post("/", h.Create)
	tokens.Get("/list", h.List)
	tokens.Post("/:id/revoke", h.Revoke)
}

type createTokenRequest struct {
	Days int `json:"days"`
}

// Create issues a new API token.
func (h *APITokenHandlers) Create(c *fiber.Ctx) error {
	authCtx, ok := c.Locals("auth").(*kernel.AuthContext)
	if !ok || !authCtx.IsValid() {
		return iam.ErrUnauthorized()
	}

	var req createTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.New("invalid request body", errx.TypeValidation).WithCause(err)
	}

	result, err := h.service.Issue(c.UserContext(), authCtx.UserID, req.Days)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"token":      result.Raw,
		"expires_in": int(time.Until(result.Token.ExpiresAt).Seconds()),
	})
}

// List returns the caller's active tokens. Hashes are never included.
func (h *APITokenHandlers) List(c *fiber.Ctx) error {
	authCtx, ok := c.Locals("auth").(*kernel.AuthContext)
	if !ok || !authCtx.IsValid() {
		return iam.ErrUnauthorized()
	}

	tokens, err := h.service.List(c.UserContext(), authCtx.UserID)
	if err != nil {
		return err
	}

	out := make([]fiber.Map, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, fiber.Map{
			"id":         t.ID,
			"expires_at": t.ExpiresAt,
			"created_at": t.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"tokens":  out,
	})
}

// Revoke marks one of the caller's tokens revoked.
func (h *APITokenHandlers) Revoke(c *fiber.Ctx) error {
	authCtx, ok := c.Locals("auth").(*kernel.AuthContext)
	if !ok || !authCtx.IsValid() {
		return iam.ErrUnauthorized()
	}

	if err := h.service.Revoke(c.UserContext(), c.Params("id"), authCtx.UserID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "API token revoked",
	})
}
