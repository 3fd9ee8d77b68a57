package orgapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/texamhq/texam/pkg/errx"
	"github.com/texamhq/texam/pkg/iam"
	"github.com/texamhq/texam/pkg/iam/org/orgsrv"
	"github.com/texamhq/texam/pkg/iam/rbac"
	"github.com/texamhq/texam/pkg/kernel"
)

// OrgHandlers exposes organization membership over HTTP.
type OrgHandlers struct {
	service *orgsrv.OrgService
}

// NewOrgHandlers creates a new handler set.
func NewOrgHandlers(service *orgsrv.OrgService) *OrgHandlers {
	return &OrgHandlers{service: service}
}

// RegisterRoutes mounts the organization routes behind authentication plus
// the organization permission guards.
func (h *OrgHandlers) RegisterRoutes(app *fiber.App, authenticate fiber.Handler, perms *rbac.PermissionMiddleware) {
	grp := app.Group("/api/v1/organizations", authenticate)
	grp.Post("/", perms.Require(rbac.PermWriteOrganizations), h.Create)
	grp.Get("/:id", perms.Require(rbac.PermReadOrganizations), h.Get)
	grp.Post("/:id/members", perms.Require(rbac.PermWriteOrganizations), h.AddMember)
	grp.Delete("/:id/members/:userID", perms.Require(rbac.PermWriteOrganizations), h.RemoveMember)
}

type createOrgRequest struct {
	Name string `json:"name"`
}

// Create makes a new organization owned by the caller.
func (h *OrgHandlers) Create(c *fiber.Ctx) error {
	authCtx, ok := c.Locals("auth").(*kernel.AuthContext)
	if !ok || !authCtx.IsValid() {
		return iam.ErrUnauthorized()
	}

	var req createOrgRequest
	if err := c.BodyParser(&req); err != nil {
		return errx.New("invalid request body", errx.TypeValidation).WithCause(err)
	}

	o, err := h.service.Create(c.UserContext(), req.Name, authCtx.UserID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":      true,
		"organization": o,
	})
}

// Get returns an organization with its members.
func (h *OrgHandlers) Get(c *fiber.Ctx) error {
	orgID, err := parseOrgID(c.Params("id"))
	if err != nil {
		return err
	}

	detail, err := h.service.Get(c.UserContext(), orgID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"organization": detail.Organization,
		"members":      detail.Members,
	})
}

type addMemberRequest struct {
	UserID   string `json:"user_id"`
	RoleName string `json:"role_name"`
}

// AddMember attaches a user to an organization.
func (h *OrgHandlers) AddMember(c *fiber.Ctx) error {
	orgID, err := parseOrgID(c.Params("id"))
	if err != nil {
		return err
	}

	var req addMemberRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == "" || req.RoleName == "" {
		return errx.New("user_id and role_name are required", errx.TypeValidation)
	}
	if _, err := uuid.Parse(req.UserID); err != nil {
		return errx.New("invalid user id", errx.TypeValidation)
	}

	if err := h.service.AddMember(c.UserContext(), orgID, kernel.NewUserID(req.UserID), req.RoleName); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Member added successfully",
	})
}

// RemoveMember detaches a user from an organization.
func (h *OrgHandlers) RemoveMember(c *fiber.Ctx) error {
	orgID, err := parseOrgID(c.Params("id"))
	if err != nil {
		return err
	}
	userID := c.Params("userID")
	if _, err := uuid.Parse(userID); err != nil {
		return errx.New("invalid user id", errx.TypeValidation)
	}

	if err := h.service.RemoveMember(c.UserContext(), orgID, kernel.NewUserID(userID)); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Member removed successfully",
	})
}

func parseOrgID(raw string) (kernel.OrgID, error) {
	if _, err := uuid.Parse(raw); err != nil {
		return "", errx.New("invalid organization id", errx.TypeValidation)
	}
	return kernel.NewOrgID(raw), nil
}
