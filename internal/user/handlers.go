package user

import (
	"github.com/gofiber/fiber/v2"
)

// ProfileMiddleware resolves the signed-in user's profile record into
// locals so the policy predicates can run against it. A missing profile
// leaves locals empty, which authorizes nothing.
func ProfileMiddleware(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if uid, _ := c.Locals("user_id").(string); uid != "" {
			p, err := svc.Get(c.Context(), uid)
			if err == nil && p != nil {
				c.Locals("profile", p)
			}
		}
		return c.Next()
	}
}

// ProfileFromCtx returns the resolved profile, or nil.
func ProfileFromCtx(c *fiber.Ctx) *Profile {
	p, _ := c.Locals("profile").(*Profile)
	return p
}

type patchRequest struct {
	IsAdmin  *bool   `json:"isAdmin"`
	EditorOf *string `json:"editorOf"`
}

// RegisterRoutes mounts the admin user console: list every profile, flip
// isAdmin, point editorOf at a hospital. Everything here is admin-gated.
func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	requireAdmin := func(c *fiber.Ctx) error {
		if !IsAdmin(ProfileFromCtx(c)) {
			return fiber.NewError(fiber.StatusForbidden, "admin only")
		}
		return c.Next()
	}

	r.Get("/", authMiddleware, ProfileMiddleware(svc), requireAdmin, func(c *fiber.Ctx) error {
		profiles, err := svc.List(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(profiles)
	})

	r.Patch("/:id", authMiddleware, ProfileMiddleware(svc), requireAdmin, func(c *fiber.Ctx) error {
		var req patchRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		uid := c.Params("id")

		if req.IsAdmin != nil {
			// Admins cannot change their own admin flag.
			if uid == ProfileFromCtx(c).ID {
				return fiber.NewError(fiber.StatusBadRequest, "cannot change own admin flag")
			}
			if err := svc.SetIsAdmin(c.Context(), uid, *req.IsAdmin); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
		}
		if req.EditorOf != nil {
			if err := svc.SetEditorOf(c.Context(), uid, *req.EditorOf); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
