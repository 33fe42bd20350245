package hospital

import (
	"strconv"

	"backend-howmanybeds/internal/user"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware, profileMiddleware fiber.Handler) {
	r.Get("/", func(c *fiber.Ctx) error {
		hospitals, err := svc.List(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(Rank(hospitals, refFromQuery(c)))
	})

	r.Post("/", authMiddleware, profileMiddleware, func(c *fiber.Ctx) error {
		if !user.CanCreateHospital(user.ProfileFromCtx(c)) {
			return fiber.NewError(fiber.StatusForbidden, "not authorized to create hospitals")
		}
		var req Hospital
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if errs := ValidateHospital(req); len(errs) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
		}
		id, err := svc.Create(c.Context(), req)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		h, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if h == nil {
			return fiber.NewError(fiber.StatusNotFound, "hospital not found")
		}
		return c.JSON(h)
	})

	r.Put("/:id", authMiddleware, profileMiddleware, func(c *fiber.Ctx) error {
		id := c.Params("id")
		if !user.CanEditHospital(user.ProfileFromCtx(c), id) {
			return fiber.NewError(fiber.StatusForbidden, "not authorized to edit this hospital")
		}
		var req Hospital
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if errs := ValidateHospital(req); len(errs) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
		}
		if err := svc.Set(c.Context(), id, req); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(HospitalForUI{Hospital: req, ID: id})
	})

	r.Delete("/:id", authMiddleware, profileMiddleware, func(c *fiber.Ctx) error {
		id := c.Params("id")
		if !user.CanDeleteHospital(user.ProfileFromCtx(c), id) {
			return fiber.NewError(fiber.StatusForbidden, "not authorized to delete this hospital")
		}
		if err := svc.Remove(c.Context(), id); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// refFromQuery builds the reference location from lat/lng query params.
// Both must be present and parse; otherwise there is no reference and the
// list stays in store order.
func refFromQuery(c *fiber.Ctx) *Location {
	latRaw, lngRaw := c.Query("lat"), c.Query("lng")
	if latRaw == "" || lngRaw == "" {
		return nil
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return nil
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return nil
	}
	return &Location{Lat: lat, Lng: lng}
}
