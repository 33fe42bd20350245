package geocode

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, client *Client) {
	r.Get("/", func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return fiber.NewError(fiber.StatusBadRequest, "q required")
		}
		candidates, err := client.Search(c.Context(), query)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		return c.JSON(fiber.Map{"candidates": candidates})
	})

	r.Get("/resolve", func(c *fiber.Ctx) error {
		placeID := c.Query("placeId")
		if placeID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "placeId required")
		}
		return c.JSON(fiber.Map{"location": client.Resolve(c.Context(), placeID)})
	})
}
