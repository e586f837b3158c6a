package tap

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func RegisterRoutes(r fiber.Router, service *Service) {

	r.Post("/tap", func(c *fiber.Ctx) error {
		uid := c.Locals("uid").(int64)

		balance, taps, err := service.Tap(uid)
		if err != nil {
			return c.Status(503).JSON(fiber.Map{"error": "storage unavailable"})
		}

		return c.JSON(fiber.Map{
			"balance": decimal.New(balance, -2).StringFixed(2),
			"taps":    taps,
		})
	})
}
