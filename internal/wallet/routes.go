package wallet

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func RegisterRoutes(app fiber.Router, service *Service) {

	app.Get("/wallet/balance", func(c *fiber.Ctx) error {
		uid := c.Locals("uid").(int64)

		cents, err := service.Balance(uid)
		if err != nil {
			return c.Status(503).JSON(fiber.Map{"error": "storage unavailable"})
		}

		return c.JSON(fiber.Map{
			"balance": decimal.New(cents, -2).StringFixed(2),
		})
	})
}
