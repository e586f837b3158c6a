package crash

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"tapify/internal/wallet"
)

func RegisterRoutes(r fiber.Router, engine *Engine, history *History) {

	r.Post("/round/start", func(c *fiber.Ctx) error {
		type Req struct {
			Bet float64 `json:"bet"`
		}

		var body Req
		if err := c.BodyParser(&body); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "bad request"})
		}

		uid := c.Locals("uid").(int64)
		betCents := decimal.NewFromFloat(body.Bet).Shift(2).Truncate(0).IntPart()

		round, err := engine.StartRound(uid, betCents)
		if err != nil {
			return gameError(c, err)
		}

		return c.JSON(fiber.Map{
			"round_id":   round.ID,
			"started_at": round.StartTime.UTC(),
		})
	})

	r.Get("/round/status", func(c *fiber.Ctx) error {
		uid := c.Locals("uid").(int64)

		view, err := engine.QueryStatus(c.Query("round_id"), uid)
		if err != nil {
			return gameError(c, err)
		}

		resp := fiber.Map{
			"status":     view.Status,
			"multiplier": view.Multiplier,
		}
		if view.Status != StatusRunning {
			resp["crash_point"] = view.CrashPoint
			resp["payout"] = money(view.PayoutCents)
			resp["seed"] = view.Seed
		}
		return c.JSON(resp)
	})

	r.Post("/round/cashout", func(c *fiber.Ctx) error {
		type Req struct {
			RoundID string `json:"round_id"`
		}

		var body Req
		if err := c.BodyParser(&body); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "bad request"})
		}

		uid := c.Locals("uid").(int64)

		res, err := engine.CashOut(body.RoundID, uid)
		if err != nil {
			return gameError(c, err)
		}

		if res.Status == StatusCashed {
			return c.JSON(fiber.Map{
				"status":     StatusCashed,
				"multiplier": res.Multiplier,
				"payout":     money(res.PayoutCents),
				"balance":    money(res.BalanceCents),
				"seed":       res.Seed,
			})
		}
		return c.JSON(fiber.Map{
			"status":      StatusCrashed,
			"crash_point": res.CrashPoint,
			"balance":     money(res.BalanceCents),
			"seed":        res.Seed,
		})
	})

	r.Get("/crash/history", func(c *fiber.Ctx) error {
		points, err := history.Recent(historyLen)
		if err != nil {
			return c.Status(503).JSON(fiber.Map{"error": "storage unavailable"})
		}
		return c.JSON(fiber.Map{"history": points})
	})

	r.Get("/crash/leaderboard", func(c *fiber.Ctx) error {
		n := int64(c.QueryInt("n", 10))
		entries, err := history.Top(n)
		if err != nil {
			return c.Status(503).JSON(fiber.Map{"error": "storage unavailable"})
		}
		return c.JSON(fiber.Map{"leaderboard": entries})
	})
}

func gameError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrInvalidBet):
		return c.Status(400).JSON(fiber.Map{"error": "bet outside allowed bounds"})
	case errors.Is(err, wallet.ErrInsufficientBalance):
		return c.Status(400).JSON(fiber.Map{"error": "insufficient balance"})
	case errors.Is(err, ErrRoundNotFound):
		return c.Status(404).JSON(fiber.Map{"error": "not found"})
	case errors.Is(err, ErrForbidden):
		return c.Status(403).JSON(fiber.Map{"error": "forbidden"})
	}
	return c.Status(503).JSON(fiber.Map{"error": "storage unavailable"})
}

func money(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
