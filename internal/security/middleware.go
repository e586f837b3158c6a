package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// PlayerGuard verifies the web-app token: HMAC-SHA256(secret, playerID)
// hex. On success the verified player id lands in c.Locals("uid").
// An empty secret disables verification for local development.
func PlayerGuard(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, err := strconv.ParseInt(c.Get("X-Player-Id"), 10, 64)
		if err != nil || uid <= 0 {
			return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
		}

		if secret != "" {
			token := c.Get("X-Auth-Token")
			if !verifyToken(secret, uid, token) {
				return c.Status(401).JSON(fiber.Map{"error": "unauthorized"})
			}
		}

		c.Locals("uid", uid)
		return c.Next()
	}
}

func verifyToken(secret string, uid int64, token string) bool {
	if token == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(uid, 10)))
	want := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(want), []byte(token))
}
