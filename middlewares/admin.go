package middlewares

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"os"

	"github.com/gofiber/fiber/v2"
)

// AdminAuth protects the admin surface with an HMAC signature header:
// hex(hmac-sha256(ADMIN_API_SECRET, ADMIN_API_KEY+ADMIN_API_SECRET)).
func AdminAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		signature := c.Get("X-Admin-Signature")
		if signature == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"code":    "SIGNATURE_REQUIRED",
				"message": "missing admin signature",
			})
		}

		adminKey := os.Getenv("ADMIN_API_KEY")
		adminSecret := os.Getenv("ADMIN_API_SECRET")

		h := hmac.New(sha256.New, []byte(adminSecret))
		h.Write([]byte(adminKey + adminSecret))
		expected := hex.EncodeToString(h.Sum(nil))

		if subtle.ConstantTimeCompare([]byte(signature), []byte(expected)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"code":    "INVALID_SIGNATURE",
				"message": "invalid admin signature",
			})
		}

		return c.Next()
	}
}
