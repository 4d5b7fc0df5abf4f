package helpers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

func JSONSuccess(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func JSONError(c *fiber.Ctx, status int, code string, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"code":    code,
		"message": message,
		"data":    nil,
	})
}

// MaskIdentity shortens an identity for public surfaces like the
// leaderboard: first three characters plus stars.
func MaskIdentity(identity string) string {
	if i := strings.IndexByte(identity, '@'); i >= 0 {
		identity = identity[:i]
	}
	if len(identity) > 3 {
		identity = identity[:3]
	}
	return identity + "***"
}
