package admin

import (
	"majestic/helpers"

	"github.com/gofiber/fiber/v2"
)

type MigrateRequest struct {
	Identity string `json:"identity"`
}

// MigrateHandler converts one account's promotional cash into vault
// tokens. Running it twice is harmless: the second pass finds no free
// balance left.
func MigrateHandler(c *fiber.Ctx) error {
	var req MigrateRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_JSON", "body must be valid JSON")
	}
	if req.Identity == "" {
		return helpers.JSONError(c, fiber.StatusBadRequest, "IDENTITY_REQUIRED", "identity is required")
	}

	acc, err := Svc.MigrateFreeBalance(c.Context(), req.Identity)
	if err != nil {
		return fail(c, err)
	}
	return helpers.JSONSuccess(c, "Migration complete", fiber.Map{
		"identity": acc.Identity,
		"balance":  acc.Balance,
		"tokens":   acc.TokenBalance,
	})
}
