package wallet

import (
	"majestic/helpers"
	"majestic/middlewares"

	"github.com/gofiber/fiber/v2"
)

type DailyRequest struct {
	Identity string `json:"identity"`
}

func DailyClaimHandler(c *fiber.Ctx) error {
	var req DailyRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_JSON", "body must be valid JSON")
	}
	if req.Identity == "" {
		return helpers.JSONError(c, fiber.StatusBadRequest, "IDENTITY_REQUIRED", "identity is required")
	}

	result, err := Svc.ClaimDaily(c.Context(), req.Identity, middlewares.DeviceFP(c), middlewares.ClientIP(c))
	if err != nil {
		return fail(c, err)
	}
	return helpers.JSONSuccess(c, "Daily reward claimed", result)
}
