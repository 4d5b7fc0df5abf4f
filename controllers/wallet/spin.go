package wallet

import (
	"majestic/helpers"
	"majestic/middlewares"

	"github.com/gofiber/fiber/v2"
)

type SpinRequest struct {
	Identity  string `json:"identity"`
	IsPremium bool   `json:"is_premium"`
}

func SpinHandler(c *fiber.Ctx) error {
	var req SpinRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_JSON", "body must be valid JSON")
	}
	if req.Identity == "" {
		return helpers.JSONError(c, fiber.StatusBadRequest, "IDENTITY_REQUIRED", "identity is required")
	}

	result, err := Svc.SubmitSpin(c.Context(), req.Identity, req.IsPremium, middlewares.DeviceFP(c), middlewares.ClientIP(c))
	if err != nil {
		return fail(c, err)
	}
	return helpers.JSONSuccess(c, "Spin resolved", result)
}
