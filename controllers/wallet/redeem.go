package wallet

import (
	"majestic/helpers"
	"majestic/middlewares"

	"github.com/gofiber/fiber/v2"
)

type RedeemRequest struct {
	Identity string `json:"identity"`
	Code     string `json:"code"`
}

func RedeemHandler(c *fiber.Ctx) error {
	var req RedeemRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_JSON", "body must be valid JSON")
	}
	if req.Identity == "" {
		return helpers.JSONError(c, fiber.StatusBadRequest, "IDENTITY_REQUIRED", "identity is required")
	}

	result, err := Svc.RedeemCode(c.Context(), req.Identity, req.Code, middlewares.DeviceFP(c), middlewares.ClientIP(c))
	if err != nil {
		return fail(c, err)
	}
	return helpers.JSONSuccess(c, "Code redeemed", result)
}
