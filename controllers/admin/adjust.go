package admin

import (
	"majestic/helpers"

	"github.com/gofiber/fiber/v2"
)

type AdjustRequest struct {
	Identity string `json:"identity"`
	Field    string `json:"field"`
	Value    string `json:"value"`
}

func AdjustHandler(c *fiber.Ctx) error {
	var req AdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_JSON", "body must be valid JSON")
	}
	if req.Identity == "" || req.Field == "" {
		return helpers.JSONError(c, fiber.StatusBadRequest, "IDENTITY_AND_FIELD_REQUIRED", "identity and field are required")
	}

	acc, err := Svc.AdminAdjust(c.Context(), req.Identity, req.Field, req.Value)
	if err != nil {
		return fail(c, err)
	}
	return helpers.JSONSuccess(c, "Account adjusted", fiber.Map{
		"identity":      acc.Identity,
		"balance":       acc.Balance,
		"tokens":        acc.TokenBalance,
		"premium_spins": acc.PremiumSpins,
		"fraud_flag":    acc.FraudFlag,
	})
}
