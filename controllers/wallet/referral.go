package wallet

import (
	"majestic/helpers"

	"github.com/gofiber/fiber/v2"
)

type ReferralRequest struct {
	Identity string `json:"identity"`
	Code     string `json:"code"`
}

func ApplyReferralHandler(c *fiber.Ctx) error {
	var req ReferralRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_JSON", "body must be valid JSON")
	}
	if req.Identity == "" {
		return helpers.JSONError(c, fiber.StatusBadRequest, "IDENTITY_REQUIRED", "identity is required")
	}

	if err := Svc.ApplyReferral(c.Context(), req.Identity, req.Code); err != nil {
		return fail(c, err)
	}
	return helpers.JSONSuccess(c, "Referral linked", nil)
}
