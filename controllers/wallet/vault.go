package wallet

import (
	"majestic/helpers"
	"majestic/middlewares"

	"github.com/gofiber/fiber/v2"
)

type VaultRedeemRequest struct {
	Identity string `json:"identity"`
	ItemID   uint   `json:"item_id"`
}

func VaultRedeemHandler(c *fiber.Ctx) error {
	var req VaultRedeemRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_JSON", "body must be valid JSON")
	}
	if req.Identity == "" || req.ItemID == 0 {
		return helpers.JSONError(c, fiber.StatusBadRequest, "IDENTITY_AND_ITEM_REQUIRED", "identity and item_id are required")
	}

	result, err := Svc.RedeemVault(c.Context(), req.Identity, req.ItemID, middlewares.DeviceFP(c), middlewares.ClientIP(c))
	if err != nil {
		return fail(c, err)
	}
	return helpers.JSONSuccess(c, "Vault item redeemed", result)
}
