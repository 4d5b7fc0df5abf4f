package admin

import (
	"majestic/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type GenerateCodesRequest struct {
	Prefix     string          `json:"prefix"`
	RewardType string          `json:"reward_type"`
	Amount     decimal.Decimal `json:"amount"`
	Count      int             `json:"count"`
}

func GenerateCodesHandler(c *fiber.Ctx) error {
	var req GenerateCodesRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_JSON", "body must be valid JSON")
	}

	codes, err := Svc.GenerateCodes(c.Context(), req.Prefix, req.RewardType, req.Amount, req.Count)
	if err != nil {
		return fail(c, err)
	}
	return helpers.JSONSuccess(c, "Codes generated", fiber.Map{
		"count": len(codes),
		"codes": codes,
	})
}

func ListCodesHandler(c *fiber.Ctx) error {
	codes, err := Svc.ListCodes(c.Context(), c.Query("status"), c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return fail(c, err)
	}
	return helpers.JSONSuccess(c, "Codes retrieved", codes)
}
