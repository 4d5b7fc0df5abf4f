package admin

import (
	"majestic/helpers"
	"majestic/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type OrderCompletedRequest struct {
	OrderID  string          `json:"order_id"`
	Identity string          `json:"identity"`
	Total    decimal.Decimal `json:"total"`
	IsTopup  bool            `json:"is_topup"`
}

// OrderCompletedHandler is the shop's completed-order webhook. Safe to
// retry: the order id is the idempotency key.
func OrderCompletedHandler(c *fiber.Ctx) error {
	var req OrderCompletedRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_JSON", "body must be valid JSON")
	}

	err := Svc.ProcessOrderCompleted(c.Context(), services.OrderEvent{
		OrderID:  req.OrderID,
		Identity: req.Identity,
		Total:    req.Total,
		IsTopup:  req.IsTopup,
	})
	if err != nil {
		return fail(c, err)
	}
	return helpers.JSONSuccess(c, "Order processed", nil)
}

type ChargeOrderRequest struct {
	OrderID  string          `json:"order_id"`
	Identity string          `json:"identity"`
	Amount   decimal.Decimal `json:"amount"`
}

func ChargeOrderHandler(c *fiber.Ctx) error {
	var req ChargeOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_JSON", "body must be valid JSON")
	}
	if req.Identity == "" {
		return helpers.JSONError(c, fiber.StatusBadRequest, "IDENTITY_REQUIRED", "identity is required")
	}

	result, err := Svc.ChargeOrder(c.Context(), req.Identity, req.OrderID, req.Amount)
	if err != nil {
		return fail(c, err)
	}
	return helpers.JSONSuccess(c, "Order charged", result)
}
