package wallet

import (
	"majestic/helpers"

	"github.com/gofiber/fiber/v2"
)

func NotificationsHandler(c *fiber.Ctx) error {
	identity := c.Query("identity")
	if identity == "" {
		return helpers.JSONError(c, fiber.StatusBadRequest, "IDENTITY_REQUIRED", "identity is required")
	}

	list, err := Svc.Notifications(c.Context(), identity)
	if err != nil {
		return fail(c, err)
	}
	return helpers.JSONSuccess(c, "Notifications retrieved", list)
}

type MarkReadRequest struct {
	Identity string `json:"identity"`
	ID       uint   `json:"id"`
}

func MarkNotificationReadHandler(c *fiber.Ctx) error {
	var req MarkReadRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_JSON", "body must be valid JSON")
	}
	if req.Identity == "" || req.ID == 0 {
		return helpers.JSONError(c, fiber.StatusBadRequest, "IDENTITY_AND_ID_REQUIRED", "identity and id are required")
	}

	if err := Svc.MarkNotificationRead(c.Context(), req.ID, req.Identity); err != nil {
		return fail(c, err)
	}
	return helpers.JSONSuccess(c, "Notification marked read", nil)
}
