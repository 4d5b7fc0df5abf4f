package admin

import (
	"majestic/helpers"
	"majestic/services"

	"github.com/gofiber/fiber/v2"
)

func BanHandler(c *fiber.Ctx) error {
	var req services.BanTarget
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_JSON", "body must be valid JSON")
	}

	if err := Svc.AdminBan(c.Context(), req); err != nil {
		return fail(c, err)
	}
	return helpers.JSONSuccess(c, "Ban recorded", nil)
}

func UnbanHandler(c *fiber.Ctx) error {
	var req services.BanTarget
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "INVALID_JSON", "body must be valid JSON")
	}

	if err := Svc.AdminUnban(c.Context(), req); err != nil {
		return fail(c, err)
	}
	return helpers.JSONSuccess(c, "Ban lifted", nil)
}
