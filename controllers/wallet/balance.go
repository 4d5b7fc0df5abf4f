package wallet

import (
	"majestic/helpers"

	"github.com/gofiber/fiber/v2"
)

func BalanceHandler(c *fiber.Ctx) error {
	identity := c.Query("identity")
	if identity == "" {
		return helpers.JSONError(c, fiber.StatusBadRequest, "IDENTITY_REQUIRED", "identity is required")
	}

	result, err := Svc.GetBalance(c.Context(), identity)
	if err != nil {
		return fail(c, err)
	}
	return helpers.JSONSuccess(c, "Balance retrieved", result)
}

func HistoryHandler(c *fiber.Ctx) error {
	identity := c.Query("identity")
	if identity == "" {
		return helpers.JSONError(c, fiber.StatusBadRequest, "IDENTITY_REQUIRED", "identity is required")
	}

	entries, err := Svc.GetHistory(c.Context(), identity, c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return fail(c, err)
	}
	return helpers.JSONSuccess(c, "History retrieved", entries)
}

func DashboardHandler(c *fiber.Ctx) error {
	identity := c.Query("identity")
	if identity == "" {
		return helpers.JSONError(c, fiber.StatusBadRequest, "IDENTITY_REQUIRED", "identity is required")
	}

	result, err := Svc.Dashboard(c.Context(), identity)
	if err != nil {
		return fail(c, err)
	}
	return helpers.JSONSuccess(c, "Dashboard retrieved", result)
}

func LeaderboardHandler(c *fiber.Ctx) error {
	rows, err := Svc.Leaderboard(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return helpers.JSONSuccess(c, "Leaderboard retrieved", rows)
}
