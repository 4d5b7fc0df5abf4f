package admin

import (
	"errors"

	"majestic/helpers"
	"majestic/services"

	"github.com/gofiber/fiber/v2"
)

var Svc *services.Wallet

// Init wires the service layer in; called once from main.
func Init(svc *services.Wallet) {
	Svc = svc
}

func fail(c *fiber.Ctx, err error) error {
	var se *services.Error
	if !errors.As(err, &se) {
		return helpers.JSONError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "unexpected error")
	}

	status := fiber.StatusInternalServerError
	switch se.Kind {
	case services.KindValidation:
		status = fiber.StatusBadRequest
	case services.KindPrecondition:
		status = fiber.StatusUnprocessableEntity
	case services.KindConflict:
		status = fiber.StatusConflict
	case services.KindNotFound:
		status = fiber.StatusNotFound
	case services.KindStorage:
		status = fiber.StatusServiceUnavailable
	}
	return helpers.JSONError(c, status, se.Code, se.Message)
}
