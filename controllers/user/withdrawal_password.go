package user

import (
	"coinvault/database"
	"coinvault/helpers"
	"coinvault/middlewares"
	"coinvault/services"

	"github.com/gofiber/fiber/v2"
)

type setWithdrawalPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

func SetWithdrawalPasswordHandler(c *fiber.Ctx) error {
	current := middlewares.CurrentUser(c)

	var req setWithdrawalPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helpers.ValidateStruct(req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := services.SetWithdrawalPassword(database.DB, current.ID, req.Password); err != nil {
		return helpers.JSONServiceError(c, err)
	}

	return helpers.JSONSuccess(c, "withdrawal password set", nil)
}
