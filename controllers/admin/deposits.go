package admin

import (
	"coinvault/database"
	"coinvault/helpers"
	"coinvault/middlewares"
	"coinvault/services"

	"github.com/gofiber/fiber/v2"
)

func ListDepositsHandler(c *fiber.Ctx) error {
	deposits, err := services.ListDeposits(database.DB, c.Query("status"))
	if err != nil {
		return helpers.JSONServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "deposits", deposits)
}

type updateDepositRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

func UpdateDepositStatusHandler(c *fiber.Ctx) error {
	current := middlewares.CurrentUser(c)

	depositID, err := c.ParamsInt("id")
	if err != nil || depositID < 1 {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid deposit id")
	}

	var req updateDepositRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helpers.ValidateStruct(req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	updated, err := services.UpdateDepositStatus(database.DB, uint(depositID), current.ID, req.Status)
	if err != nil {
		return helpers.JSONServiceError(c, err)
	}

	return helpers.JSONSuccess(c, "deposit "+req.Status, updated)
}
