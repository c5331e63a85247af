package withdraw

import (
	"coinvault/database"
	"coinvault/helpers"
	"coinvault/middlewares"
	"coinvault/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type withdrawalRequest struct {
	Amount   decimal.Decimal `json:"amount" validate:"required"`
	Address  string          `json:"address" validate:"required"`
	Password string          `json:"password" validate:"required"`
}

func RequestHandler(c *fiber.Ctx) error {
	current := middlewares.CurrentUser(c)

	var req withdrawalRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helpers.ValidateStruct(req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	created, err := services.RequestWithdrawal(database.DB, current.ID, req.Amount, req.Address, req.Password)
	if err != nil {
		return helpers.JSONServiceError(c, err)
	}

	return helpers.JSONCreated(c, "withdrawal requested, awaiting review", created)
}
