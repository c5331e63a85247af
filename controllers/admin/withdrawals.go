package admin

import (
	"coinvault/database"
	"coinvault/helpers"
	"coinvault/middlewares"
	"coinvault/services"

	"github.com/gofiber/fiber/v2"
)

func ListPendingWithdrawalsHandler(c *fiber.Ctx) error {
	withdrawals, err := services.ListPendingWithdrawals(database.DB)
	if err != nil {
		return helpers.JSONServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "pending withdrawals", withdrawals)
}

func ApproveWithdrawalHandler(c *fiber.Ctx) error {
	current := middlewares.CurrentUser(c)

	withdrawalID, err := c.ParamsInt("id")
	if err != nil || withdrawalID < 1 {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid withdrawal id")
	}

	approved, err := services.ApproveWithdrawal(database.DB, uint(withdrawalID), current.ID)
	if err != nil {
		return helpers.JSONServiceError(c, err)
	}

	return helpers.JSONSuccess(c, "withdrawal approved", approved)
}

func RejectWithdrawalHandler(c *fiber.Ctx) error {
	current := middlewares.CurrentUser(c)

	withdrawalID, err := c.ParamsInt("id")
	if err != nil || withdrawalID < 1 {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid withdrawal id")
	}

	rejected, err := services.RejectWithdrawal(database.DB, uint(withdrawalID), current.ID)
	if err != nil {
		return helpers.JSONServiceError(c, err)
	}

	return helpers.JSONSuccess(c, "withdrawal rejected", rejected)
}
