package admin

import (
	"coinvault/database"
	"coinvault/helpers"
	"coinvault/middlewares"
	"coinvault/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func ListUsersHandler(c *fiber.Ctx) error {
	users, err := services.ListUsers(database.DB, c.Query("uid"))
	if err != nil {
		return helpers.JSONServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "users", users)
}

type adjustBalanceRequest struct {
	Currency string          `json:"currency" validate:"required"`
	Delta    decimal.Decimal `json:"delta" validate:"required"`
	Note     string          `json:"note"`
}

func AdjustBalanceHandler(c *fiber.Ctx) error {
	current := middlewares.CurrentUser(c)

	userID, err := c.ParamsInt("id")
	if err != nil || userID < 1 {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid user id")
	}

	var req adjustBalanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helpers.ValidateStruct(req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	amount, err := services.AdjustUserBalance(database.DB, uint(userID), current.ID, req.Currency, req.Delta, req.Note)
	if err != nil {
		return helpers.JSONServiceError(c, err)
	}

	return helpers.JSONSuccess(c, "balance adjusted", fiber.Map{
		"currency": req.Currency,
		"amount":   amount,
	})
}

type setCanWinRequest struct {
	CanWinSeconds bool `json:"can_win_seconds"`
}

func SetCanWinSecondsHandler(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID < 1 {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid user id")
	}

	var req setCanWinRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := services.SetCanWinSeconds(database.DB, uint(userID), req.CanWinSeconds); err != nil {
		return helpers.JSONServiceError(c, err)
	}

	return helpers.JSONSuccess(c, "user updated", fiber.Map{
		"user_id":         userID,
		"can_win_seconds": req.CanWinSeconds,
	})
}
