package trade

import (
	"coinvault/database"
	"coinvault/helpers"
	"coinvault/middlewares"
	"coinvault/services"

	"github.com/gofiber/fiber/v2"
)

func CancelHandler(c *fiber.Ctx) error {
	current := middlewares.CurrentUser(c)

	tradeID, err := c.ParamsInt("id")
	if err != nil || tradeID < 1 {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid trade id")
	}

	cancelled, err := services.CancelTrade(database.DB, uint(tradeID), current.ID)
	if err != nil {
		return helpers.JSONServiceError(c, err)
	}

	return helpers.JSONSuccess(c, "trade cancelled", cancelled)
}
