package user

import (
	"coinvault/database"
	"coinvault/helpers"
	"coinvault/middlewares"
	"coinvault/services"

	"github.com/gofiber/fiber/v2"
)

func GetBalancesHandler(c *fiber.Ctx) error {
	current := middlewares.CurrentUser(c)

	user, err := services.GetUserWithBalances(database.DB, current.ID)
	if err != nil {
		return helpers.JSONServiceError(c, err)
	}

	return helpers.JSONSuccess(c, "balances", fiber.Map{
		"uid":      user.UID,
		"balances": user.Balances,
	})
}
