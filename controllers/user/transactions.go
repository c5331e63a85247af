package user

import (
	"coinvault/database"
	"coinvault/helpers"
	"coinvault/middlewares"
	"coinvault/services"

	"github.com/gofiber/fiber/v2"
)

func ListTransactionsHandler(c *fiber.Ctx) error {
	current := middlewares.CurrentUser(c)

	transactions, err := services.ListTransactions(database.DB, current.ID)
	if err != nil {
		return helpers.JSONServiceError(c, err)
	}

	return helpers.JSONSuccess(c, "transactions", transactions)
}
