package admin

import (
	"coinvault/helpers"
	"coinvault/market"

	"github.com/gofiber/fiber/v2"
)

func MarketPricesHandler(c *fiber.Ctx) error {
	return helpers.JSONSuccess(c, "market prices", market.Snapshot())
}
