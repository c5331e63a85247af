package trade

import (
	"math"

	"coinvault/database"
	"coinvault/helpers"
	"coinvault/middlewares"
	"coinvault/services"

	"github.com/gofiber/fiber/v2"
)

func ListHandler(c *fiber.Ctx) error {
	current := middlewares.CurrentUser(c)

	filter := services.TradeFilter{
		UserID:    &current.ID,
		Status:    c.Query("status"),
		TradeType: c.Query("trade_type"),
		TradeMode: c.Query("trade_mode"),
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 10),
	}

	trades, total, err := services.ListTrades(database.DB, filter)
	if err != nil {
		return helpers.JSONServiceError(c, err)
	}

	return helpers.JSONSuccess(c, "trades", fiber.Map{
		"trades": trades,
		"page":   filter.Page,
		"pages":  int(math.Ceil(float64(total) / float64(filter.Limit))),
		"total":  total,
	})
}

func GetHandler(c *fiber.Ctx) error {
	current := middlewares.CurrentUser(c)

	tradeID, err := c.ParamsInt("id")
	if err != nil || tradeID < 1 {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid trade id")
	}

	found, err := services.GetTrade(database.DB, uint(tradeID))
	if err != nil {
		return helpers.JSONServiceError(c, err)
	}
	if found.UserID != current.ID && !current.IsAdmin() {
		return helpers.JSONError(c, fiber.StatusForbidden, "not authorized to access this trade")
	}

	return helpers.JSONSuccess(c, "trade", found)
}
