package admin

import (
	"math"

	"coinvault/database"
	"coinvault/helpers"
	"coinvault/middlewares"
	"coinvault/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

func ListTradesHandler(c *fiber.Ctx) error {
	filter := services.TradeFilter{
		Status:    c.Query("status"),
		TradeType: c.Query("trade_type"),
		TradeMode: c.Query("trade_mode"),
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 10),
	}
	if userID := c.QueryInt("user_id"); userID > 0 {
		uid := uint(userID)
		filter.UserID = &uid
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

type processTradeRequest struct {
	Status        string           `json:"status" validate:"required,oneof=approved completed rejected"`
	ExecutedPrice *decimal.Decimal `json:"executed_price"`
	AdminNotes    string           `json:"admin_notes"`
}

func ProcessTradeHandler(c *fiber.Ctx) error {
	current := middlewares.CurrentUser(c)

	tradeID, err := c.ParamsInt("id")
	if err != nil || tradeID < 1 {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid trade id")
	}

	var req processTradeRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helpers.ValidateStruct(req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	processed, err := services.ProcessTrade(database.DB, services.ProcessTradeInput{
		TradeID:       uint(tradeID),
		AdminID:       current.ID,
		Status:        req.Status,
		ExecutedPrice: req.ExecutedPrice,
		AdminNotes:    req.AdminNotes,
	})
	if err != nil {
		return helpers.JSONServiceError(c, err)
	}

	return helpers.JSONSuccess(c, "trade "+req.Status, processed)
}
