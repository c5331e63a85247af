package seconds

import (
	"coinvault/database"
	"coinvault/helpers"
	"coinvault/market"
	"coinvault/middlewares"
	"coinvault/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type submitRequest struct {
	Seconds      int             `json:"seconds" validate:"required"`
	Amount       decimal.Decimal `json:"amount" validate:"required"`
	TradeType    string          `json:"trade_type" validate:"required,oneof=buy sell"`
	FromCurrency string          `json:"from_currency" validate:"required"`
	ToCurrency   string          `json:"to_currency" validate:"required"`
	OpenPrice    decimal.Decimal `json:"open_price"`
}

func SubmitHandler(c *fiber.Ctx) error {
	current := middlewares.CurrentUser(c)

	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helpers.ValidateStruct(req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	openPrice := req.OpenPrice
	if openPrice.IsZero() {
		if cached, ok := market.Price(req.ToCurrency); ok {
			openPrice = cached
		}
	}

	request, outcome, err := services.SubmitSecondsRequest(
		database.DB, current.ID, req.Seconds, req.Amount,
		req.TradeType, req.FromCurrency, req.ToCurrency, openPrice,
	)
	if err != nil {
		return helpers.JSONServiceError(c, err)
	}

	resp := fiber.Map{
		"request_id": request.ID,
		"status":     request.Status,
	}
	if outcome != nil {
		resp["profit"] = outcome.Profit
		resp["total_amount"] = outcome.Payout
	}
	return helpers.JSONCreated(c, "seconds request submitted", resp)
}
