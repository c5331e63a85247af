package trade

import (
	"coinvault/database"
	"coinvault/helpers"
	"coinvault/middlewares"
	"coinvault/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type createTradeRequest struct {
	TradeType     string          `json:"trade_type" validate:"required,oneof=buy sell"`
	FromCurrency  string          `json:"from_currency" validate:"required"`
	ToCurrency    string          `json:"to_currency" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	ExpectedPrice decimal.Decimal `json:"expected_price" validate:"required"`
	TradeMode     string          `json:"trade_mode" validate:"required,oneof=Swap Spot Seconds"`
}

func CreateHandler(c *fiber.Ctx) error {
	current := middlewares.CurrentUser(c)

	var req createTradeRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helpers.ValidateStruct(req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, err.Error())
	}
	if req.TradeMode == "Seconds" {
		return helpers.JSONError(c, fiber.StatusBadRequest,
			"Seconds trades cannot be created directly. Use the seconds request workflow.")
	}

	created, err := services.CreateTrade(database.DB, services.CreateTradeInput{
		UserID:          current.ID,
		TradeType:       req.TradeType,
		FromCurrency:    req.FromCurrency,
		ToCurrency:      req.ToCurrency,
		PrincipalAmount: req.Amount,
		ExpectedPrice:   req.ExpectedPrice,
		TradeMode:       req.TradeMode,
	})
	if err != nil {
		return helpers.JSONServiceError(c, err)
	}

	return helpers.JSONCreated(c, "trade submitted, awaiting admin approval", created)
}
