package deposit

import (
	"coinvault/database"
	"coinvault/helpers"
	"coinvault/middlewares"
	"coinvault/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type submitRequest struct {
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Currency      string          `json:"currency" validate:"required"`
	Chain         string          `json:"chain"`
	ProofImageURL string          `json:"proof_image_url"`
	Metadata      datatypes.JSON  `json:"metadata"`
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

	created, err := services.SubmitDeposit(
		database.DB, current.ID, req.Amount, req.Currency,
		req.Chain, req.ProofImageURL, req.Metadata,
	)
	if err != nil {
		return helpers.JSONServiceError(c, err)
	}

	return helpers.JSONCreated(c, "deposit submitted, awaiting review", created)
}
