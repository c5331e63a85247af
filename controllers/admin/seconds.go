package admin

import (
	"coinvault/database"
	"coinvault/helpers"
	"coinvault/middlewares"
	"coinvault/services"

	"github.com/gofiber/fiber/v2"
)

func ListPendingSecondsHandler(c *fiber.Ctx) error {
	requests, err := services.ListPendingSecondsRequests(database.DB)
	if err != nil {
		return helpers.JSONServiceError(c, err)
	}
	return helpers.JSONSuccess(c, "pending seconds requests", requests)
}

func ApproveSecondsHandler(c *fiber.Ctx) error {
	current := middlewares.CurrentUser(c)

	requestID, err := c.ParamsInt("id")
	if err != nil || requestID < 1 {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid request id")
	}

	outcome, err := services.ApproveSecondsRequest(database.DB, uint(requestID), current.ID)
	if err != nil {
		return helpers.JSONServiceError(c, err)
	}

	return helpers.JSONSuccess(c, "seconds request approved", outcome)
}

func RejectSecondsHandler(c *fiber.Ctx) error {
	requestID, err := c.ParamsInt("id")
	if err != nil || requestID < 1 {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid request id")
	}

	outcome, err := services.RejectSecondsRequest(database.DB, uint(requestID))
	if err != nil {
		return helpers.JSONServiceError(c, err)
	}

	return helpers.JSONSuccess(c, "seconds request rejected", outcome)
}
