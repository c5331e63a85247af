package seconds

import (
	"coinvault/database"
	"coinvault/helpers"
	"coinvault/services"

	"github.com/gofiber/fiber/v2"
)

// TimeoutHandler resolves an expired wager. Safe to call repeatedly; an
// already-resolved request just reports its recorded outcome.
func TimeoutHandler(c *fiber.Ctx) error {
	requestID, err := c.ParamsInt("id")
	if err != nil || requestID < 1 {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid request id")
	}

	outcome, err := services.ResolveSecondsTimeout(database.DB, uint(requestID))
	if err != nil {
		return helpers.JSONServiceError(c, err)
	}

	return helpers.JSONSuccess(c, "seconds request resolved", outcome)
}
