package helpers

import (
	"coinvault/ledger"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

func JSONSuccess(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func JSONCreated(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func JSONError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
		"data":    nil,
	})
}

// JSONServiceError maps ledger error kinds to HTTP responses. Integrity
// and infra faults are logged and hidden behind a generic message.
func JSONServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return JSONError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrNotOwner):
		return JSONError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, ledger.ErrNotPending),
		errors.Is(err, ledger.ErrInvalidStatusTransition),
		errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrMissingExecutedPrice):
		return JSONError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrMissingBalanceEntry):
		logrus.WithError(err).WithField("path", c.Path()).Error("balance entry missing")
		return JSONError(c, fiber.StatusInternalServerError, err.Error())
	case errors.Is(err, ledger.ErrPersistence):
		logrus.WithError(err).WithField("path", c.Path()).Error("persistence failure")
		return JSONError(c, fiber.StatusInternalServerError, "server error")
	default:
		return JSONError(c, fiber.StatusBadRequest, err.Error())
	}
}
