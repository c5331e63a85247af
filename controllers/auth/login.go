package auth

import (
	"coinvault/database"
	"coinvault/helpers"
	"coinvault/services"

	"github.com/gofiber/fiber/v2"
)

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

func LoginHandler(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helpers.ValidateStruct(req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	user, token, err := services.Authenticate(database.DB, req.Identifier, req.Password)
	if err != nil {
		return helpers.JSONError(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	return helpers.JSONSuccess(c, "logged in", fiber.Map{
		"user":  user,
		"token": token,
	})
}
