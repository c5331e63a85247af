package auth

import (
	"coinvault/database"
	"coinvault/helpers"
	"coinvault/services"

	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"omitempty,min=6"`
	Password string `json:"password" validate:"required,min=6"`
}

func RegisterHandler(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := helpers.ValidateStruct(req); err != nil {
		return helpers.JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	user, err := services.RegisterUser(database.DB, services.RegisterUserInput{
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return helpers.JSONServiceError(c, err)
	}

	token, err := services.IssueToken(user)
	if err != nil {
		return helpers.JSONServiceError(c, err)
	}

	return helpers.JSONCreated(c, "registered", fiber.Map{
		"user":  user,
		"token": token,
	})
}
