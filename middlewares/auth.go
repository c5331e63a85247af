package middlewares

import (
	"os"
	"strings"

	"coinvault/database"
	"coinvault/helpers"
	"coinvault/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// UserAuth requires a valid Bearer token and stores the user in locals.
func UserAuth(c *fiber.Ctx) error {
	user, err := authenticate(c)
	if err != nil {
		return helpers.JSONError(c, fiber.StatusUnauthorized, err.Error())
	}
	c.Locals("user", user)
	return c.Next()
}

// AdminAuth requires a valid Bearer token belonging to an admin.
func AdminAuth(c *fiber.Ctx) error {
	user, err := authenticate(c)
	if err != nil {
		return helpers.JSONError(c, fiber.StatusUnauthorized, err.Error())
	}
	if !user.IsAdmin() {
		return helpers.JSONError(c, fiber.StatusForbidden, "admin access required")
	}
	c.Locals("user", user)
	return c.Next()
}

// CurrentUser returns the authenticated user placed by the middleware.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}

func authenticate(c *fiber.Ctx) (*models.User, error) {
	header := c.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, errors.New("missing bearer token")
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return nil, errors.New("invalid token subject")
	}

	var user models.User
	if err := database.DB.First(&user, uint(sub)).Error; err != nil {
		return nil, errors.New("user not found")
	}
	return &user, nil
}
