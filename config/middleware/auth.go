package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"parlour-attendance/models"
	"parlour-attendance/pkg/apperrors"
)

type TokenValidator interface {
	ValidateToken(token string) (*models.Claims, error)
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
		Message: message,
		Code:    string(apperrors.ErrCodeUnauthorized),
	})
}

// AuthMiddleware requires "Authorization: Bearer <token>" and stores the
// token claims in c.Locals("user").
func AuthMiddleware(tokens TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "Access token required")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return unauthorized(c, "Authorization header format must be Bearer <token>")
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals("user", claims)

		return c.Next()
	}
}
