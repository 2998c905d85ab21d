package handlers

import (
	"github.com/gofiber/fiber/v2"

	"parlour-attendance/models"
)

// Health godoc
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /health [get]
func Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(models.HealthResponse{
		Status:  "OK",
		Message: "Parlour API is running",
	})
}
