package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"parlour-attendance/models"
	"parlour-attendance/pkg/apperrors"
)

// requestTimeout bounds every store round trip started by a handler.
const requestTimeout = 5 * time.Second

func statusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeEmployeeNotFound, apperrors.ErrCodeNotFound:
		return fiber.StatusNotFound
	case apperrors.ErrCodeDuplicatePunch, apperrors.ErrCodeEmailExists, apperrors.ErrCodeValidation,
		apperrors.ErrCodeAssigneeNotFound:
		return fiber.StatusBadRequest
	case apperrors.ErrCodePunchConflict:
		return fiber.StatusConflict
	case apperrors.ErrCodeUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes {message, code}. Internal causes are logged and never
// sent to the client.
func respondError(c *fiber.Ctx, err error) error {
	appErr := apperrors.GetAppError(err)
	if appErr == nil {
		appErr = apperrors.Internal(err)
	}

	status := statusFor(appErr.Code)
	if status == fiber.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
	}

	return c.Status(status).JSON(models.ErrorResponse{
		Message: appErr.Message,
		Code:    string(appErr.Code),
	})
}

func respondValidation(c *fiber.Ctx, issues []models.ValidationIssue) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ValidationErrorResponse{
		Message: "Validation failed",
		Code:    string(apperrors.ErrCodeValidation),
		Errors:  issues,
	})
}

func respondBadBody(c *fiber.Ctx) error {
	return respondError(c, apperrors.Validation("Invalid request body"))
}
