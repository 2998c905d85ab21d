package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"parlour-attendance/models"
	"parlour-attendance/pkg/apperrors"
	"parlour-attendance/pkg/password"
	util "parlour-attendance/pkg/utils"
)

type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type TokenGenerator interface {
	GenerateToken(user *models.User) (string, error)
}

type AuthHandler struct {
	users  UserStore
	tokens TokenGenerator
}

func NewAuthHandler(users UserStore, tokens TokenGenerator) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
	}
}

// Login godoc
// @Summary Login
// @Description Verifies email and password and returns a PASETO bearer token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body models.UserLoginPayload true "Login credentials"
// @Success 200 {object} models.LoginSuccessResponse
// @Failure 400 {object} models.ValidationErrorResponse
// @Failure 401 {object} models.ErrorResponse "Invalid credentials"
// @Failure 500 {object} models.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var payload models.UserLoginPayload
	if err := c.BodyParser(&payload); err != nil {
		return respondBadBody(c)
	}
	if issues := util.ValidateStruct(payload); issues != nil {
		return respondValidation(c, issues)
	}

	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	user, err := h.users.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(payload.Email)))
	if err != nil {
		return respondError(c, err)
	}
	if user == nil || !password.CheckPasswordHash(payload.Password, user.Password) {
		return respondError(c, apperrors.Unauthorized("Invalid credentials"))
	}

	token, err := h.tokens.GenerateToken(user)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(models.LoginSuccessResponse{
		Message: "Login successful",
		User:    user.Profile(),
		Token:   token,
	})
}

// Profile godoc
// @Summary Current user profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.ProfileResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/profile [get]
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	claims, ok := c.Locals("user").(*models.Claims)
	if !ok {
		return respondError(c, apperrors.Unauthorized("User not found"))
	}

	ctx, cancel := context.WithTimeout(c.Context(), requestTimeout)
	defer cancel()

	user, err := h.users.FindUserByID(ctx, claims.UserID)
	if err != nil {
		return respondError(c, err)
	}
	if user == nil {
		return respondError(c, apperrors.Unauthorized("User not found"))
	}

	return c.Status(fiber.StatusOK).JSON(models.ProfileResponse{User: user.Profile()})
}
