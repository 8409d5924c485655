package server

import (
	"errors"

	"inkwell/internal/auth"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type resetRequestRequest struct {
	Email string `json:"email" form:"email"`
}

type resetPasswordRequest struct {
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

// ResetRequestPage answers GET /reset_password.
func (s *Server) ResetRequestPage(c *fiber.Ctx) error {
	if _, ok := middleware.CurrentUserID(c); ok {
		return seeOther(c, "/home", nil)
	}
	return c.JSON(fiber.Map{"page": "reset_request"})
}

// RequestPasswordReset handles POST /reset_password. The response is
// the same whether or not the email matches an account.
func (s *Server) RequestPasswordReset(c *fiber.Ctx) error {
	var req resetRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}
	if req.Email == "" {
		return models.RespondWithError(c, models.NewValidationError("email is required"))
	}

	if err := s.authService.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "If that email is registered, a reset link has been sent.",
	})
}

// VerifyResetToken answers GET /reset_password/:token so the client
// can reject a dead link before showing the password form.
func (s *Server) VerifyResetToken(c *fiber.Ctx) error {
	token := c.Params("token")

	if _, err := s.tokens.Redeem(token, auth.ResetTokenMaxAge); err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return models.RespondWithError(c, models.NewExpiredTokenError())
		}
		return models.RespondWithError(c, models.NewInvalidTokenError())
	}

	return c.JSON(fiber.Map{"page": "reset_password"})
}

// ResetPassword handles POST /reset_password/:token.
func (s *Server) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	_, err := s.authService.ResetPassword(c.UserContext(), service.ResetPasswordInput{
		Token:           c.Params("token"),
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return seeOther(c, "/login", fiber.Map{
		"message": "Password updated. You can log in now.",
	})
}
