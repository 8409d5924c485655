package server

import (
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// RegisterPage answers GET /register. A logged-in user is sent back
// to the feed instead.
func (s *Server) RegisterPage(c *fiber.Ctx) error {
	if _, ok := middleware.CurrentUserID(c); ok {
		return seeOther(c, "/home", nil)
	}
	return c.JSON(fiber.Map{"page": "register"})
}

// Register handles POST /register and creates the account.
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return seeOther(c, "/login", fiber.Map{"user": user})
}

// LoginPage answers GET /login.
func (s *Server) LoginPage(c *fiber.Ctx) error {
	if _, ok := middleware.CurrentUserID(c); ok {
		return seeOther(c, "/home", nil)
	}
	return c.JSON(fiber.Map{"page": "login"})
}

// Login handles POST /login, opening a session on success.
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	user, sessionID, err := s.authService.Login(c.UserContext(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	setSessionCookie(c, sessionID)
	return seeOther(c, "/home", fiber.Map{
		"user":    user,
		"session": sessionID,
	})
}

// Logout handles GET /logout. The session is destroyed server-side,
// so the old ID is dead even if the client kept it.
func (s *Server) Logout(c *fiber.Ctx) error {
	if sid, ok := c.Locals(middleware.SessionIDKey).(string); ok {
		if err := s.authService.Logout(c.UserContext(), sid); err != nil {
			return models.RespondWithError(c, err)
		}
	}
	clearSessionCookie(c)
	return seeOther(c, "/home", nil)
}
