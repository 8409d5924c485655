package server

import (
	"io"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type accountRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	FullName string `json:"full_name" form:"full_name"`
	Bio      string `json:"bio" form:"bio"`
	Website  string `json:"website" form:"website"`
	Github   string `json:"github" form:"github"`
	Twitter  string `json:"twitter" form:"twitter"`
}

// UserProfile answers GET /user/:username with the user and their
// posts. The owner also sees their drafts.
func (s *Server) UserProfile(c *fiber.Ctx) error {
	username := c.Params("username")

	user, posts, err := s.userService.Profile(c.UserContext(), username, actor(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":  user,
		"posts": posts,
	})
}

// AccountPage answers GET /account with the caller's own record.
func (s *Server) AccountPage(c *fiber.Ctx) error {
	user, err := s.userService.Account(c.UserContext(), actor(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// UpdateAccount handles POST /account. The form is multipart so the
// profile picture can ride along with the text fields; the whole edit
// succeeds or fails as one unit.
func (s *Server) UpdateAccount(c *fiber.Ctx) error {
	var req accountRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	in := service.UpdateProfileInput{
		Actor:    actor(c),
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Bio:      req.Bio,
		Website:  req.Website,
		Github:   req.Github,
		Twitter:  req.Twitter,
	}

	if fh, err := c.FormFile("picture"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			return models.RespondWithError(c, models.NewInternalError(err))
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return models.RespondWithError(c, models.NewInternalError(err))
		}
		in.Picture = data
		in.PictureFilename = fh.Filename
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), in)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return seeOther(c, "/account", fiber.Map{"user": user})
}
