package server

import (
	"fmt"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type postRequest struct {
	Title     string `json:"title" form:"title"`
	Content   string `json:"content" form:"content"`
	Published bool   `json:"published" form:"published"`
}

// NewPostPage answers GET /create for the post composer.
func (s *Server) NewPostPage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"page": "create"})
}

// CreatePost handles POST /create.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	userID, _ := middleware.CurrentUserID(c)
	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:    userID,
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return seeOther(c, fmt.Sprintf("/post/%d", post.ID), fiber.Map{"post": post})
}

// GetPost answers GET /post/:id with the post and its comment tree.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	post, comments, err := s.postService.GetPost(c.UserContext(), id, actor(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"post":     post,
		"comments": comments,
	})
}

// EditPostPage answers GET /post/:id/edit with the post to edit. The
// same existence, login, and ownership checks apply as on submit.
func (s *Server) EditPostPage(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	post, _, err := s.postService.GetPost(c.UserContext(), id, actor(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	a := actor(c)
	if !a.Authenticated {
		return models.RespondWithError(c, models.NewUnauthenticatedError("Login required"))
	}
	if post.UserID != a.ID {
		return models.RespondWithError(c, models.NewForbiddenError("You can only edit your own posts"))
	}

	return c.JSON(fiber.Map{"post": post})
}

// UpdatePost handles POST /post/:id/edit.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		Actor:   actor(c),
		PostID:  id,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return seeOther(c, fmt.Sprintf("/post/%d", post.ID), fiber.Map{"post": post})
}

// DeletePost handles POST /post/:id/delete. Comments go with the post.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	err = s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		Actor:  actor(c),
		PostID: id,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return seeOther(c, "/home", nil)
}
