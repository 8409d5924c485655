package server

import (
	"fmt"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Content  string `json:"content" form:"content"`
	ParentID *uint  `json:"parent_id" form:"parent_id"`
}

// AddComment handles POST /post/:id, attaching a comment or reply.
func (s *Server) AddComment(c *fiber.Ctx) error {
	postID, err := uintParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.AddComment(c.UserContext(), service.AddCommentInput{
		Actor:    actor(c),
		PostID:   postID,
		ParentID: req.ParentID,
		Content:  req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return seeOther(c, fmt.Sprintf("/post/%d", postID), fiber.Map{"comment": comment})
}

// DeleteComment handles GET /comment/:id/delete, removing the comment
// and any replies under it.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	err = s.commentService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		Actor:     actor(c),
		CommentID: id,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return seeOther(c, "/home", nil)
}
