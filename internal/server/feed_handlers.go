package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// HomeFeed answers GET / and GET /home with one page of published
// posts, newest first. ?page=N selects the page, starting at 1.
func (s *Server) HomeFeed(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)

	posts, err := s.postService.HomeFeed(c.UserContext(), page)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return c.JSON(fiber.Map{
		"posts":     posts,
		"page":      page,
		"page_size": service.FeedPageSize,
	})
}
