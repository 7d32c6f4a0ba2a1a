// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"stackit/internal/models"

	"github.com/gofiber/fiber/v2"
)

// SearchQuestions handles GET /api/search/questions?q=...
func (s *Server) SearchQuestions(c *fiber.Ctx) error {
	ctx := c.Context()
	q := c.Query("q")
	if q == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Search query is required"))
	}

	page := parsePagination(c, 10)
	userID, _ := s.optionalUserID(c)

	questions, err := s.questionService.SearchQuestions(ctx, q, page.Limit, page.Offset, userID)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.JSON(questions)
}

// SearchTags handles GET /api/search/tags?q=...
func (s *Server) SearchTags(c *fiber.Ctx) error {
	ctx := c.Context()
	q := c.Query("q")
	if q == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Search query is required"))
	}

	tags, err := s.tagService.SearchTags(ctx, q, c.QueryInt("limit", 20))
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.JSON(tags)
}

// SearchUsers handles GET /api/search/users?q=...
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	ctx := c.Context()
	q := c.Query("q")
	if q == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Search query is required"))
	}

	page := parsePagination(c, 10)
	users, err := s.userService.SearchUsers(ctx, q, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.JSON(users)
}
