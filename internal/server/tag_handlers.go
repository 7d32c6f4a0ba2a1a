// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"stackit/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetTags handles GET /api/tags
// @Summary List tags
// @Tags tags
// @Produce json
// @Param sort query string false "Sort order" Enums(popular, name, new)
// @Success 200 {array} models.Tag
// @Router /tags [get]
func (s *Server) GetTags(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 50)

	tags, err := s.tagService.ListTags(ctx, c.Query("sort", "popular"), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.JSON(tags)
}

// GetPopularTags handles GET /api/tags/popular
func (s *Server) GetPopularTags(c *fiber.Ctx) error {
	ctx := c.Context()
	limit := c.QueryInt("limit", 10)

	tags, err := s.tagService.PopularTags(ctx, limit)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.JSON(tags)
}

// GetTag handles GET /api/tags/:name
func (s *Server) GetTag(c *fiber.Ctx) error {
	ctx := c.Context()
	name := c.Params("name")
	if name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Tag name is required"))
	}

	tag, err := s.tagService.GetTag(ctx, name)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.JSON(tag)
}

// CreateTag handles POST /api/tags (admin)
func (s *Server) CreateTag(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tag, err := s.tagService.CreateTag(ctx, req.Name, req.Description, userID)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

// UpdateTag handles PUT /api/tags/:id (admin)
func (s *Server) UpdateTag(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Description string `json:"description"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tag, err := s.tagService.UpdateTag(ctx, id, req.Description)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.JSON(tag)
}

// DeleteTag handles DELETE /api/tags/:id (admin)
// A tag still carried by questions is rejected with 400.
func (s *Server) DeleteTag(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.tagService.DeleteTag(ctx, id); err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
