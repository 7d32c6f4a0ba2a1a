// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"stackit/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateQuestionComment handles POST /api/questions/:id/comments
func (s *Server) CreateQuestionComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	questionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CommentOnQuestion(ctx, questionID, userID, req.Content)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetQuestionComments handles GET /api/questions/:id/comments
func (s *Server) GetQuestionComments(c *fiber.Ctx) error {
	ctx := c.Context()
	questionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListByQuestion(ctx, questionID)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.JSON(comments)
}

// CreateAnswerComment handles POST /api/answers/:id/comments
func (s *Server) CreateAnswerComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	answerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CommentOnAnswer(ctx, answerID, userID, req.Content)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetAnswerComments handles GET /api/answers/:id/comments
func (s *Server) GetAnswerComments(c *fiber.Ctx) error {
	ctx := c.Context()
	answerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListByAnswer(ctx, answerID)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.JSON(comments)
}

// UpdateComment handles PUT /api/comments/:id
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(ctx, commentID, userID, req.Content)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(ctx, commentID, userID); err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
