// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"time"

	"stackit/internal/models"
	"stackit/internal/repository"
	"stackit/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetQuestions handles GET /api/questions
// @Summary List questions
// @Description Browse questions with sorting (newest, active, votes, views) and tag/status filters
// @Tags questions
// @Produce json
// @Param sort query string false "Sort order" Enums(newest, active, votes, views, unanswered)
// @Param tag query string false "Filter by tag name"
// @Param status query string false "Filter by status"
// @Success 200 {array} models.Question
// @Router /questions [get]
func (s *Server) GetQuestions(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)

	filter := repository.QuestionFilter{
		Tag:    c.Query("tag"),
		Status: c.Query("status"),
	}
	questions, err := s.questionService.ListQuestions(ctx, filter, c.Query("sort", "newest"), page.Limit, page.Offset, userID)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.JSON(questions)
}

// GetUnansweredQuestions handles GET /api/questions/unanswered
func (s *Server) GetUnansweredQuestions(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)

	questions, err := s.questionService.ListQuestions(ctx, repository.QuestionFilter{}, "unanswered", page.Limit, page.Offset, userID)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.JSON(questions)
}

// GetQuestion handles GET /api/questions/:id
// Each read counts as a view.
func (s *Server) GetQuestion(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	question, err := s.questionService.GetQuestion(ctx, id, userID)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.JSON(question)
}

// GetUserQuestions handles GET /api/users/:id/questions
func (s *Server) GetUserQuestions(c *fiber.Ctx) error {
	ctx := c.Context()
	authorID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)

	questions, err := s.questionService.ListQuestions(ctx,
		repository.QuestionFilter{UserID: authorID}, "newest", page.Limit, page.Offset, userID)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.JSON(questions)
}

// CreateQuestion handles POST /api/questions
// @Summary Post a question
// @Tags questions
// @Accept json
// @Produce json
// @Param request body service.CreateQuestionInput true "Question"
// @Success 201 {object} models.Question
// @Failure 400 {object} models.ErrorResponse
// @Router /questions [post]
func (s *Server) CreateQuestion(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	var req service.CreateQuestionInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	question, err := s.questionService.CreateQuestion(ctx, userID, req)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}

	s.publishBroadcastEvent(EventQuestionCreated, map[string]interface{}{
		"question_id": question.ID,
		"author_id":   question.UserID,
		"title":       question.Title,
		"tags":        question.Tags,
		"created_at":  time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.Status(fiber.StatusCreated).JSON(question)
}

// UpdateQuestion handles PUT /api/questions/:id
func (s *Server) UpdateQuestion(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.UpdateQuestionInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	question, err := s.questionService.UpdateQuestion(ctx, id, userID, req)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.JSON(question)
}

// DeleteQuestion handles DELETE /api/questions/:id
func (s *Server) DeleteQuestion(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.questionService.DeleteQuestion(ctx, id, userID); err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// VoteQuestion handles POST /api/questions/:id/vote
// The vote is a toggle: repeating a direction retracts it, the opposite
// direction switches it.
func (s *Server) VoteQuestion(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		VoteType string `json:"vote_type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.questionService.VoteQuestion(ctx, id, userID, req.VoteType)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}

	s.publishBroadcastEvent(EventQuestionVoteUpdated, map[string]interface{}{
		"question_id": id,
		"vote_count":  result.VoteCount,
		"updated_at":  time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.JSON(result)
}

// AcceptAnswerForQuestion handles POST /api/questions/:id/accept-answer/:answerId
func (s *Server) AcceptAnswerForQuestion(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	questionID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	answerID, err := s.parseID(c, "answerId")
	if err != nil {
		return nil
	}

	answer, err := s.answerService.AcceptForQuestion(ctx, questionID, answerID, userID)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}

	s.publishBroadcastEvent(EventAnswerAccepted, map[string]interface{}{
		"question_id": questionID,
		"answer_id":   answerID,
		"updated_at":  time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.JSON(answer)
}
