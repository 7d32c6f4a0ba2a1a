// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"time"

	"stackit/internal/models"
	"stackit/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetQuestionAnswers handles GET /api/answers/question/:questionId
// Answers pass through the approval gate: the question owner sees all,
// signed-in viewers see approved plus their own, anonymous viewers see
// approved only.
func (s *Server) GetQuestionAnswers(c *fiber.Ctx) error {
	ctx := c.Context()
	questionID, err := s.parseID(c, "questionId")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	answers, err := s.answerService.ListByQuestion(ctx, questionID, userID)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.JSON(answers)
}

// GetUserAnswers handles GET /api/answers/user/:userId and GET /api/users/:id/answers
func (s *Server) GetUserAnswers(c *fiber.Ctx) error {
	ctx := c.Context()
	param := "userId"
	if c.Params(param) == "" {
		param = "id"
	}
	authorID, err := s.parseID(c, param)
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)

	answers, err := s.answerService.ListByUser(ctx, authorID, userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.JSON(answers)
}

// CreateAnswer handles POST /api/answers
// @Summary Post an answer
// @Tags answers
// @Accept json
// @Produce json
// @Param request body service.CreateAnswerInput true "Answer"
// @Success 201 {object} models.Answer
// @Failure 400 {object} models.ErrorResponse
// @Router /answers [post]
func (s *Server) CreateAnswer(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	var req service.CreateAnswerInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	answer, err := s.answerService.CreateAnswer(ctx, userID, req)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}

	s.publishBroadcastEvent(EventAnswerCreated, map[string]interface{}{
		"question_id": answer.QuestionID,
		"answer_id":   answer.ID,
		"author_id":   answer.UserID,
		"created_at":  time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.Status(fiber.StatusCreated).JSON(answer)
}

// UpdateAnswer handles PUT /api/answers/:id
func (s *Server) UpdateAnswer(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	answer, err := s.answerService.UpdateAnswer(ctx, id, userID, req.Content)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.JSON(answer)
}

// DeleteAnswer handles DELETE /api/answers/:id
// An accepted answer cannot be deleted until it is unaccepted.
func (s *Server) DeleteAnswer(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.answerService.DeleteAnswer(ctx, id, userID); err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// VoteAnswer handles POST /api/answers/:id/vote
func (s *Server) VoteAnswer(c *fiber.Ctx) error {
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

	result, err := s.answerService.VoteAnswer(ctx, id, userID, req.VoteType)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}

	s.publishBroadcastEvent(EventAnswerVoteUpdated, map[string]interface{}{
		"answer_id":  id,
		"vote_count": result.VoteCount,
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.JSON(result)
}

// AcceptAnswer handles POST /api/answers/:id/accept
func (s *Server) AcceptAnswer(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	answer, err := s.answerService.Accept(ctx, id, userID)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}

	s.publishBroadcastEvent(EventAnswerAccepted, map[string]interface{}{
		"question_id": answer.QuestionID,
		"answer_id":   answer.ID,
		"updated_at":  time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.JSON(answer)
}

// UnacceptAnswer handles POST /api/answers/:id/unaccept
func (s *Server) UnacceptAnswer(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	answer, err := s.answerService.Unaccept(ctx, id, userID)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.JSON(answer)
}

// ApproveAnswer handles POST /api/answers/:id/approve
// Only the question author may approve; approving twice is a no-op.
func (s *Server) ApproveAnswer(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	answer, err := s.answerService.Approve(ctx, id, userID)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}

	// Approval changes visibility for the author only, so the event is
	// targeted rather than broadcast.
	s.publishUserEvent(answer.UserID, EventAnswerApproved, map[string]interface{}{
		"question_id": answer.QuestionID,
		"answer_id":   answer.ID,
		"updated_at":  time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.JSON(answer)
}
