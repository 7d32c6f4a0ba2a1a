package service

import (
	"context"
	"strings"

	"stackit/internal/models"
	"stackit/internal/repository"
)

const minAnswerContentLen = 20

// CreateAnswerInput carries the fields for posting an answer.
type CreateAnswerInput struct {
	QuestionID uint   `json:"question_id"`
	Content    string `json:"content"`
}

// AnswerService implements answer business logic: the approval gate, the
// acceptance state machine and the vote toggle.
type AnswerService struct {
	answers       repository.AnswerRepository
	questions     repository.QuestionRepository
	votes         repository.VoteRepository
	users         repository.UserRepository
	notifications *NotificationService
	isAdmin       func(ctx context.Context, userID uint) (bool, error)
}

// NewAnswerService creates an AnswerService.
func NewAnswerService(
	answers repository.AnswerRepository,
	questions repository.QuestionRepository,
	votes repository.VoteRepository,
	users repository.UserRepository,
	notifications *NotificationService,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *AnswerService {
	return &AnswerService{
		answers:       answers,
		questions:     questions,
		votes:         votes,
		users:         users,
		notifications: notifications,
		isAdmin:       isAdmin,
	}
}

// CreateAnswer posts an answer to an open question. Answers start unapproved;
// the question author is notified.
func (s *AnswerService) CreateAnswer(ctx context.Context, userID uint, input CreateAnswerInput) (*models.Answer, error) {
	if len(strings.TrimSpace(input.Content)) < minAnswerContentLen {
		return nil, models.NewValidationError("Content must be at least 20 characters")
	}

	question, err := s.questions.GetByID(ctx, input.QuestionID, userID)
	if err != nil {
		return nil, err
	}
	if question.Status != models.QuestionStatusOpen {
		return nil, models.NewValidationError("Question is not open for new answers")
	}

	answer := &models.Answer{
		Content:    input.Content,
		QuestionID: question.ID,
		UserID:     userID,
	}
	if err := s.answers.Create(ctx, answer); err != nil {
		return nil, err
	}

	if author, err := s.users.GetByID(ctx, userID); err == nil {
		s.notifications.NotifyQuestionAnswered(ctx, question, answer, author.Username)
	}

	return s.answers.GetByID(ctx, answer.ID, userID)
}

// GetAnswer returns an answer with the viewer's vote filled in. Unapproved
// answers are hidden from viewers who fail the approval gate.
func (s *AnswerService) GetAnswer(ctx context.Context, id, viewerID uint) (*models.Answer, error) {
	answer, err := s.answers.GetByID(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	question, err := s.questions.GetByID(ctx, answer.QuestionID, viewerID)
	if err != nil {
		return nil, err
	}
	if !answer.VisibleTo(viewerID, question.UserID) {
		return nil, models.NewNotFoundError("Answer", id)
	}
	return answer, nil
}

// ListByQuestion returns a question's answers through the approval gate:
// the question owner sees all, signed-in viewers see approved plus their own,
// anonymous viewers see approved only.
func (s *AnswerService) ListByQuestion(ctx context.Context, questionID, viewerID uint) ([]*models.Answer, error) {
	question, err := s.questions.GetByID(ctx, questionID, viewerID)
	if err != nil {
		return nil, err
	}
	answers, err := s.answers.ListByQuestion(ctx, questionID, viewerID)
	if err != nil {
		return nil, err
	}

	visible := answers[:0]
	for _, a := range answers {
		if a.VisibleTo(viewerID, question.UserID) {
			visible = append(visible, a)
		}
	}
	return visible, nil
}

// ListByUser returns a user's answers. Viewers other than the author (and
// admins) only see approved answers.
func (s *AnswerService) ListByUser(ctx context.Context, userID, viewerID uint, limit, offset int) ([]*models.Answer, error) {
	limit, offset = normalizePage(limit, offset)

	approvedOnly := viewerID != userID
	if approvedOnly && viewerID != 0 {
		admin, err := s.isAdmin(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		approvedOnly = !admin
	}
	return s.answers.ListByUser(ctx, userID, limit, offset, approvedOnly)
}

func (s *AnswerService) canModerate(ctx context.Context, ownerID, userID uint) (bool, error) {
	if ownerID == userID {
		return true, nil
	}
	return s.isAdmin(ctx, userID)
}

// UpdateAnswer edits an answer's content. Owner or admin only; edits are
// flagged on the record.
func (s *AnswerService) UpdateAnswer(ctx context.Context, id, userID uint, content string) (*models.Answer, error) {
	if len(strings.TrimSpace(content)) < minAnswerContentLen {
		return nil, models.NewValidationError("Content must be at least 20 characters")
	}

	answer, err := s.answers.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	allowed, err := s.canModerate(ctx, answer.UserID, userID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, models.NewUnauthorizedError("You can only edit your own answers")
	}

	answer.Content = content
	answer.IsEdited = true
	if err := s.answers.Update(ctx, answer); err != nil {
		return nil, err
	}
	return s.answers.GetByID(ctx, id, userID)
}

// DeleteAnswer removes an answer. Owner or admin only; an accepted answer
// must be unaccepted first.
func (s *AnswerService) DeleteAnswer(ctx context.Context, id, userID uint) error {
	answer, err := s.answers.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}
	allowed, err := s.canModerate(ctx, answer.UserID, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return models.NewUnauthorizedError("You can only delete your own answers")
	}
	if answer.IsAccepted {
		return models.NewValidationError("Cannot delete an accepted answer; unaccept it first")
	}
	return s.answers.Delete(ctx, id)
}

// Accept marks an answer as the accepted one for its question. Only the
// question owner may accept; a previously accepted answer is implicitly
// unaccepted. The answer author is notified unless they are the acceptor.
func (s *AnswerService) Accept(ctx context.Context, answerID, actorID uint) (*models.Answer, error) {
	answer, err := s.answers.GetByID(ctx, answerID, actorID)
	if err != nil {
		return nil, err
	}
	question, err := s.questions.GetByID(ctx, answer.QuestionID, actorID)
	if err != nil {
		return nil, err
	}
	if question.UserID != actorID {
		return nil, models.NewUnauthorizedError("Only the question author can accept an answer")
	}

	if err := s.answers.ClearAcceptedForQuestion(ctx, question.ID); err != nil {
		return nil, err
	}
	if err := s.answers.SetAccepted(ctx, answerID, true); err != nil {
		return nil, err
	}
	if err := s.questions.SetAccepted(ctx, question.ID, &answerID); err != nil {
		return nil, err
	}

	s.notifications.NotifyAnswerAccepted(ctx, question, answer, actorID)
	return s.answers.GetByID(ctx, answerID, actorID)
}

// AcceptForQuestion accepts an answer addressed through its question,
// rejecting a mismatched pair.
func (s *AnswerService) AcceptForQuestion(ctx context.Context, questionID, answerID, actorID uint) (*models.Answer, error) {
	answer, err := s.answers.GetByID(ctx, answerID, actorID)
	if err != nil {
		return nil, err
	}
	if answer.QuestionID != questionID {
		return nil, models.NewValidationError("Answer does not belong to this question")
	}
	return s.Accept(ctx, answerID, actorID)
}

// Unaccept withdraws acceptance from an answer. Only the question owner may
// unaccept; no notification is sent.
func (s *AnswerService) Unaccept(ctx context.Context, answerID, actorID uint) (*models.Answer, error) {
	answer, err := s.answers.GetByID(ctx, answerID, actorID)
	if err != nil {
		return nil, err
	}
	question, err := s.questions.GetByID(ctx, answer.QuestionID, actorID)
	if err != nil {
		return nil, err
	}
	if question.UserID != actorID {
		return nil, models.NewUnauthorizedError("Only the question author can unaccept an answer")
	}

	if err := s.answers.SetAccepted(ctx, answerID, false); err != nil {
		return nil, err
	}
	if err := s.questions.SetAccepted(ctx, question.ID, nil); err != nil {
		return nil, err
	}
	return s.answers.GetByID(ctx, answerID, actorID)
}

// Approve makes an answer visible to everyone. Only the question owner may
// approve; approving an already approved answer is a no-op.
func (s *AnswerService) Approve(ctx context.Context, answerID, actorID uint) (*models.Answer, error) {
	answer, err := s.answers.GetByID(ctx, answerID, actorID)
	if err != nil {
		return nil, err
	}
	question, err := s.questions.GetByID(ctx, answer.QuestionID, actorID)
	if err != nil {
		return nil, err
	}
	if question.UserID != actorID {
		return nil, models.NewUnauthorizedError("Only the question author can approve an answer")
	}

	if !answer.IsApproved {
		if err := s.answers.SetApproved(ctx, answerID, true); err != nil {
			return nil, err
		}
	}
	return s.answers.GetByID(ctx, answerID, actorID)
}

// VoteAnswer applies the vote toggle to an answer. Self-votes are rejected;
// the voter must clear the reputation bar.
func (s *AnswerService) VoteAnswer(ctx context.Context, answerID, voterID uint, voteType string) (*VoteResult, error) {
	answer, err := s.answers.GetByID(ctx, answerID, voterID)
	if err != nil {
		return nil, err
	}
	if answer.UserID == voterID {
		return nil, models.NewValidationError("You cannot vote on your own answer")
	}
	if _, err := requireVoter(ctx, s.users, voterID); err != nil {
		return nil, err
	}

	result, outcome, err := applyVoteToggle(ctx, s.votes, voterID, models.VoteTargetAnswer, answerID, voteType)
	if err != nil {
		return nil, err
	}

	if outcome != voteOutcomeRetracted {
		s.notifications.NotifyAnswerVote(ctx, answer, answer.QuestionID, voterID, voteType)
	}
	return result, nil
}
