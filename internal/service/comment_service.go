package service

import (
	"context"
	"strings"

	"stackit/internal/models"
	"stackit/internal/repository"
)

// CommentService implements comment business logic: the reputation gate,
// parent validation and notification fan-out.
type CommentService struct {
	comments      repository.CommentRepository
	questions     repository.QuestionRepository
	answers       repository.AnswerRepository
	users         repository.UserRepository
	notifications *NotificationService
	isAdmin       func(ctx context.Context, userID uint) (bool, error)
}

// NewCommentService creates a CommentService.
func NewCommentService(
	comments repository.CommentRepository,
	questions repository.QuestionRepository,
	answers repository.AnswerRepository,
	users repository.UserRepository,
	notifications *NotificationService,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CommentService {
	return &CommentService{
		comments:      comments,
		questions:     questions,
		answers:       answers,
		users:         users,
		notifications: notifications,
		isAdmin:       isAdmin,
	}
}

// requireCommenter loads the author and enforces the commenting reputation
// bar. Admins bypass the bar.
func (s *CommentService) requireCommenter(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.CanComment() {
		return nil, models.NewUnauthorizedError("Commenting requires at least 5 reputation")
	}
	return user, nil
}

// CommentOnQuestion posts a comment under a question and notifies its author.
func (s *CommentService) CommentOnQuestion(ctx context.Context, questionID, userID uint, content string) (*models.Comment, error) {
	author, err := s.requireCommenter(ctx, userID)
	if err != nil {
		return nil, err
	}
	question, err := s.questions.GetByID(ctx, questionID, userID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:    strings.TrimSpace(content),
		UserID:     userID,
		QuestionID: &question.ID,
	}
	if err := comment.Validate(); err != nil {
		return nil, err
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.notifications.NotifyQuestionComment(ctx, question, comment, author.Username)
	return s.comments.GetByID(ctx, comment.ID)
}

// CommentOnAnswer posts a comment under an answer and notifies its author.
func (s *CommentService) CommentOnAnswer(ctx context.Context, answerID, userID uint, content string) (*models.Comment, error) {
	author, err := s.requireCommenter(ctx, userID)
	if err != nil {
		return nil, err
	}
	answer, err := s.answers.GetByID(ctx, answerID, userID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:  strings.TrimSpace(content),
		UserID:   userID,
		AnswerID: &answer.ID,
	}
	if err := comment.Validate(); err != nil {
		return nil, err
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.notifications.NotifyAnswerComment(ctx, answer, comment, author.Username)
	return s.comments.GetByID(ctx, comment.ID)
}

// ListByQuestion returns a question's comments, oldest first.
func (s *CommentService) ListByQuestion(ctx context.Context, questionID uint) ([]*models.Comment, error) {
	if _, err := s.questions.GetByID(ctx, questionID, 0); err != nil {
		return nil, err
	}
	return s.comments.ListByQuestion(ctx, questionID)
}

// ListByAnswer returns an answer's comments, oldest first.
func (s *CommentService) ListByAnswer(ctx context.Context, answerID uint) ([]*models.Comment, error) {
	if _, err := s.answers.GetByID(ctx, answerID, 0); err != nil {
		return nil, err
	}
	return s.comments.ListByAnswer(ctx, answerID)
}

// UpdateComment edits a comment. Author only; edits are flagged.
func (s *CommentService) UpdateComment(ctx context.Context, id, userID uint, content string) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, models.NewUnauthorizedError("You can only edit your own comments")
	}

	comment.Content = strings.TrimSpace(content)
	comment.IsEdited = true
	if err := comment.Validate(); err != nil {
		return nil, err
	}
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return s.comments.GetByID(ctx, id)
}

// DeleteComment removes a comment. Author or admin only.
func (s *CommentService) DeleteComment(ctx context.Context, id, userID uint) error {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("You can only delete your own comments")
		}
	}
	return s.comments.Delete(ctx, id)
}
