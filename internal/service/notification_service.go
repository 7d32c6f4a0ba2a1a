package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"stackit/internal/middleware"
	"stackit/internal/models"
	"stackit/internal/observability"
	"stackit/internal/repository"
)

// Sink delivers a notification payload to a user's live channel. Implemented
// by the Redis notifier; nil-safe to leave unset in tests.
type Sink interface {
	PublishUser(ctx context.Context, userID uint, payload string) error
}

// NotificationService persists notifications and fans them out to the live
// channel. Dispatch failures are logged and swallowed: the action that
// triggered a notification must never fail because delivery did.
type NotificationService struct {
	repo repository.NotificationRepository
	sink Sink
}

// NewNotificationService creates a notification coordinator.
func NewNotificationService(repo repository.NotificationRepository, sink Sink) *NotificationService {
	return &NotificationService{repo: repo, sink: sink}
}

// dispatch persists the notification and publishes it. Self-directed events
// are dropped unless the type is reputation_change, which is intentionally
// delivered to its own subject.
func (s *NotificationService) dispatch(ctx context.Context, n *models.Notification) {
	if n.SenderID != nil && *n.SenderID == n.RecipientID && n.Type != models.NotificationReputationChange {
		return
	}

	if err := s.repo.Create(ctx, n); err != nil {
		middleware.Logger.ErrorContext(ctx, "notification persist failed",
			slog.String("type", n.Type),
			slog.Uint64("recipient_id", uint64(n.RecipientID)),
			slog.String("error", err.Error()),
		)
		return
	}
	observability.NotificationsDispatched.WithLabelValues(n.Type).Inc()

	if s.sink == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"type":         "notification",
		"notification": n,
	})
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "notification payload marshal failed",
			slog.String("type", n.Type),
			slog.String("error", err.Error()),
		)
		return
	}
	if err := s.sink.PublishUser(ctx, n.RecipientID, string(payload)); err != nil {
		middleware.Logger.WarnContext(ctx, "notification publish failed",
			slog.String("type", n.Type),
			slog.Uint64("recipient_id", uint64(n.RecipientID)),
			slog.String("error", err.Error()),
		)
	}
}

// NotifyQuestionAnswered tells the question author a new answer arrived.
func (s *NotificationService) NotifyQuestionAnswered(ctx context.Context, question *models.Question, answer *models.Answer, senderName string) {
	senderID := answer.UserID
	s.dispatch(ctx, &models.Notification{
		RecipientID: question.UserID,
		SenderID:    &senderID,
		Type:        models.NotificationQuestionAnswer,
		Title:       "New answer to your question",
		Message:     fmt.Sprintf("%s answered your question \"%s\"", senderName, question.Title),
		QuestionID:  &question.ID,
		AnswerID:    &answer.ID,
	})
}

// NotifyAnswerAccepted tells the answer author their answer was accepted.
func (s *NotificationService) NotifyAnswerAccepted(ctx context.Context, question *models.Question, answer *models.Answer, actorID uint) {
	s.dispatch(ctx, &models.Notification{
		RecipientID: answer.UserID,
		SenderID:    &actorID,
		Type:        models.NotificationAnswerAccepted,
		Title:       "Your answer was accepted",
		Message:     fmt.Sprintf("Your answer to \"%s\" was marked as accepted", question.Title),
		QuestionID:  &question.ID,
		AnswerID:    &answer.ID,
	})
}

// NotifyQuestionVote tells the question author about a new vote.
func (s *NotificationService) NotifyQuestionVote(ctx context.Context, question *models.Question, voterID uint, voteType string) {
	s.dispatch(ctx, &models.Notification{
		RecipientID: question.UserID,
		SenderID:    &voterID,
		Type:        models.NotificationQuestionVote,
		Title:       "Your question received a vote",
		Message:     fmt.Sprintf("Someone cast an %s on your question \"%s\"", voteType, question.Title),
		QuestionID:  &question.ID,
	})
}

// NotifyAnswerVote tells the answer author about a new vote.
func (s *NotificationService) NotifyAnswerVote(ctx context.Context, answer *models.Answer, questionID uint, voterID uint, voteType string) {
	s.dispatch(ctx, &models.Notification{
		RecipientID: answer.UserID,
		SenderID:    &voterID,
		Type:        models.NotificationAnswerVote,
		Title:       "Your answer received a vote",
		Message:     fmt.Sprintf("Someone cast an %s on your answer", voteType),
		QuestionID:  &questionID,
		AnswerID:    &answer.ID,
	})
}

// NotifyQuestionComment tells the question author about a new comment.
func (s *NotificationService) NotifyQuestionComment(ctx context.Context, question *models.Question, comment *models.Comment, senderName string) {
	senderID := comment.UserID
	s.dispatch(ctx, &models.Notification{
		RecipientID: question.UserID,
		SenderID:    &senderID,
		Type:        models.NotificationQuestionComment,
		Title:       "New comment on your question",
		Message:     fmt.Sprintf("%s commented on your question \"%s\"", senderName, question.Title),
		QuestionID:  &question.ID,
		CommentID:   &comment.ID,
	})
}

// NotifyAnswerComment tells the answer author about a new comment.
func (s *NotificationService) NotifyAnswerComment(ctx context.Context, answer *models.Answer, comment *models.Comment, senderName string) {
	senderID := comment.UserID
	s.dispatch(ctx, &models.Notification{
		RecipientID: answer.UserID,
		SenderID:    &senderID,
		Type:        models.NotificationAnswerComment,
		Title:       "New comment on your answer",
		Message:     fmt.Sprintf("%s commented on your answer", senderName),
		QuestionID:  &answer.QuestionID,
		AnswerID:    &answer.ID,
		CommentID:   &comment.ID,
	})
}

// NotifyReputationChange tells a user their reputation was adjusted. This is
// the one self-deliverable type: the subject is the recipient.
func (s *NotificationService) NotifyReputationChange(ctx context.Context, userID uint, points int, reason string) {
	verb := "increased"
	if points < 0 {
		verb = "decreased"
	}
	if reason == "" {
		reason = "moderator adjustment"
	}
	s.dispatch(ctx, &models.Notification{
		RecipientID: userID,
		Type:        models.NotificationReputationChange,
		Title:       "Reputation updated",
		Message:     fmt.Sprintf("Your reputation %s by %d (%s)", verb, abs(points), reason),
	})
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// List returns a page of the recipient's notifications, optionally unread only.
func (s *NotificationService) List(ctx context.Context, recipientID uint, unreadOnly bool, limit, offset int) ([]*models.Notification, error) {
	return s.repo.ListByRecipient(ctx, recipientID, unreadOnly, limit, offset)
}

// UnreadCount returns the number of unread notifications.
func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	return s.repo.CountUnread(ctx, recipientID)
}

// MarkRead marks one notification read; not-found when it is not the caller's.
func (s *NotificationService) MarkRead(ctx context.Context, id, recipientID uint) error {
	return s.repo.MarkRead(ctx, id, recipientID)
}

// MarkAllRead marks every unread notification read.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uint) error {
	return s.repo.MarkAllRead(ctx, recipientID)
}

// Delete removes one notification from the caller's inbox.
func (s *NotificationService) Delete(ctx context.Context, id, recipientID uint) error {
	return s.repo.Delete(ctx, id, recipientID)
}

// DeleteAll clears the caller's inbox.
func (s *NotificationService) DeleteAll(ctx context.Context, recipientID uint) error {
	return s.repo.DeleteAll(ctx, recipientID)
}
