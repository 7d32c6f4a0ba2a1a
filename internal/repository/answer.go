package repository

import (
	"context"
	"errors"

	"stackit/internal/models"

	"gorm.io/gorm"
)

// AnswerRepository defines persistence operations for answers.
type AnswerRepository interface {
	Create(ctx context.Context, answer *models.Answer) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Answer, error)
	ListByQuestion(ctx context.Context, questionID uint, currentUserID uint) ([]*models.Answer, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int, approvedOnly bool) ([]*models.Answer, error)
	Update(ctx context.Context, answer *models.Answer) error
	Delete(ctx context.Context, id uint) error
	SetAccepted(ctx context.Context, id uint, accepted bool) error
	ClearAcceptedForQuestion(ctx context.Context, questionID uint) error
	SetApproved(ctx context.Context, id uint, approved bool) error
}

type answerRepository struct {
	db *gorm.DB
}

// NewAnswerRepository returns a new AnswerRepository implementation.
func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Create(ctx context.Context, answer *models.Answer) error {
	if err := r.db.WithContext(ctx).Create(answer).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *answerRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Answer, error) {
	var answer models.Answer
	err := r.applyAnswerDetails(readDB(r.db).WithContext(ctx), currentUserID).
		Preload("User").
		First(&answer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Answer", id)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	answer.UserVote = models.VoteLabel(answer.UserVoteValue)
	return &answer, nil
}

// ListByQuestion returns every answer on the question, accepted first, then
// by score. Approval-gate filtering happens in the service layer, which knows
// the viewer and the question owner.
func (r *answerRepository) ListByQuestion(ctx context.Context, questionID uint, currentUserID uint) ([]*models.Answer, error) {
	var answers []*models.Answer
	err := r.applyAnswerDetails(readDB(r.db).WithContext(ctx), currentUserID).
		Preload("User").
		Where("question_id = ?", questionID).
		Order("is_accepted DESC, vote_count DESC, created_at ASC").
		Find(&answers).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, a := range answers {
		a.UserVote = models.VoteLabel(a.UserVoteValue)
	}
	return answers, nil
}

func (r *answerRepository) ListByUser(ctx context.Context, userID uint, limit, offset int, approvedOnly bool) ([]*models.Answer, error) {
	var answers []*models.Answer
	q := r.applyAnswerDetails(readDB(r.db).WithContext(ctx), 0).
		Where("answers.user_id = ?", userID)
	if approvedOnly {
		q = q.Where("answers.is_approved = true")
	}
	err := q.Order("answers.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&answers).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return answers, nil
}

// applyAnswerDetails adds subqueries fetching the vote aggregate and the
// viewer's own vote in a single query.
func (r *answerRepository) applyAnswerDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "answers.*, " +
		"(SELECT COALESCE(SUM(votes.value), 0) FROM votes WHERE votes.target_type = 'answer' AND votes.target_id = answers.id) as vote_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+
			", (SELECT COALESCE(SUM(votes.value), 0) FROM votes WHERE votes.target_type = 'answer' AND votes.target_id = answers.id AND votes.user_id = ?) as user_vote_value",
			currentUserID)
	}
	return db.Select(selectQuery + ", 0 as user_vote_value")
}

func (r *answerRepository) Update(ctx context.Context, answer *models.Answer) error {
	if err := r.db.WithContext(ctx).Save(answer).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *answerRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Answer{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *answerRepository) SetAccepted(ctx context.Context, id uint, accepted bool) error {
	err := r.db.WithContext(ctx).
		Model(&models.Answer{}).
		Where("id = ?", id).
		Update("is_accepted", accepted).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ClearAcceptedForQuestion unmarks whichever answer is currently accepted on
// the question. A no-op when none is.
func (r *answerRepository) ClearAcceptedForQuestion(ctx context.Context, questionID uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Answer{}).
		Where("question_id = ? AND is_accepted = true", questionID).
		Update("is_accepted", false).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *answerRepository) SetApproved(ctx context.Context, id uint, approved bool) error {
	err := r.db.WithContext(ctx).
		Model(&models.Answer{}).
		Where("id = ?", id).
		Update("is_approved", approved).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
