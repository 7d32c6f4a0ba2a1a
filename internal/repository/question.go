package repository

import (
	"context"
	"errors"
	"fmt"

	"stackit/internal/cache"
	"stackit/internal/models"

	"gorm.io/gorm"
)

// QuestionFilter narrows question listings.
type QuestionFilter struct {
	Tag    string
	Status string
	UserID uint
}

// QuestionRepository defines persistence operations for questions.
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Question, error)
	List(ctx context.Context, filter QuestionFilter, sort string, limit, offset int, currentUserID uint) ([]*models.Question, error)
	Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error
	SetAccepted(ctx context.Context, questionID uint, answerID *uint) error
	CountByTag(ctx context.Context, tag string) (int64, error)
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository returns a new QuestionRepository implementation.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(ctx context.Context, question *models.Question) error {
	if err := r.db.WithContext(ctx).Create(question).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateQuestionsList(ctx)
	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Question, error) {
	var question models.Question

	load := func() error {
		err := r.applyQuestionDetails(readDB(r.db).WithContext(ctx), currentUserID).
			Preload("User").
			First(&question, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Question", id)
		}
		if err != nil {
			return models.NewInternalError(err)
		}
		return nil
	}

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.QuestionKey(id), &question, cache.QuestionTTL, load)
	} else {
		err = load()
	}
	if err != nil {
		return nil, err
	}
	question.UserVote = models.VoteLabel(question.UserVoteValue)
	return &question, nil
}

func (r *questionRepository) List(ctx context.Context, filter QuestionFilter, sort string, limit, offset int, currentUserID uint) ([]*models.Question, error) {
	var questions []*models.Question

	load := func() error {
		base := r.applyQuestionDetails(readDB(r.db).WithContext(ctx), currentUserID).
			Preload("User")
		base = r.applyFilter(base, filter)
		if err := r.applySort(base, sort).
			Limit(limit).
			Offset(offset).
			Find(&questions).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	}

	var err error
	if currentUserID == 0 && filter == (QuestionFilter{}) {
		err = cache.Aside(ctx, cache.QuestionsListKey(ctx, sort, limit, offset), &questions, cache.QuestionsListTTL, load)
	} else {
		err = load()
	}
	if err != nil {
		return nil, err
	}
	for _, q := range questions {
		q.UserVote = models.VoteLabel(q.UserVoteValue)
	}
	return questions, nil
}

func (r *questionRepository) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Question, error) {
	var questions []*models.Question
	like := "%" + query + "%"
	err := r.applyQuestionDetails(readDB(r.db).WithContext(ctx), currentUserID).
		Preload("User").
		Where("title ILIKE ? OR content ILIKE ?", like, like).
		Order("last_activity DESC").
		Limit(limit).
		Offset(offset).
		Find(&questions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, q := range questions {
		q.UserVote = models.VoteLabel(q.UserVoteValue)
	}
	return questions, nil
}

// applyFilter appends WHERE clauses for the requested listing filter. Tag
// matching uses jsonb containment against the denormalized tags column.
func (r *questionRepository) applyFilter(db *gorm.DB, filter QuestionFilter) *gorm.DB {
	if filter.Tag != "" {
		db = db.Where("questions.tags @> ?", fmt.Sprintf("[%q]", filter.Tag))
	}
	if filter.Status != "" {
		db = db.Where("questions.status = ?", filter.Status)
	}
	if filter.UserID != 0 {
		db = db.Where("questions.user_id = ?", filter.UserID)
	}
	return db
}

// applySort appends the ORDER BY (and optional WHERE) clause for the requested
// sort type. vote_count and answers_count are SELECT aliases from
// applyQuestionDetails; PostgreSQL allows referencing them in ORDER BY within
// the same query level.
func (r *questionRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "active":
		return db.Order("last_activity DESC")
	case "votes":
		return db.Order("vote_count DESC, questions.created_at DESC")
	case "views":
		return db.Order("views DESC, questions.created_at DESC")
	case "unanswered":
		return db.
			Where("questions.is_answered = false").
			Order("questions.created_at DESC")
	default: // "newest" and anything unrecognized
		return db.Order("questions.created_at DESC")
	}
}

// applyQuestionDetails adds subqueries fetching vote/answer aggregates and the
// viewer's own vote in a single query.
func (r *questionRepository) applyQuestionDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "questions.*, " +
		"(SELECT COALESCE(SUM(votes.value), 0) FROM votes WHERE votes.target_type = 'question' AND votes.target_id = questions.id) as vote_count, " +
		"(SELECT COUNT(*) FROM answers WHERE answers.question_id = questions.id AND answers.deleted_at IS NULL) as answers_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+
			", (SELECT COALESCE(SUM(votes.value), 0) FROM votes WHERE votes.target_type = 'question' AND votes.target_id = questions.id AND votes.user_id = ?) as user_vote_value",
			currentUserID)
	}
	return db.Select(selectQuery + ", 0 as user_vote_value")
}

func (r *questionRepository) Update(ctx context.Context, question *models.Question) error {
	if err := r.db.WithContext(ctx).Save(question).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.QuestionKey(question.ID))
	cache.InvalidateQuestionsList(ctx)
	return nil
}

func (r *questionRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Question{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.QuestionKey(id))
	cache.InvalidateQuestionsList(ctx)
	return nil
}

// IncrementViews bumps the view counter in a single UPDATE so concurrent
// viewers never lose increments.
func (r *questionRepository) IncrementViews(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.QuestionKey(id))
	return nil
}

// SetAccepted records the accepted answer (or clears it when answerID is nil)
// and keeps is_answered in step.
func (r *questionRepository) SetAccepted(ctx context.Context, questionID uint, answerID *uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ?", questionID).
		Updates(map[string]interface{}{
			"accepted_answer_id": answerID,
			"is_answered":        answerID != nil,
		}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.QuestionKey(questionID))
	return nil
}

func (r *questionRepository) CountByTag(ctx context.Context, tag string) (int64, error) {
	var count int64
	err := readDB(r.db).WithContext(ctx).
		Model(&models.Question{}).
		Where("tags @> ?", fmt.Sprintf("[%q]", tag)).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
