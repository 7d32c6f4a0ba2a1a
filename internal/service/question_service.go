package service

import (
	"context"
	"strings"

	"stackit/internal/cache"
	"stackit/internal/models"
	"stackit/internal/repository"
)

// Question validation limits.
const (
	minQuestionTitleLen   = 10
	maxQuestionTitleLen   = 200
	minQuestionContentLen = 20
	minQuestionTags       = 1
	maxQuestionTags       = 5
)

// CreateQuestionInput carries the fields for posting a question.
type CreateQuestionInput struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// UpdateQuestionInput carries the editable fields of a question. Nil pointers
// leave the field untouched; a non-nil Tags replaces the tag set.
type UpdateQuestionInput struct {
	Title   *string  `json:"title"`
	Content *string  `json:"content"`
	Tags    []string `json:"tags"`
	Status  *string  `json:"status"`
}

// QuestionService implements question business logic: validation, tag
// lifecycle bookkeeping, authorization and the vote toggle.
type QuestionService struct {
	questions     repository.QuestionRepository
	answers       repository.AnswerRepository
	tags          repository.TagRepository
	votes         repository.VoteRepository
	users         repository.UserRepository
	notifications *NotificationService
	isAdmin       func(ctx context.Context, userID uint) (bool, error)
}

// NewQuestionService creates a QuestionService.
func NewQuestionService(
	questions repository.QuestionRepository,
	answers repository.AnswerRepository,
	tags repository.TagRepository,
	votes repository.VoteRepository,
	users repository.UserRepository,
	notifications *NotificationService,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *QuestionService {
	return &QuestionService{
		questions:     questions,
		answers:       answers,
		tags:          tags,
		votes:         votes,
		users:         users,
		notifications: notifications,
		isAdmin:       isAdmin,
	}
}

// normalizePage clamps paging parameters to sane bounds.
func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// normalizeTags lowercases, trims, dedupes and validates a tag list.
func normalizeTags(raw []string) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	tags := make([]string, 0, len(raw))
	for _, name := range raw {
		name = models.NormalizeTagName(name)
		if name == "" {
			continue
		}
		if !models.ValidTagName(name) {
			return nil, models.NewValidationError("Invalid tag name: " + name)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		tags = append(tags, name)
	}
	if len(tags) < minQuestionTags {
		return nil, models.NewValidationError("At least one tag is required")
	}
	if len(tags) > maxQuestionTags {
		return nil, models.NewValidationError("A question can carry at most 5 tags")
	}
	return tags, nil
}

func validateQuestionTitle(title string) error {
	n := len(strings.TrimSpace(title))
	if n < minQuestionTitleLen || n > maxQuestionTitleLen {
		return models.NewValidationError("Title must be between 10 and 200 characters")
	}
	return nil
}

func validateQuestionContent(content string) error {
	if len(strings.TrimSpace(content)) < minQuestionContentLen {
		return models.NewValidationError("Content must be at least 20 characters")
	}
	return nil
}

// CreateQuestion validates and persists a question, materializing its tags
// and bumping their usage counters.
func (s *QuestionService) CreateQuestion(ctx context.Context, userID uint, input CreateQuestionInput) (*models.Question, error) {
	if err := validateQuestionTitle(input.Title); err != nil {
		return nil, err
	}
	if err := validateQuestionContent(input.Content); err != nil {
		return nil, err
	}
	tags, err := normalizeTags(input.Tags)
	if err != nil {
		return nil, err
	}

	question := &models.Question{
		Title:   strings.TrimSpace(input.Title),
		Content: input.Content,
		UserID:  userID,
		Tags:    tags,
		Status:  models.QuestionStatusOpen,
	}
	if err := s.questions.Create(ctx, question); err != nil {
		return nil, err
	}

	for _, name := range tags {
		if _, err := s.tags.FindOrCreate(ctx, name, userID); err != nil {
			return nil, err
		}
		if err := s.tags.IncrementUsage(ctx, name); err != nil {
			return nil, err
		}
	}

	return s.questions.GetByID(ctx, question.ID, userID)
}

// GetQuestion returns a question, counting the read as a view.
func (s *QuestionService) GetQuestion(ctx context.Context, id uint, viewerID uint) (*models.Question, error) {
	if err := s.questions.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	return s.questions.GetByID(ctx, id, viewerID)
}

// ListQuestions returns a page of questions for the requested sort and filter.
func (s *QuestionService) ListQuestions(ctx context.Context, filter repository.QuestionFilter, sort string, limit, offset int, viewerID uint) ([]*models.Question, error) {
	limit, offset = normalizePage(limit, offset)
	return s.questions.List(ctx, filter, sort, limit, offset, viewerID)
}

// SearchQuestions runs a substring search over titles and bodies.
func (s *QuestionService) SearchQuestions(ctx context.Context, query string, limit, offset int, viewerID uint) ([]*models.Question, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	limit, offset = normalizePage(limit, offset)
	return s.questions.Search(ctx, query, limit, offset, viewerID)
}

// canModerate reports whether userID owns the resource or is an admin.
func (s *QuestionService) canModerate(ctx context.Context, ownerID, userID uint) (bool, error) {
	if ownerID == userID {
		return true, nil
	}
	return s.isAdmin(ctx, userID)
}

// UpdateQuestion edits a question. Only the owner or an admin may edit; a tag
// change adjusts usage counters for the diff.
func (s *QuestionService) UpdateQuestion(ctx context.Context, id, userID uint, input UpdateQuestionInput) (*models.Question, error) {
	question, err := s.questions.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.canModerate(ctx, question.UserID, userID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, models.NewUnauthorizedError("You can only edit your own questions")
	}

	if input.Title != nil {
		if err := validateQuestionTitle(*input.Title); err != nil {
			return nil, err
		}
		question.Title = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		if err := validateQuestionContent(*input.Content); err != nil {
			return nil, err
		}
		question.Content = *input.Content
	}
	if input.Status != nil {
		if !models.ValidQuestionStatus(*input.Status) {
			return nil, models.NewValidationError("Invalid question status")
		}
		question.Status = *input.Status
	}
	if input.Tags != nil {
		newTags, err := normalizeTags(input.Tags)
		if err != nil {
			return nil, err
		}
		if err := s.reconcileTags(ctx, question.Tags, newTags, userID); err != nil {
			return nil, err
		}
		question.Tags = newTags
	}

	if err := s.questions.Update(ctx, question); err != nil {
		return nil, err
	}
	return s.questions.GetByID(ctx, id, userID)
}

// reconcileTags adjusts usage counters for a tag-set change: added tags are
// materialized and incremented, removed ones decremented.
func (s *QuestionService) reconcileTags(ctx context.Context, oldTags, newTags []string, userID uint) error {
	old := make(map[string]struct{}, len(oldTags))
	for _, name := range oldTags {
		old[name] = struct{}{}
	}
	next := make(map[string]struct{}, len(newTags))
	for _, name := range newTags {
		next[name] = struct{}{}
	}

	for _, name := range newTags {
		if _, kept := old[name]; kept {
			continue
		}
		if _, err := s.tags.FindOrCreate(ctx, name, userID); err != nil {
			return err
		}
		if err := s.tags.IncrementUsage(ctx, name); err != nil {
			return err
		}
	}
	for _, name := range oldTags {
		if _, kept := next[name]; kept {
			continue
		}
		if err := s.tags.DecrementUsage(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// DeleteQuestion removes a question (owner or admin) and releases its tags.
func (s *QuestionService) DeleteQuestion(ctx context.Context, id, userID uint) error {
	question, err := s.questions.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	allowed, err := s.canModerate(ctx, question.UserID, userID)
	if err != nil {
		return err
	}
	if !allowed {
		return models.NewUnauthorizedError("You can only delete your own questions")
	}

	if err := s.questions.Delete(ctx, id); err != nil {
		return err
	}
	for _, name := range question.Tags {
		if err := s.tags.DecrementUsage(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// VoteQuestion applies the vote toggle to a question. Self-votes are
// rejected; the voter must clear the reputation bar.
func (s *QuestionService) VoteQuestion(ctx context.Context, questionID, voterID uint, voteType string) (*VoteResult, error) {
	question, err := s.questions.GetByID(ctx, questionID, voterID)
	if err != nil {
		return nil, err
	}
	if question.UserID == voterID {
		return nil, models.NewValidationError("You cannot vote on your own question")
	}
	if _, err := requireVoter(ctx, s.users, voterID); err != nil {
		return nil, err
	}

	result, outcome, err := applyVoteToggle(ctx, s.votes, voterID, models.VoteTargetQuestion, questionID, voteType)
	if err != nil {
		return nil, err
	}

	// The anonymous read path caches questions with their score baked in.
	cache.Invalidate(ctx, cache.QuestionKey(questionID))
	cache.InvalidateQuestionsList(ctx)

	if outcome != voteOutcomeRetracted {
		s.notifications.NotifyQuestionVote(ctx, question, voterID, voteType)
	}
	return result, nil
}
