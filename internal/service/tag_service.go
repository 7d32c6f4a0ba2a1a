package service

import (
	"context"
	"strings"

	"stackit/internal/models"
	"stackit/internal/repository"
)

// TagService implements tag browsing and the admin-curated tag catalog.
type TagService struct {
	tags      repository.TagRepository
	questions repository.QuestionRepository
}

// NewTagService creates a TagService.
func NewTagService(tags repository.TagRepository, questions repository.QuestionRepository) *TagService {
	return &TagService{tags: tags, questions: questions}
}

// ListTags returns a page of tags for the requested sort ("popular", "name"
// or "new").
func (s *TagService) ListTags(ctx context.Context, sort string, limit, offset int) ([]*models.Tag, error) {
	limit, offset = normalizePage(limit, offset)
	return s.tags.List(ctx, limit, offset, sort)
}

// PopularTags returns the most used tags for the tag cloud.
func (s *TagService) PopularTags(ctx context.Context, limit int) ([]*models.Tag, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	return s.tags.Popular(ctx, limit)
}

// GetTag returns one tag with its live question count attached.
func (s *TagService) GetTag(ctx context.Context, name string) (*models.Tag, error) {
	name = models.NormalizeTagName(name)
	tag, err := s.tags.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, models.NewNotFoundError("Tag", name)
	}

	count, err := s.questions.CountByTag(ctx, name)
	if err != nil {
		return nil, err
	}
	tag.QuestionsCount = int(count)
	return tag, nil
}

// SearchTags runs a substring search over tag names.
func (s *TagService) SearchTags(ctx context.Context, query string, limit int) ([]*models.Tag, error) {
	query = models.NormalizeTagName(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.tags.Search(ctx, query, limit)
}

// CreateTag adds a curated tag. Admin handlers guard the call.
func (s *TagService) CreateTag(ctx context.Context, name, description string, createdByID uint) (*models.Tag, error) {
	name = models.NormalizeTagName(name)
	if !models.ValidTagName(name) {
		return nil, models.NewValidationError("Invalid tag name: " + name)
	}
	if len(description) > 500 {
		return nil, models.NewValidationError("Description too long (max 500 characters)")
	}

	tag := &models.Tag{Name: name, Description: strings.TrimSpace(description)}
	if createdByID != 0 {
		tag.CreatedByID = &createdByID
	}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// UpdateTag edits a tag's description. Renames are not supported: tag names
// are denormalized onto questions.
func (s *TagService) UpdateTag(ctx context.Context, id uint, description string) (*models.Tag, error) {
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(description) > 500 {
		return nil, models.NewValidationError("Description too long (max 500 characters)")
	}

	tag.Description = strings.TrimSpace(description)
	if err := s.tags.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteTag removes an unused tag; a tag still carried by questions is
// rejected.
func (s *TagService) DeleteTag(ctx context.Context, id uint) error {
	tag, err := s.tags.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if tag.UsageCount > 0 {
		return models.NewValidationError("Cannot delete a tag that is still in use")
	}
	return s.tags.Delete(ctx, id)
}
