package repository

import (
	"context"
	"errors"

	"stackit/internal/cache"
	"stackit/internal/models"

	"gorm.io/gorm"
)

// TagRepository defines persistence operations for tags.
type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	GetByID(ctx context.Context, id uint) (*models.Tag, error)
	GetByName(ctx context.Context, name string) (*models.Tag, error)
	FindOrCreate(ctx context.Context, name string, createdByID uint) (*models.Tag, error)
	List(ctx context.Context, limit, offset int, sort string) ([]*models.Tag, error)
	Popular(ctx context.Context, limit int) ([]*models.Tag, error)
	Search(ctx context.Context, query string, limit int) ([]*models.Tag, error)
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, id uint) error
	IncrementUsage(ctx context.Context, name string) error
	DecrementUsage(ctx context.Context, name string) error
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository returns a new TagRepository implementation.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, tag *models.Tag) error {
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Tag already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateTagsList(ctx)
	return nil
}

func (r *tagRepository) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	err := readDB(r.db).WithContext(ctx).First(&tag, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Tag", id)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &tag, nil
}

// GetByName returns (nil, nil) when the tag does not exist.
func (r *tagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := readDB(r.db).WithContext(ctx).Where("name = ?", name).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &tag, nil
}

// FindOrCreate returns the tag named name, creating it when missing. The
// insert tolerates a concurrent creator: on a unique violation the existing
// row is re-read instead of failing.
func (r *tagRepository) FindOrCreate(ctx context.Context, name string, createdByID uint) (*models.Tag, error) {
	tag, err := r.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if tag != nil {
		return tag, nil
	}

	created := &models.Tag{Name: name}
	if createdByID != 0 {
		created.CreatedByID = &createdByID
	}
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		if isUniqueConstraintError(err) {
			return r.GetByName(ctx, name)
		}
		return nil, models.NewInternalError(err)
	}
	cache.InvalidateTagsList(ctx)
	return created, nil
}

func (r *tagRepository) List(ctx context.Context, limit, offset int, sort string) ([]*models.Tag, error) {
	var tags []*models.Tag
	q := readDB(r.db).WithContext(ctx).Model(&models.Tag{})
	switch sort {
	case "name":
		q = q.Order("name ASC")
	case "new":
		q = q.Order("created_at DESC")
	default: // "popular"
		q = q.Order("usage_count DESC, name ASC")
	}
	if err := q.Limit(limit).Offset(offset).Find(&tags).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

// Popular serves the tag cloud; anonymous-heavy traffic, so it goes through
// the cache.
func (r *tagRepository) Popular(ctx context.Context, limit int) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := cache.Aside(ctx, cache.PopularTagsKey(ctx, limit), &tags, cache.TagTTL, func() error {
		if err := readDB(r.db).WithContext(ctx).
			Where("usage_count > 0").
			Order("usage_count DESC, name ASC").
			Limit(limit).
			Find(&tags).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) Search(ctx context.Context, query string, limit int) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := readDB(r.db).WithContext(ctx).
		Where("name ILIKE ?", "%"+query+"%").
		Order("usage_count DESC").
		Limit(limit).
		Find(&tags).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

func (r *tagRepository) Update(ctx context.Context, tag *models.Tag) error {
	if err := r.db.WithContext(ctx).Save(tag).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("Tag already exists")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateTagsList(ctx)
	return nil
}

func (r *tagRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Tag{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTagsList(ctx)
	return nil
}

// IncrementUsage bumps the usage counter in a single UPDATE.
func (r *tagRepository) IncrementUsage(ctx context.Context, name string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Where("name = ?", name).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTagsList(ctx)
	return nil
}

// DecrementUsage lowers the usage counter, clamped at zero in SQL so racing
// decrements can never drive it negative.
func (r *tagRepository) DecrementUsage(ctx context.Context, name string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Where("name = ?", name).
		UpdateColumn("usage_count", gorm.Expr("CASE WHEN usage_count > 0 THEN usage_count - 1 ELSE 0 END")).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTagsList(ctx)
	return nil
}
