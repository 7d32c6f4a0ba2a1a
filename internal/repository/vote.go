package repository

import (
	"context"
	"errors"

	"stackit/internal/models"

	"gorm.io/gorm"
)

// VoteRepository defines persistence operations for votes. A user's vote on
// a target is a single row; Set upserts it atomically so concurrent toggles
// converge on one of the submitted states instead of corrupting counters.
type VoteRepository interface {
	Get(ctx context.Context, userID uint, targetType string, targetID uint) (*models.Vote, error)
	Set(ctx context.Context, userID uint, targetType string, targetID uint, value int) error
	Delete(ctx context.Context, userID uint, targetType string, targetID uint) error
	Count(ctx context.Context, targetType string, targetID uint) (int, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository returns a new VoteRepository implementation.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// Get returns (nil, nil) when the user has no vote on the target.
func (r *voteRepository) Get(ctx context.Context, userID uint, targetType string, targetID uint) (*models.Vote, error) {
	var vote models.Vote
	err := readDB(r.db).WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &vote, nil
}

// Set writes the user's vote with INSERT ... ON CONFLICT DO UPDATE against
// the (user_id, target_type, target_id) unique index. Atomic, so two racing
// requests both land on a valid single-row state.
func (r *voteRepository) Set(ctx context.Context, userID uint, targetType string, targetID uint, value int) error {
	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO votes (user_id, target_type, target_id, value, created_at, updated_at)
		 VALUES (?, ?, ?, ?, NOW(), NOW())
		 ON CONFLICT (user_id, target_type, target_id)
		 DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		userID, targetType, targetID, value,
	).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the user's vote. A no-op when none exists.
func (r *voteRepository) Delete(ctx context.Context, userID uint, targetType string, targetID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Delete(&models.Vote{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Count returns the target's score as SUM(value) over its vote rows.
func (r *voteRepository) Count(ctx context.Context, targetType string, targetID uint) (int, error) {
	var total int
	err := readDB(r.db).WithContext(ctx).
		Model(&models.Vote{}).
		Select("COALESCE(SUM(value), 0)").
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Scan(&total).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return total, nil
}
