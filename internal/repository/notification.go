package repository

import (
	"context"
	"errors"

	"stackit/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository defines persistence operations for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	ListByRecipient(ctx context.Context, recipientID uint, unreadOnly bool, limit, offset int) ([]*models.Notification, error)
	CountUnread(ctx context.Context, recipientID uint) (int64, error)
	MarkRead(ctx context.Context, id, recipientID uint) error
	MarkAllRead(ctx context.Context, recipientID uint) error
	Delete(ctx context.Context, id, recipientID uint) error
	DeleteAll(ctx context.Context, recipientID uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository returns a new NotificationRepository implementation.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(n).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var n models.Notification
	err := readDB(r.db).WithContext(ctx).Preload("Sender").First(&n, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Notification", id)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &n, nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID uint, unreadOnly bool, limit, offset int) ([]*models.Notification, error) {
	var notifications []*models.Notification
	q := readDB(r.db).WithContext(ctx).
		Preload("Sender").
		Where("recipient_id = ?", recipientID)
	if unreadOnly {
		q = q.Where("is_read = false")
	}
	err := q.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return notifications, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := readDB(r.db).WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = false", recipientID).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// MarkRead scopes the update to the recipient so users cannot touch other
// inboxes. Reports not-found when the row does not exist or is not theirs.
func (r *notificationRepository) MarkRead(ctx context.Context, id, recipientID uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Notification", id)
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = false", recipientID).
		Update("is_read", true).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, id, recipientID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Delete(&models.Notification{})
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Notification", id)
	}
	return nil
}

func (r *notificationRepository) DeleteAll(ctx context.Context, recipientID uint) error {
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Delete(&models.Notification{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
