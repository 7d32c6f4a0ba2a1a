package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a short remark attached to exactly one question or one answer.
type Comment struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Content    string         `gorm:"not null;size:500" json:"content"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	User       User           `gorm:"foreignKey:UserID" json:"user"`
	QuestionID *uint          `gorm:"index" json:"question_id,omitempty"`
	AnswerID   *uint          `gorm:"index" json:"answer_id,omitempty"`
	IsEdited   bool           `gorm:"not null;default:false" json:"is_edited"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// Validate enforces the question-xor-answer parent rule and content bounds.
func (c *Comment) Validate() error {
	if (c.QuestionID == nil) == (c.AnswerID == nil) {
		return NewValidationError("Comment must target exactly one question or answer")
	}
	if n := len(c.Content); n < 2 || n > 500 {
		return NewValidationError("Comment must be between 2 and 500 characters")
	}
	return nil
}
