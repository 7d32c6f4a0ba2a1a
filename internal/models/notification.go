package models

import (
	"time"
)

// Notification types.
const (
	NotificationQuestionAnswer   = "question_answer"
	NotificationAnswerComment    = "answer_comment"
	NotificationQuestionComment  = "question_comment"
	NotificationAnswerAccepted   = "answer_accepted"
	NotificationAnswerVote       = "answer_vote"
	NotificationQuestionVote     = "question_vote"
	NotificationMention          = "mention"
	NotificationReputationChange = "reputation_change"
)

// Notification is a persisted event for a user's inbox. A copy is also
// published to the recipient's Redis channel for live delivery; persistence
// is the source of truth and live delivery is best-effort.
type Notification struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	RecipientID uint   `gorm:"not null;index" json:"recipient_id"`
	SenderID    *uint  `gorm:"index" json:"sender_id,omitempty"`
	Sender      *User  `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Type        string `gorm:"not null;size:32" json:"type"`
	Title       string `gorm:"not null;size:200" json:"title"`
	Message     string `gorm:"not null;size:500" json:"message"`
	QuestionID  *uint  `gorm:"index" json:"question_id,omitempty"`
	AnswerID    *uint  `json:"answer_id,omitempty"`
	CommentID   *uint  `json:"comment_id,omitempty"`
	IsRead      bool   `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
