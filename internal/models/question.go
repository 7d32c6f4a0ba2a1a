package models

import (
	"time"

	"gorm.io/gorm"
)

// Question statuses.
const (
	QuestionStatusOpen      = "open"
	QuestionStatusClosed    = "closed"
	QuestionStatusDuplicate = "duplicate"
	QuestionStatusOnHold    = "on-hold"
)

// ValidQuestionStatus reports whether s is one of the known statuses.
func ValidQuestionStatus(s string) bool {
	switch s {
	case QuestionStatusOpen, QuestionStatusClosed, QuestionStatusDuplicate, QuestionStatusOnHold:
		return true
	}
	return false
}

// Question represents a question post. Tag names are denormalized onto the
// question (renaming a tag does not rewrite existing questions). Vote and
// answer counts are aggregates over the votes/answers tables, selected at
// query time; they are never written directly.
type Question struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Title            string         `gorm:"not null;size:200" json:"title"`
	Content          string         `gorm:"type:text;not null" json:"content"`
	UserID           uint           `gorm:"not null;index" json:"user_id"`
	User             User           `gorm:"foreignKey:UserID" json:"user"`
	Tags             []string       `gorm:"serializer:json;type:jsonb" json:"tags"`
	Views            int            `gorm:"not null;default:0" json:"views"`
	IsAnswered       bool           `gorm:"not null;default:false" json:"is_answered"`
	AcceptedAnswerID *uint          `gorm:"index" json:"accepted_answer_id,omitempty"`
	Status           string         `gorm:"not null;default:open;size:16" json:"status"`
	LastActivity     time.Time      `gorm:"index" json:"last_activity"`
	// VoteCount is not persisted; computed at query time as SUM(votes.value)
	VoteCount int `gorm:"->" json:"vote_count"`
	// AnswersCount is not persisted; computed at query time
	AnswersCount int `gorm:"->" json:"answers_count"`
	// UserVoteValue is not persisted; the viewer's own vote value selected
	// alongside the aggregates.
	UserVoteValue int `gorm:"->;column:user_vote_value" json:"-"`
	// UserVote is the wire form of UserVoteValue ("upvote", "downvote" or
	// empty); filled in by the repository.
	UserVote  string         `gorm:"-" json:"user_vote,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeSave keeps LastActivity current on every write.
func (q *Question) BeforeSave(*gorm.DB) error {
	q.LastActivity = time.Now().UTC()
	return nil
}
