package models

import (
	"time"

	"gorm.io/gorm"
)

// Answer represents an answer to a question. At most one answer per question
// carries IsAccepted; IsApproved is an orthogonal visibility gate controlled
// by the question owner. New answers are always created unapproved.
type Answer struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	Content    string   `gorm:"type:text;not null" json:"content"`
	QuestionID uint     `gorm:"not null;index" json:"question_id"`
	Question   Question `gorm:"foreignKey:QuestionID" json:"-"`
	UserID     uint     `gorm:"not null;index" json:"user_id"`
	User       User     `gorm:"foreignKey:UserID" json:"user"`
	IsAccepted bool     `gorm:"not null;default:false;index" json:"is_accepted"`
	IsApproved bool     `gorm:"not null;default:false" json:"is_approved"`
	IsEdited   bool     `gorm:"not null;default:false" json:"is_edited"`
	// VoteCount is not persisted; computed at query time as SUM(votes.value)
	VoteCount int `gorm:"->" json:"vote_count"`
	// UserVoteValue is not persisted; the viewer's own vote value selected
	// alongside the aggregates.
	UserVoteValue int `gorm:"->;column:user_vote_value" json:"-"`
	// UserVote is the wire form of UserVoteValue; filled in by the repository.
	UserVote  string         `gorm:"-" json:"user_vote,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// VisibleTo applies the approval gate: the question owner sees everything,
// other viewers see approved answers plus their own, anonymous viewers
// (viewerID == 0) see approved answers only.
func (a *Answer) VisibleTo(viewerID, questionOwnerID uint) bool {
	if a.IsApproved {
		return true
	}
	if viewerID == 0 {
		return false
	}
	return viewerID == questionOwnerID || viewerID == a.UserID
}
