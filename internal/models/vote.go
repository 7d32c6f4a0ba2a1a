package models

import (
	"time"
)

// Vote targets.
const (
	VoteTargetQuestion = "question"
	VoteTargetAnswer   = "answer"
)

// Vote types as they appear on the wire.
const (
	VoteTypeUp   = "upvote"
	VoteTypeDown = "downvote"
)

// Vote is a single user's vote on a question or answer. The unique index
// makes a user's vote per target a single row: toggling flips or removes
// this row, and counters are computed as SUM(value) so concurrent voters
// never clobber each other.
type Vote struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_vote_user_target" json:"user_id"`
	TargetType string    `gorm:"not null;size:16;uniqueIndex:idx_vote_user_target" json:"target_type"`
	TargetID   uint      `gorm:"not null;uniqueIndex:idx_vote_user_target" json:"target_id"`
	Value      int       `gorm:"not null" json:"value"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// VoteValue maps a wire vote type to its numeric value.
func VoteValue(voteType string) (int, error) {
	switch voteType {
	case VoteTypeUp:
		return 1, nil
	case VoteTypeDown:
		return -1, nil
	}
	return 0, NewValidationError("Vote type must be 'upvote' or 'downvote'")
}

// VoteLabel maps a numeric vote value back to its wire name. Zero maps to
// the empty string (no vote).
func VoteLabel(value int) string {
	switch {
	case value > 0:
		return VoteTypeUp
	case value < 0:
		return VoteTypeDown
	}
	return ""
}
