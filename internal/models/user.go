package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Reputation thresholds gating community actions. Admins bypass both.
const (
	MinVoteReputation    = 15
	MinCommentReputation = 5
)

// User represents a registered StackIt account.
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Username   string         `gorm:"uniqueIndex;not null;size:30" json:"username"`
	Email      string         `gorm:"uniqueIndex;not null" json:"email"`
	Password   string         `gorm:"not null" json:"-"`
	Bio        string         `gorm:"size:500" json:"bio"`
	AvatarURL  string         `json:"avatar_url"`
	Role       string         `gorm:"not null;default:user;size:16" json:"role"`
	Reputation int            `gorm:"not null;default:0" json:"reputation"`
	IsVerified bool           `gorm:"not null;default:false" json:"is_verified"`
	// IsOnline mirrors live websocket presence; it is stamped per response
	// and never persisted.
	IsOnline bool      `gorm:"-" json:"is_online"`
	LastSeen time.Time `json:"last_seen"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanVote reports whether the user clears the voting reputation bar.
func (u *User) CanVote() bool {
	return u.IsAdmin() || u.Reputation >= MinVoteReputation
}

// CanComment reports whether the user clears the commenting reputation bar.
func (u *User) CanComment() bool {
	return u.IsAdmin() || u.Reputation >= MinCommentReputation
}
