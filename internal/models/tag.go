package models

import (
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

var tagNamePattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// NormalizeTagName lowercases and trims a tag name for storage and lookup.
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ValidTagName reports whether name (already normalized) is a legal tag:
// 2-30 chars, lowercase letters, digits and hyphens.
func ValidTagName(name string) bool {
	if len(name) < 2 || len(name) > 30 {
		return false
	}
	return tagNamePattern.MatchString(name)
}

// Tag is a curated topic label. UsageCount tracks how many live questions
// reference the tag; it is adjusted with atomic SQL and never goes below zero.
type Tag struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;not null;size:30" json:"name"`
	Description string `gorm:"size:500" json:"description"`
	UsageCount  int    `gorm:"not null;default:0" json:"usage_count"`
	CreatedByID *uint  `gorm:"index" json:"created_by_id,omitempty"`
	// QuestionsCount is not persisted; filled by list queries that also
	// count live questions carrying the tag.
	QuestionsCount int            `gorm:"->" json:"questions_count,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
