package seed

import (
	"fmt"

	"stackit/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BuiltInTag is a permanent curated tag available from first boot.
type BuiltInTag struct {
	Name        string
	Description string
}

// BuiltInTags defines the curated baseline tag set. Seeding is idempotent:
// re-running refreshes descriptions without touching usage counts.
var BuiltInTags = []BuiltInTag{
	{Name: "go", Description: "The Go programming language."},
	{Name: "javascript", Description: "JavaScript in browsers and on servers."},
	{Name: "typescript", Description: "Typed superset of JavaScript."},
	{Name: "python", Description: "The Python programming language."},
	{Name: "rust", Description: "The Rust programming language."},
	{Name: "sql", Description: "Structured Query Language and relational queries."},
	{Name: "postgresql", Description: "PostgreSQL database administration and queries."},
	{Name: "redis", Description: "Redis data structures, caching, and pub/sub."},
	{Name: "docker", Description: "Containers, images, and Docker tooling."},
	{Name: "kubernetes", Description: "Container orchestration with Kubernetes."},
	{Name: "react", Description: "The React UI library."},
	{Name: "api-design", Description: "Designing HTTP and RPC APIs."},
	{Name: "concurrency", Description: "Threads, goroutines, locks, and races."},
	{Name: "testing", Description: "Unit, integration, and end-to-end testing."},
	{Name: "performance", Description: "Profiling, benchmarking, and optimization."},
	{Name: "security", Description: "Application and infrastructure security."},
}

// Tags seeds the permanent built-in tags.
func Tags(db *gorm.DB) error {
	for _, item := range BuiltInTags {
		tag := models.Tag{
			Name:        item.Name,
			Description: item.Description,
		}

		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "updated_at"}),
		}).Create(&tag).Error
		if err != nil {
			return fmt.Errorf("seed built-in tag %s: %w", item.Name, err)
		}
	}

	return nil
}
