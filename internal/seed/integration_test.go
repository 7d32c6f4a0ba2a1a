//go:build integration

package seed

import (
	"net/url"
	"os"
	"strings"
	"testing"

	"stackit/internal/config"
	"stackit/internal/database"
	"stackit/internal/models"
)

func parseDatabaseURLToConfig(dsn string) (*config.Config, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, err
	}
	password := ""
	if u.User != nil {
		password, _ = u.User.Password()
	}
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "5432"
	}
	dbname := strings.TrimPrefix(u.Path, "/")
	cfg := &config.Config{
		DBHost:       host,
		DBPort:       port,
		DBUser:       u.User.Username(),
		DBPassword:   password,
		DBName:       dbname,
		DBSSLMode:    "disable",
		Env:          "test",
		DBSchemaMode: "auto",
	}
	return cfg, nil
}

func TestIntegration_SeedTagsIdempotent(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration seed test")
	}
	cfg, err := parseDatabaseURLToConfig(dsn)
	if err != nil {
		t.Fatalf("failed parse dsn: %v", err)
	}
	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: true})
	if err != nil {
		t.Fatalf("db connect failed: %v", err)
	}
	if clearErr := clearData(db); clearErr != nil {
		t.Fatalf("clear failed: %v", clearErr)
	}

	if err := Tags(db); err != nil {
		t.Fatalf("first tag seed failed: %v", err)
	}
	if err := Tags(db); err != nil {
		t.Fatalf("second tag seed failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.Tag{}).Count(&count).Error; err != nil {
		t.Fatalf("count tags: %v", err)
	}
	if count != int64(len(BuiltInTags)) {
		t.Fatalf("expected %d tags after re-seed, got %d", len(BuiltInTags), count)
	}
}

func TestIntegration_SeedSmallDataset(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration seed test")
	}
	cfg, err := parseDatabaseURLToConfig(dsn)
	if err != nil {
		t.Fatalf("failed parse dsn: %v", err)
	}
	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: true})
	if err != nil {
		t.Fatalf("db connect failed: %v", err)
	}

	if err := Seed(db, Options{NumUsers: 10, NumQuestions: 20, ShouldClean: true}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	var users, questions int64
	if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if err := db.Model(&models.Question{}).Count(&questions).Error; err != nil {
		t.Fatalf("count questions: %v", err)
	}
	if users == 0 || questions == 0 {
		t.Fatalf("expected seeded data, got %d users and %d questions", users, questions)
	}
}
