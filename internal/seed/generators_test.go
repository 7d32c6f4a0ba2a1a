package seed

import (
	"testing"
	"time"

	"stackit/internal/models"
)

func TestBuildQuestion_TimestampsAndShape(t *testing.T) {
	opts := SeedOptions{DryRun: true, MaxDays: 30}
	f := NewFactory(nil, opts)
	user := &models.User{ID: 1}

	q := f.BuildQuestion(user, []string{"go", "testing"})
	if q.Title == "" {
		t.Fatalf("expected a generated title")
	}
	if len(q.Title) > 200 {
		t.Fatalf("title exceeds limit: %d chars", len(q.Title))
	}
	if q.Status != models.QuestionStatusOpen {
		t.Fatalf("expected open status, got %q", q.Status)
	}
	if len(q.Tags) != 2 {
		t.Fatalf("expected tags to pass through, got %v", q.Tags)
	}

	// timestamp should be within MaxDays
	if time.Since(q.CreatedAt) > (time.Duration(opts.MaxDays)+1)*24*time.Hour {
		t.Fatalf("created_at too old: %v", q.CreatedAt)
	}
}

func TestCreateUser_DryRunAssignsSyntheticIDs(t *testing.T) {
	f := NewFactory(nil, SeedOptions{DryRun: true, SkipBcrypt: true})

	u1, err := f.CreateUser()
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	u2, err := f.CreateUser()
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u1.ID == 0 || u2.ID == 0 || u1.ID == u2.ID {
		t.Fatalf("expected distinct synthetic IDs, got %d and %d", u1.ID, u2.ID)
	}
	if u1.Role != models.RoleUser {
		t.Fatalf("expected default role %q, got %q", models.RoleUser, u1.Role)
	}
}

func TestCreateComment_RequiresExactlyOneParent(t *testing.T) {
	f := NewFactory(nil, SeedOptions{DryRun: true})
	user := &models.User{ID: 1}

	if _, err := f.CreateComment(user, nil, nil); err == nil {
		t.Fatalf("expected error for comment with no parent")
	}

	q := &models.Question{ID: 10}
	a := &models.Answer{ID: 20}
	if _, err := f.CreateComment(user, q, a); err == nil {
		t.Fatalf("expected error for comment with two parents")
	}

	if _, err := f.CreateComment(user, q, nil); err != nil {
		t.Fatalf("question comment should be valid: %v", err)
	}
}
