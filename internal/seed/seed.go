// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"stackit/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers     int
	NumQuestions int
	ShouldClean  bool
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d questions...", opts.NumUsers, opts.NumQuestions)

	// Clear existing data to avoid conflicts if requested
	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	if err := Tags(db); err != nil {
		return fmt.Errorf("failed to seed built-in tags: %w", err)
	}

	factory := NewFactory(db, SeedOptions{SkipBcrypt: false, MaxDays: 90})

	users, err := createUsers(factory, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	questions, err := createQuestions(db, factory, users, opts.NumQuestions)
	if err != nil {
		return fmt.Errorf("failed to create questions: %w", err)
	}
	log.Printf("✓ %d questions created", len(questions))

	answers, err := createAnswers(db, factory, users, questions)
	if err != nil {
		return fmt.Errorf("failed to create answers: %w", err)
	}
	log.Printf("✓ %d answers created", len(answers))

	if err := createEngagement(factory, users, questions, answers); err != nil {
		return fmt.Errorf("failed to create votes and comments: %w", err)
	}
	log.Println("✓ votes and comments created")

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE notifications, comments, votes, answers, questions, tags, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(factory *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// Always include some specific users for consistency if cleaning
	if count >= 3 {
		baseUsers := []struct {
			username   string
			role       string
			reputation int
		}{
			{"admin", models.RoleAdmin, 1000},
			{"curious_dev", models.RoleUser, 150},
			{"lurker", models.RoleUser, 0},
		}
		for _, b := range baseUsers {
			user, err := factory.CreateUser(func(u *models.User) {
				u.Username = b.username
				u.Email = fmt.Sprintf("%s@example.com", b.username)
				u.Role = b.role
				u.Reputation = b.reputation
				u.Bio = "One of the founding accounts."
			})
			if err != nil {
				log.Printf("Failed to create user %s: %v", b.username, err)
				continue
			}
			users = append(users, user)
		}
	}

	for i := len(users); i < count; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			log.Printf("Failed to create user %d: %v", i, err)
			continue
		}
		users = append(users, user)

		if i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

func createQuestions(db *gorm.DB, factory *Factory, users []*models.User, count int) ([]*models.Question, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	questions := make([]*models.Question, 0, count)

	for i := 0; i < count; i++ {
		user := users[r.Intn(len(users))]
		tags := pickTags(r)

		question, err := factory.CreateQuestion(user, tags)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)

		// Keep tag usage counters in step with the questions that carry them.
		for _, name := range tags {
			if err := db.Model(&models.Tag{}).Where("name = ?", name).
				UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error; err != nil {
				return nil, err
			}
		}

		if i%100 == 0 {
			log.Printf("Created %d questions...", i)
		}
	}

	return questions, nil
}

func createAnswers(db *gorm.DB, factory *Factory, users []*models.User, questions []*models.Question) ([]*models.Answer, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	answers := make([]*models.Answer, 0, len(questions)*2)

	for _, question := range questions {
		numAnswers := r.Intn(4) // 0 to 3 answers
		var accepted *models.Answer

		for j := 0; j < numAnswers; j++ {
			user := users[r.Intn(len(users))]
			// Question authors do not answer their own seeded questions.
			if user.ID == question.UserID {
				continue
			}

			answer, err := factory.CreateAnswer(user, question)
			if err != nil {
				return nil, err
			}
			answers = append(answers, answer)

			if accepted == nil && answer.IsApproved && r.Float32() < 0.4 {
				accepted = answer
			}
		}

		if accepted != nil {
			if err := db.Model(&models.Answer{}).Where("id = ?", accepted.ID).
				Update("is_accepted", true).Error; err != nil {
				return nil, err
			}
			if err := db.Model(&models.Question{}).Where("id = ?", question.ID).
				Updates(map[string]any{"accepted_answer_id": accepted.ID, "is_answered": true}).Error; err != nil {
				return nil, err
			}
		}
	}

	return answers, nil
}

func createEngagement(factory *Factory, users []*models.User, questions []*models.Question, answers []*models.Answer) error {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	voters := make([]*models.User, 0, len(users))
	commenters := make([]*models.User, 0, len(users))
	for _, u := range users {
		if u.CanVote() {
			voters = append(voters, u)
		}
		if u.CanComment() {
			commenters = append(commenters, u)
		}
	}
	if len(voters) == 0 || len(commenters) == 0 {
		return nil
	}

	voteValue := func() int {
		// Upvotes dominate real traffic.
		if r.Float32() < 0.85 {
			return 1
		}
		return -1
	}

	for _, question := range questions {
		numVotes := r.Intn(6)
		seen := map[uint]bool{question.UserID: true}
		for v := 0; v < numVotes; v++ {
			voter := voters[r.Intn(len(voters))]
			if seen[voter.ID] {
				continue
			}
			seen[voter.ID] = true
			if err := factory.CreateVote(voter, models.VoteTargetQuestion, question.ID, voteValue()); err != nil {
				return err
			}
		}

		if r.Float32() < 0.3 {
			commenter := commenters[r.Intn(len(commenters))]
			if _, err := factory.CreateComment(commenter, question, nil); err != nil {
				return err
			}
		}
	}

	for _, answer := range answers {
		numVotes := r.Intn(4)
		seen := map[uint]bool{answer.UserID: true}
		for v := 0; v < numVotes; v++ {
			voter := voters[r.Intn(len(voters))]
			if seen[voter.ID] {
				continue
			}
			seen[voter.ID] = true
			if err := factory.CreateVote(voter, models.VoteTargetAnswer, answer.ID, voteValue()); err != nil {
				return err
			}
		}

		if r.Float32() < 0.2 {
			commenter := commenters[r.Intn(len(commenters))]
			if _, err := factory.CreateComment(commenter, nil, answer); err != nil {
				return err
			}
		}
	}

	return nil
}

func pickTags(r *rand.Rand) []string {
	count := 1 + r.Intn(3)
	picked := make([]string, 0, count)
	seen := make(map[string]bool, count)
	for len(picked) < count {
		tag := BuiltInTags[r.Intn(len(BuiltInTags))].Name
		if seen[tag] {
			continue
		}
		seen[tag] = true
		picked = append(picked, tag)
	}
	return picked
}
