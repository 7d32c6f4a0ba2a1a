// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"stackit/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions tune how the factory generates and persists data.
type SeedOptions struct {
	// DryRun skips database writes and assigns synthetic IDs instead.
	DryRun bool
	// SkipBcrypt stores plaintext passwords for faster bulk seeding.
	SkipBcrypt bool
	// MaxDays spreads created_at timestamps over this many days back.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, nextID: 1000}
}

func (f *Factory) spreadCreatedAt(r *rand.Rand) time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)
	minsBack := r.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:  gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:     gofakeit.Email(),
		Bio:       gofakeit.Sentence(10),
		AvatarURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Role:      models.RoleUser,
		// Spread reputation so some seeded users clear the voting and
		// commenting thresholds and some do not.
		Reputation: gofakeit.Number(0, 500),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %+v", user)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildQuestion constructs a question struct populated like CreateQuestion
// but does not persist it. Useful for batching.
func (f *Factory) BuildQuestion(user *models.User, tags []string, overrides ...func(*models.Question)) *models.Question {
	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	question := &models.Question{
		Title:   questionTitle(r),
		Content: gofakeit.Paragraph(2, 4, 8, "\n"),
		UserID:  user.ID,
		Tags:    tags,
		Status:  models.QuestionStatusOpen,
		Views:   r.Intn(2000),
	}
	question.CreatedAt = f.spreadCreatedAt(r)

	for _, override := range overrides {
		override(question)
	}
	return question
}

// CreateQuestionsBatch persists multiple questions in a single DB call when possible.
func (f *Factory) CreateQuestionsBatch(questions []*models.Question) error {
	if f.opts.DryRun {
		for _, q := range questions {
			f.nextID++
			q.ID = f.nextID
		}
		log.Printf("[dry-run] CreateQuestionsBatch: %d questions (no DB write)", len(questions))
		return nil
	}
	return f.db.Create(&questions).Error
}

// CreateQuestion constructs and persists a sample `models.Question` for the given user.
func (f *Factory) CreateQuestion(user *models.User, tags []string, overrides ...func(*models.Question)) (*models.Question, error) {
	question := f.BuildQuestion(user, tags, overrides...)

	if f.opts.DryRun {
		f.nextID++
		question.ID = f.nextID
		log.Printf("[dry-run] CreateQuestion: user=%d title=%q tags=%v", question.UserID, question.Title, question.Tags)
		return question, nil
	}

	if err := f.db.Create(question).Error; err != nil {
		return nil, err
	}
	return question, nil
}

// CreateAnswer constructs and persists a sample `models.Answer` on the
// provided question authored by the provided user.
func (f *Factory) CreateAnswer(user *models.User, question *models.Question, overrides ...func(*models.Answer)) (*models.Answer, error) {
	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	answer := &models.Answer{
		Content:    gofakeit.Paragraph(1, 3, 8, "\n"),
		QuestionID: question.ID,
		UserID:     user.ID,
		// Most seeded answers are approved so anonymous browsing has content.
		IsApproved: r.Float32() < 0.8,
	}
	answer.CreatedAt = f.spreadCreatedAt(r)

	for _, override := range overrides {
		override(answer)
	}

	if f.opts.DryRun {
		f.nextID++
		answer.ID = f.nextID
		log.Printf("[dry-run] CreateAnswer: question=%d user=%d", answer.QuestionID, answer.UserID)
		return answer, nil
	}

	if err := f.db.Create(answer).Error; err != nil {
		return nil, err
	}
	return answer, nil
}

// CreateComment constructs and persists a sample `models.Comment` on the
// provided question or answer authored by the provided user. Exactly one of
// question/answer must be non-nil.
func (f *Factory) CreateComment(user *models.User, question *models.Question, answer *models.Answer, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content: gofakeit.Sentence(8),
		UserID:  user.ID,
	}
	if question != nil {
		comment.QuestionID = &question.ID
	}
	if answer != nil {
		comment.AnswerID = &answer.ID
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := comment.Validate(); err != nil {
		return nil, err
	}

	if f.opts.DryRun {
		f.nextID++
		comment.ID = f.nextID
		return comment, nil
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateVote persists a vote from `user` on the given target. Value must be
// +1 or -1.
func (f *Factory) CreateVote(user *models.User, targetType string, targetID uint, value int) error {
	vote := &models.Vote{
		UserID:     user.ID,
		TargetType: targetType,
		TargetID:   targetID,
		Value:      value,
	}
	if f.opts.DryRun {
		return nil
	}
	return f.db.Create(vote).Error
}

var questionOpeners = []string{
	"How do I",
	"What is the idiomatic way to",
	"Why does",
	"Is it possible to",
	"What is the difference between approaches to",
	"Best way to",
}

func questionTitle(r *rand.Rand) string {
	opener := questionOpeners[r.Intn(len(questionOpeners))]
	topic := gofakeit.HackerPhrase()
	title := fmt.Sprintf("%s %s?", opener, topic)
	if len(title) > 200 {
		title = title[:199] + "?"
	}
	return title
}
