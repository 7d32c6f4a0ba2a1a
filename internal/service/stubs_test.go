package service

import (
	"context"
	"testing"

	"stackit/internal/models"
	"stackit/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.CodeOf(err))
}

func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, models.CodeUnauthorized, models.CodeOf(err))
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.CodeOf(err))
}

// --- user repository stub ---

type userRepoStub struct {
	getByIDFn          func(context.Context, uint) (*models.User, error)
	getByEmailFn       func(context.Context, string) (*models.User, error)
	getByUsernameFn    func(context.Context, string) (*models.User, error)
	createFn           func(context.Context, *models.User) error
	updateFn           func(context.Context, *models.User) error
	updateRoleFn       func(context.Context, uint, string) error
	adjustReputationFn func(context.Context, uint, int) error
	touchLastSeenFn    func(context.Context, uint) error
	deleteFn           func(context.Context, uint) error
	listFn             func(context.Context, int, int) ([]models.User, error)
	searchFn           func(context.Context, string, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) UpdateRole(ctx context.Context, id uint, role string) error {
	return s.updateRoleFn(ctx, id, role)
}
func (s *userRepoStub) AdjustReputation(ctx context.Context, id uint, delta int) error {
	return s.adjustReputationFn(ctx, id, delta)
}
func (s *userRepoStub) TouchLastSeen(ctx context.Context, id uint) error {
	return s.touchLastSeenFn(ctx, id)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) Search(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	return s.searchFn(ctx, query, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:          func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:       func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:           func(_ context.Context, _ *models.User) error { return nil },
		updateFn:           func(_ context.Context, _ *models.User) error { return nil },
		updateRoleFn:       func(_ context.Context, _ uint, _ string) error { return nil },
		adjustReputationFn: func(_ context.Context, _ uint, _ int) error { return nil },
		touchLastSeenFn:    func(_ context.Context, _ uint) error { return nil },
		deleteFn:           func(_ context.Context, _ uint) error { return nil },
		listFn:             func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
		searchFn:           func(_ context.Context, _ string, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

// --- question repository stub ---

type questionRepoStub struct {
	createFn         func(context.Context, *models.Question) error
	getByIDFn        func(context.Context, uint, uint) (*models.Question, error)
	listFn           func(context.Context, repository.QuestionFilter, string, int, int, uint) ([]*models.Question, error)
	searchFn         func(context.Context, string, int, int, uint) ([]*models.Question, error)
	updateFn         func(context.Context, *models.Question) error
	deleteFn         func(context.Context, uint) error
	incrementViewsFn func(context.Context, uint) error
	setAcceptedFn    func(context.Context, uint, *uint) error
	countByTagFn     func(context.Context, string) (int64, error)
}

func (s *questionRepoStub) Create(ctx context.Context, q *models.Question) error {
	return s.createFn(ctx, q)
}
func (s *questionRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Question, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *questionRepoStub) List(ctx context.Context, filter repository.QuestionFilter, sort string, limit, offset int, currentUserID uint) ([]*models.Question, error) {
	return s.listFn(ctx, filter, sort, limit, offset, currentUserID)
}
func (s *questionRepoStub) Search(ctx context.Context, query string, limit, offset int, currentUserID uint) ([]*models.Question, error) {
	return s.searchFn(ctx, query, limit, offset, currentUserID)
}
func (s *questionRepoStub) Update(ctx context.Context, q *models.Question) error {
	return s.updateFn(ctx, q)
}
func (s *questionRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *questionRepoStub) IncrementViews(ctx context.Context, id uint) error {
	return s.incrementViewsFn(ctx, id)
}
func (s *questionRepoStub) SetAccepted(ctx context.Context, questionID uint, answerID *uint) error {
	return s.setAcceptedFn(ctx, questionID, answerID)
}
func (s *questionRepoStub) CountByTag(ctx context.Context, tag string) (int64, error) {
	return s.countByTagFn(ctx, tag)
}

func noopQuestionRepo() *questionRepoStub {
	return &questionRepoStub{
		createFn: func(_ context.Context, _ *models.Question) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Question, error) {
			return &models.Question{ID: id, Status: models.QuestionStatusOpen}, nil
		},
		listFn: func(_ context.Context, _ repository.QuestionFilter, _ string, _, _ int, _ uint) ([]*models.Question, error) {
			return nil, nil
		},
		searchFn: func(_ context.Context, _ string, _, _ int, _ uint) ([]*models.Question, error) {
			return nil, nil
		},
		updateFn:         func(_ context.Context, _ *models.Question) error { return nil },
		deleteFn:         func(_ context.Context, _ uint) error { return nil },
		incrementViewsFn: func(_ context.Context, _ uint) error { return nil },
		setAcceptedFn:    func(_ context.Context, _ uint, _ *uint) error { return nil },
		countByTagFn:     func(_ context.Context, _ string) (int64, error) { return 0, nil },
	}
}

// --- answer repository stub ---

type answerRepoStub struct {
	createFn                   func(context.Context, *models.Answer) error
	getByIDFn                  func(context.Context, uint, uint) (*models.Answer, error)
	listByQuestionFn           func(context.Context, uint, uint) ([]*models.Answer, error)
	listByUserFn               func(context.Context, uint, int, int, bool) ([]*models.Answer, error)
	updateFn                   func(context.Context, *models.Answer) error
	deleteFn                   func(context.Context, uint) error
	setAcceptedFn              func(context.Context, uint, bool) error
	clearAcceptedForQuestionFn func(context.Context, uint) error
	setApprovedFn              func(context.Context, uint, bool) error
}

func (s *answerRepoStub) Create(ctx context.Context, a *models.Answer) error {
	return s.createFn(ctx, a)
}
func (s *answerRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Answer, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *answerRepoStub) ListByQuestion(ctx context.Context, questionID, currentUserID uint) ([]*models.Answer, error) {
	return s.listByQuestionFn(ctx, questionID, currentUserID)
}
func (s *answerRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int, approvedOnly bool) ([]*models.Answer, error) {
	return s.listByUserFn(ctx, userID, limit, offset, approvedOnly)
}
func (s *answerRepoStub) Update(ctx context.Context, a *models.Answer) error {
	return s.updateFn(ctx, a)
}
func (s *answerRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *answerRepoStub) SetAccepted(ctx context.Context, id uint, accepted bool) error {
	return s.setAcceptedFn(ctx, id, accepted)
}
func (s *answerRepoStub) ClearAcceptedForQuestion(ctx context.Context, questionID uint) error {
	return s.clearAcceptedForQuestionFn(ctx, questionID)
}
func (s *answerRepoStub) SetApproved(ctx context.Context, id uint, approved bool) error {
	return s.setApprovedFn(ctx, id, approved)
}

func noopAnswerRepo() *answerRepoStub {
	return &answerRepoStub{
		createFn: func(_ context.Context, _ *models.Answer) error { return nil },
		getByIDFn: func(_ context.Context, id, _ uint) (*models.Answer, error) {
			return &models.Answer{ID: id}, nil
		},
		listByQuestionFn: func(_ context.Context, _, _ uint) ([]*models.Answer, error) { return nil, nil },
		listByUserFn: func(_ context.Context, _ uint, _, _ int, _ bool) ([]*models.Answer, error) {
			return nil, nil
		},
		updateFn:                   func(_ context.Context, _ *models.Answer) error { return nil },
		deleteFn:                   func(_ context.Context, _ uint) error { return nil },
		setAcceptedFn:              func(_ context.Context, _ uint, _ bool) error { return nil },
		clearAcceptedForQuestionFn: func(_ context.Context, _ uint) error { return nil },
		setApprovedFn:              func(_ context.Context, _ uint, _ bool) error { return nil },
	}
}

// --- comment repository stub ---

type commentRepoStub struct {
	createFn         func(context.Context, *models.Comment) error
	getByIDFn        func(context.Context, uint) (*models.Comment, error)
	listByQuestionFn func(context.Context, uint) ([]*models.Comment, error)
	listByAnswerFn   func(context.Context, uint) ([]*models.Comment, error)
	updateFn         func(context.Context, *models.Comment) error
	deleteFn         func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByQuestion(ctx context.Context, questionID uint) ([]*models.Comment, error) {
	return s.listByQuestionFn(ctx, questionID)
}
func (s *commentRepoStub) ListByAnswer(ctx context.Context, answerID uint) ([]*models.Comment, error) {
	return s.listByAnswerFn(ctx, answerID)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:         func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:        func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByQuestionFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		listByAnswerFn:   func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		updateFn:         func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn:         func(_ context.Context, _ uint) error { return nil },
	}
}

// --- tag repository stub ---

type tagRepoStub struct {
	createFn         func(context.Context, *models.Tag) error
	getByIDFn        func(context.Context, uint) (*models.Tag, error)
	getByNameFn      func(context.Context, string) (*models.Tag, error)
	findOrCreateFn   func(context.Context, string, uint) (*models.Tag, error)
	listFn           func(context.Context, int, int, string) ([]*models.Tag, error)
	popularFn        func(context.Context, int) ([]*models.Tag, error)
	searchFn         func(context.Context, string, int) ([]*models.Tag, error)
	updateFn         func(context.Context, *models.Tag) error
	deleteFn         func(context.Context, uint) error
	incrementUsageFn func(context.Context, string) error
	decrementUsageFn func(context.Context, string) error
}

func (s *tagRepoStub) Create(ctx context.Context, tag *models.Tag) error {
	return s.createFn(ctx, tag)
}
func (s *tagRepoStub) GetByID(ctx context.Context, id uint) (*models.Tag, error) {
	return s.getByIDFn(ctx, id)
}
func (s *tagRepoStub) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	return s.getByNameFn(ctx, name)
}
func (s *tagRepoStub) FindOrCreate(ctx context.Context, name string, createdByID uint) (*models.Tag, error) {
	return s.findOrCreateFn(ctx, name, createdByID)
}
func (s *tagRepoStub) List(ctx context.Context, limit, offset int, sort string) ([]*models.Tag, error) {
	return s.listFn(ctx, limit, offset, sort)
}
func (s *tagRepoStub) Popular(ctx context.Context, limit int) ([]*models.Tag, error) {
	return s.popularFn(ctx, limit)
}
func (s *tagRepoStub) Search(ctx context.Context, query string, limit int) ([]*models.Tag, error) {
	return s.searchFn(ctx, query, limit)
}
func (s *tagRepoStub) Update(ctx context.Context, tag *models.Tag) error {
	return s.updateFn(ctx, tag)
}
func (s *tagRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *tagRepoStub) IncrementUsage(ctx context.Context, name string) error {
	return s.incrementUsageFn(ctx, name)
}
func (s *tagRepoStub) DecrementUsage(ctx context.Context, name string) error {
	return s.decrementUsageFn(ctx, name)
}

func noopTagRepo() *tagRepoStub {
	return &tagRepoStub{
		createFn:         func(_ context.Context, _ *models.Tag) error { return nil },
		getByIDFn:        func(_ context.Context, id uint) (*models.Tag, error) { return &models.Tag{ID: id}, nil },
		getByNameFn:      func(_ context.Context, name string) (*models.Tag, error) { return &models.Tag{Name: name}, nil },
		findOrCreateFn:   func(_ context.Context, name string, _ uint) (*models.Tag, error) { return &models.Tag{Name: name}, nil },
		listFn:           func(_ context.Context, _, _ int, _ string) ([]*models.Tag, error) { return nil, nil },
		popularFn:        func(_ context.Context, _ int) ([]*models.Tag, error) { return nil, nil },
		searchFn:         func(_ context.Context, _ string, _ int) ([]*models.Tag, error) { return nil, nil },
		updateFn:         func(_ context.Context, _ *models.Tag) error { return nil },
		deleteFn:         func(_ context.Context, _ uint) error { return nil },
		incrementUsageFn: func(_ context.Context, _ string) error { return nil },
		decrementUsageFn: func(_ context.Context, _ string) error { return nil },
	}
}

// --- vote repository: in-memory fake, exercised by the toggle tests ---

type voteKey struct {
	userID     uint
	targetType string
	targetID   uint
}

type fakeVoteStore struct {
	votes map[voteKey]int
}

func newFakeVoteStore() *fakeVoteStore {
	return &fakeVoteStore{votes: make(map[voteKey]int)}
}

func (f *fakeVoteStore) Get(_ context.Context, userID uint, targetType string, targetID uint) (*models.Vote, error) {
	value, ok := f.votes[voteKey{userID, targetType, targetID}]
	if !ok {
		return nil, nil
	}
	return &models.Vote{UserID: userID, TargetType: targetType, TargetID: targetID, Value: value}, nil
}

func (f *fakeVoteStore) Set(_ context.Context, userID uint, targetType string, targetID uint, value int) error {
	f.votes[voteKey{userID, targetType, targetID}] = value
	return nil
}

func (f *fakeVoteStore) Delete(_ context.Context, userID uint, targetType string, targetID uint) error {
	delete(f.votes, voteKey{userID, targetType, targetID})
	return nil
}

func (f *fakeVoteStore) Count(_ context.Context, targetType string, targetID uint) (int, error) {
	total := 0
	for k, v := range f.votes {
		if k.targetType == targetType && k.targetID == targetID {
			total += v
		}
	}
	return total, nil
}

// --- notification repository: records created notifications ---

type notificationRepoStub struct {
	created []*models.Notification
}

func (s *notificationRepoStub) Create(_ context.Context, n *models.Notification) error {
	s.created = append(s.created, n)
	return nil
}
func (s *notificationRepoStub) GetByID(_ context.Context, _ uint) (*models.Notification, error) {
	return nil, nil
}
func (s *notificationRepoStub) ListByRecipient(_ context.Context, _ uint, _ bool, _, _ int) ([]*models.Notification, error) {
	return nil, nil
}
func (s *notificationRepoStub) CountUnread(_ context.Context, _ uint) (int64, error) { return 0, nil }
func (s *notificationRepoStub) MarkRead(_ context.Context, _, _ uint) error          { return nil }
func (s *notificationRepoStub) MarkAllRead(_ context.Context, _ uint) error          { return nil }
func (s *notificationRepoStub) Delete(_ context.Context, _, _ uint) error            { return nil }
func (s *notificationRepoStub) DeleteAll(_ context.Context, _ uint) error            { return nil }

// recordingNotifications builds a NotificationService whose persisted
// notifications can be inspected after the call.
func recordingNotifications() (*NotificationService, *notificationRepoStub) {
	repo := &notificationRepoStub{}
	return NewNotificationService(repo, nil), repo
}

func allowAllAdmin(_ context.Context, _ uint) (bool, error) { return true, nil }
func denyAllAdmin(_ context.Context, _ uint) (bool, error)  { return false, nil }
