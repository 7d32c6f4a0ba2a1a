package service

import (
	"context"
	"sort"
	"strings"
	"testing"

	"stackit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuestionService(questions *questionRepoStub, answers *answerRepoStub, tags *tagRepoStub, votes *fakeVoteStore, users *userRepoStub, isAdmin func(context.Context, uint) (bool, error)) (*QuestionService, *notificationRepoStub) {
	if votes == nil {
		votes = newFakeVoteStore()
	}
	notifications, inbox := recordingNotifications()
	return NewQuestionService(questions, answers, tags, votes, users, notifications, isAdmin), inbox
}

func TestNormalizeTags(t *testing.T) {
	t.Parallel()

	t.Run("lowercases, trims and dedupes", func(t *testing.T) {
		t.Parallel()
		tags, err := normalizeTags([]string{" Go ", "go", "POSTGRESQL", ""})
		require.NoError(t, err)
		assert.Equal(t, []string{"go", "postgresql"}, tags)
	})

	t.Run("rejects illegal names", func(t *testing.T) {
		t.Parallel()
		_, err := normalizeTags([]string{"c++"})
		assertValidationError(t, err)
	})

	t.Run("requires at least one tag", func(t *testing.T) {
		t.Parallel()
		_, err := normalizeTags([]string{"", "  "})
		assertValidationError(t, err)
	})

	t.Run("rejects more than five tags", func(t *testing.T) {
		t.Parallel()
		_, err := normalizeTags([]string{"go", "sql", "redis", "docker", "react", "testing"})
		assertValidationError(t, err)
	})
}

func TestQuestionService_CreateQuestion_Validation(t *testing.T) {
	t.Parallel()

	svc, _ := newQuestionService(noopQuestionRepo(), noopAnswerRepo(), noopTagRepo(), nil, noopUserRepo(), denyAllAdmin)
	ctx := context.Background()

	t.Run("title too short", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateQuestion(ctx, 1, CreateQuestionInput{
			Title:   "short",
			Content: strings.Repeat("x", 30),
			Tags:    []string{"go"},
		})
		assertValidationError(t, err)
	})

	t.Run("content too short", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateQuestion(ctx, 1, CreateQuestionInput{
			Title:   "How do I parse JSON streams?",
			Content: "too short",
			Tags:    []string{"go"},
		})
		assertValidationError(t, err)
	})

	t.Run("missing tags", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateQuestion(ctx, 1, CreateQuestionInput{
			Title:   "How do I parse JSON streams?",
			Content: strings.Repeat("x", 30),
		})
		assertValidationError(t, err)
	})
}

func TestQuestionService_CreateQuestion_MaterializesTags(t *testing.T) {
	t.Parallel()

	questions := noopQuestionRepo()
	questions.createFn = func(_ context.Context, q *models.Question) error {
		q.ID = 9
		return nil
	}
	tags := noopTagRepo()
	var materialized, incremented []string
	tags.findOrCreateFn = func(_ context.Context, name string, _ uint) (*models.Tag, error) {
		materialized = append(materialized, name)
		return &models.Tag{Name: name}, nil
	}
	tags.incrementUsageFn = func(_ context.Context, name string) error {
		incremented = append(incremented, name)
		return nil
	}

	svc, _ := newQuestionService(questions, noopAnswerRepo(), tags, nil, noopUserRepo(), denyAllAdmin)
	question, err := svc.CreateQuestion(context.Background(), 1, CreateQuestionInput{
		Title:   "How do I parse JSON streams?",
		Content: strings.Repeat("x", 30),
		Tags:    []string{"Go", "json "},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(9), question.ID)
	assert.Equal(t, []string{"go", "json"}, materialized)
	assert.Equal(t, []string{"go", "json"}, incremented)
}

func TestQuestionService_UpdateQuestion(t *testing.T) {
	t.Parallel()

	t.Run("non-owner non-admin cannot edit", func(t *testing.T) {
		t.Parallel()
		questions := noopQuestionRepo()
		questions.getByIDFn = func(_ context.Context, id, _ uint) (*models.Question, error) {
			return &models.Question{ID: id, UserID: 10}, nil
		}
		svc, _ := newQuestionService(questions, noopAnswerRepo(), noopTagRepo(), nil, noopUserRepo(), denyAllAdmin)
		title := "A perfectly valid new title"
		_, err := svc.UpdateQuestion(context.Background(), 1, 2, UpdateQuestionInput{Title: &title})
		assertUnauthorizedError(t, err)
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		t.Parallel()
		questions := noopQuestionRepo()
		questions.getByIDFn = func(_ context.Context, id, viewerID uint) (*models.Question, error) {
			return &models.Question{ID: id, UserID: viewerID}, nil
		}
		svc, _ := newQuestionService(questions, noopAnswerRepo(), noopTagRepo(), nil, noopUserRepo(), denyAllAdmin)
		status := "abandoned"
		_, err := svc.UpdateQuestion(context.Background(), 1, 2, UpdateQuestionInput{Status: &status})
		assertValidationError(t, err)
	})

	t.Run("tag change adjusts usage counters for the diff", func(t *testing.T) {
		t.Parallel()
		questions := noopQuestionRepo()
		questions.getByIDFn = func(_ context.Context, id, viewerID uint) (*models.Question, error) {
			return &models.Question{ID: id, UserID: viewerID, Tags: []string{"go", "sql"}}, nil
		}
		tags := noopTagRepo()
		var incremented, decremented []string
		tags.incrementUsageFn = func(_ context.Context, name string) error {
			incremented = append(incremented, name)
			return nil
		}
		tags.decrementUsageFn = func(_ context.Context, name string) error {
			decremented = append(decremented, name)
			return nil
		}

		svc, _ := newQuestionService(questions, noopAnswerRepo(), tags, nil, noopUserRepo(), denyAllAdmin)
		_, err := svc.UpdateQuestion(context.Background(), 1, 2, UpdateQuestionInput{
			Tags: []string{"go", "redis"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"redis"}, incremented, "only the added tag is incremented")
		assert.Equal(t, []string{"sql"}, decremented, "only the removed tag is decremented")
	})
}

func TestQuestionService_DeleteQuestion_ReleasesTags(t *testing.T) {
	t.Parallel()

	questions := noopQuestionRepo()
	questions.getByIDFn = func(_ context.Context, id, viewerID uint) (*models.Question, error) {
		return &models.Question{ID: id, UserID: viewerID, Tags: []string{"go", "testing"}}, nil
	}
	tags := noopTagRepo()
	var decremented []string
	tags.decrementUsageFn = func(_ context.Context, name string) error {
		decremented = append(decremented, name)
		return nil
	}

	svc, _ := newQuestionService(questions, noopAnswerRepo(), tags, nil, noopUserRepo(), denyAllAdmin)
	err := svc.DeleteQuestion(context.Background(), 1, 2)
	require.NoError(t, err)

	sort.Strings(decremented)
	assert.Equal(t, []string{"go", "testing"}, decremented)
}

func TestQuestionService_GetQuestion_CountsView(t *testing.T) {
	t.Parallel()

	questions := noopQuestionRepo()
	var viewed uint
	questions.incrementViewsFn = func(_ context.Context, id uint) error {
		viewed = id
		return nil
	}
	svc, _ := newQuestionService(questions, noopAnswerRepo(), noopTagRepo(), nil, noopUserRepo(), denyAllAdmin)
	_, err := svc.GetQuestion(context.Background(), 7, 0)
	require.NoError(t, err)
	assert.Equal(t, uint(7), viewed)
}

func TestQuestionService_SearchQuestions_EmptyQuery(t *testing.T) {
	t.Parallel()

	svc, _ := newQuestionService(noopQuestionRepo(), noopAnswerRepo(), noopTagRepo(), nil, noopUserRepo(), denyAllAdmin)
	_, err := svc.SearchQuestions(context.Background(), "  ", 20, 0, 0)
	assertValidationError(t, err)
}

func TestQuestionService_VoteQuestion(t *testing.T) {
	t.Parallel()

	questionAuthor := uint(10)
	newVotableQuestions := func() *questionRepoStub {
		questions := noopQuestionRepo()
		questions.getByIDFn = func(_ context.Context, id, _ uint) (*models.Question, error) {
			return &models.Question{ID: id, UserID: questionAuthor, Title: "Why does my test flake?"}, nil
		}
		return questions
	}

	t.Run("self-vote is rejected", func(t *testing.T) {
		t.Parallel()
		svc, _ := newQuestionService(newVotableQuestions(), noopAnswerRepo(), noopTagRepo(), nil, noopUserRepo(), denyAllAdmin)
		_, err := svc.VoteQuestion(context.Background(), 1, questionAuthor, "upvote")
		assertValidationError(t, err)
	})

	t.Run("cast notifies, retraction does not", func(t *testing.T) {
		t.Parallel()
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return voter(id), nil
		}
		svc, inbox := newQuestionService(newVotableQuestions(), noopAnswerRepo(), noopTagRepo(), newFakeVoteStore(), users, denyAllAdmin)
		ctx := context.Background()

		result, err := svc.VoteQuestion(ctx, 1, 3, "downvote")
		require.NoError(t, err)
		assert.Equal(t, -1, result.VoteCount)
		assert.Equal(t, "downvote", result.UserVote)
		require.Len(t, inbox.created, 1)
		assert.Equal(t, models.NotificationQuestionVote, inbox.created[0].Type)
		assert.Equal(t, questionAuthor, inbox.created[0].RecipientID)

		result, err = svc.VoteQuestion(ctx, 1, 3, "downvote")
		require.NoError(t, err)
		assert.Equal(t, 0, result.VoteCount)
		assert.Empty(t, result.UserVote)
		assert.Len(t, inbox.created, 1, "retraction sends no notification")
	})

	t.Run("repeating an upvote returns the question to its pre-vote state", func(t *testing.T) {
		t.Parallel()
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return voter(id), nil
		}
		votes := newFakeVoteStore()
		svc, _ := newQuestionService(newVotableQuestions(), noopAnswerRepo(), noopTagRepo(), votes, users, denyAllAdmin)
		ctx := context.Background()

		result, err := svc.VoteQuestion(ctx, 1, 3, "upvote")
		require.NoError(t, err)
		assert.Equal(t, 1, result.VoteCount)
		assert.Equal(t, "upvote", result.UserVote)

		result, err = svc.VoteQuestion(ctx, 1, 3, "upvote")
		require.NoError(t, err)
		assert.Equal(t, 0, result.VoteCount)
		assert.Empty(t, result.UserVote)

		stored, err := votes.Get(ctx, 3, models.VoteTargetQuestion, 1)
		require.NoError(t, err)
		assert.Nil(t, stored, "the vote row is removed, not zeroed")
	})
}
