package service

import (
	"context"
	"strings"
	"testing"

	"stackit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func voter(id uint) *models.User {
	return &models.User{ID: id, Username: "voter", Role: models.RoleUser, Reputation: models.MinVoteReputation}
}

func newAnswerService(answers *answerRepoStub, questions *questionRepoStub, votes *fakeVoteStore, users *userRepoStub, isAdmin func(context.Context, uint) (bool, error)) (*AnswerService, *notificationRepoStub) {
	if votes == nil {
		votes = newFakeVoteStore()
	}
	notifications, inbox := recordingNotifications()
	return NewAnswerService(answers, questions, votes, users, notifications, isAdmin), inbox
}

func TestAnswerService_CreateAnswer(t *testing.T) {
	t.Parallel()

	t.Run("content too short", func(t *testing.T) {
		t.Parallel()
		svc, _ := newAnswerService(noopAnswerRepo(), noopQuestionRepo(), nil, noopUserRepo(), denyAllAdmin)
		_, err := svc.CreateAnswer(context.Background(), 1, CreateAnswerInput{QuestionID: 1, Content: "too short"})
		assertValidationError(t, err)
	})

	t.Run("closed question rejects new answers", func(t *testing.T) {
		t.Parallel()
		questions := noopQuestionRepo()
		questions.getByIDFn = func(_ context.Context, id, _ uint) (*models.Question, error) {
			return &models.Question{ID: id, Status: models.QuestionStatusClosed}, nil
		}
		svc, _ := newAnswerService(noopAnswerRepo(), questions, nil, noopUserRepo(), denyAllAdmin)
		_, err := svc.CreateAnswer(context.Background(), 1, CreateAnswerInput{QuestionID: 1, Content: strings.Repeat("x", 30)})
		assertValidationError(t, err)
	})

	t.Run("success notifies the question author", func(t *testing.T) {
		t.Parallel()
		questions := noopQuestionRepo()
		questions.getByIDFn = func(_ context.Context, id, _ uint) (*models.Question, error) {
			return &models.Question{ID: id, UserID: 10, Status: models.QuestionStatusOpen, Title: "How to close a channel safely?"}, nil
		}
		answers := noopAnswerRepo()
		var created *models.Answer
		answers.createFn = func(_ context.Context, a *models.Answer) error {
			created = a
			a.ID = 5
			return nil
		}
		svc, inbox := newAnswerService(answers, questions, nil, noopUserRepo(), denyAllAdmin)
		_, err := svc.CreateAnswer(context.Background(), 2, CreateAnswerInput{QuestionID: 1, Content: strings.Repeat("x", 30)})
		require.NoError(t, err)

		require.NotNil(t, created)
		assert.False(t, created.IsApproved, "new answers start unapproved")

		require.Len(t, inbox.created, 1)
		assert.Equal(t, models.NotificationQuestionAnswer, inbox.created[0].Type)
		assert.Equal(t, uint(10), inbox.created[0].RecipientID)
	})
}

func TestAnswerService_ApprovalGate(t *testing.T) {
	t.Parallel()

	// Question 1 is owned by user 10. Answer 5 by user 2 is unapproved,
	// answer 6 by user 3 is approved.
	questions := noopQuestionRepo()
	questions.getByIDFn = func(_ context.Context, id, _ uint) (*models.Question, error) {
		return &models.Question{ID: id, UserID: 10}, nil
	}
	answers := noopAnswerRepo()
	answers.listByQuestionFn = func(_ context.Context, _, _ uint) ([]*models.Answer, error) {
		return []*models.Answer{
			{ID: 5, UserID: 2, IsApproved: false},
			{ID: 6, UserID: 3, IsApproved: true},
		}, nil
	}

	ids := func(answers []*models.Answer) []uint {
		out := make([]uint, 0, len(answers))
		for _, a := range answers {
			out = append(out, a.ID)
		}
		return out
	}

	t.Run("anonymous viewers see approved only", func(t *testing.T) {
		t.Parallel()
		svc, _ := newAnswerService(answers, questions, nil, noopUserRepo(), denyAllAdmin)
		visible, err := svc.ListByQuestion(context.Background(), 1, 0)
		require.NoError(t, err)
		assert.Equal(t, []uint{6}, ids(visible))
	})

	t.Run("authors see their own unapproved answers", func(t *testing.T) {
		t.Parallel()
		svc, _ := newAnswerService(answers, questions, nil, noopUserRepo(), denyAllAdmin)
		visible, err := svc.ListByQuestion(context.Background(), 1, 2)
		require.NoError(t, err)
		assert.Equal(t, []uint{5, 6}, ids(visible))
	})

	t.Run("question owner sees everything", func(t *testing.T) {
		t.Parallel()
		svc, _ := newAnswerService(answers, questions, nil, noopUserRepo(), denyAllAdmin)
		visible, err := svc.ListByQuestion(context.Background(), 1, 10)
		require.NoError(t, err)
		assert.Equal(t, []uint{5, 6}, ids(visible))
	})

	t.Run("GetAnswer hides unapproved answers from strangers", func(t *testing.T) {
		t.Parallel()
		single := noopAnswerRepo()
		single.getByIDFn = func(_ context.Context, id, _ uint) (*models.Answer, error) {
			return &models.Answer{ID: id, UserID: 2, QuestionID: 1, IsApproved: false}, nil
		}
		svc, _ := newAnswerService(single, questions, nil, noopUserRepo(), denyAllAdmin)
		_, err := svc.GetAnswer(context.Background(), 5, 4)
		assertNotFoundError(t, err)
	})
}

func TestAnswerService_Approve(t *testing.T) {
	t.Parallel()

	t.Run("only the question owner may approve", func(t *testing.T) {
		t.Parallel()
		questions := noopQuestionRepo()
		questions.getByIDFn = func(_ context.Context, id, _ uint) (*models.Question, error) {
			return &models.Question{ID: id, UserID: 10}, nil
		}
		svc, _ := newAnswerService(noopAnswerRepo(), questions, nil, noopUserRepo(), denyAllAdmin)
		_, err := svc.Approve(context.Background(), 5, 4)
		assertUnauthorizedError(t, err)
	})

	t.Run("owner approval flips the flag once", func(t *testing.T) {
		t.Parallel()
		questions := noopQuestionRepo()
		questions.getByIDFn = func(_ context.Context, id, _ uint) (*models.Question, error) {
			return &models.Question{ID: id, UserID: 10}, nil
		}
		answers := noopAnswerRepo()
		approvedCalls := 0
		answers.setApprovedFn = func(_ context.Context, _ uint, approved bool) error {
			approvedCalls++
			assert.True(t, approved)
			return nil
		}
		svc, _ := newAnswerService(answers, questions, nil, noopUserRepo(), denyAllAdmin)
		_, err := svc.Approve(context.Background(), 5, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, approvedCalls)
	})

	t.Run("approving an approved answer is a no-op", func(t *testing.T) {
		t.Parallel()
		questions := noopQuestionRepo()
		questions.getByIDFn = func(_ context.Context, id, _ uint) (*models.Question, error) {
			return &models.Question{ID: id, UserID: 10}, nil
		}
		answers := noopAnswerRepo()
		answers.getByIDFn = func(_ context.Context, id, _ uint) (*models.Answer, error) {
			return &models.Answer{ID: id, QuestionID: 1, IsApproved: true}, nil
		}
		answers.setApprovedFn = func(_ context.Context, _ uint, _ bool) error {
			t.Fatal("SetApproved must not be called for an already approved answer")
			return nil
		}
		svc, _ := newAnswerService(answers, questions, nil, noopUserRepo(), denyAllAdmin)
		_, err := svc.Approve(context.Background(), 5, 10)
		require.NoError(t, err)
	})
}

func TestAnswerService_Accept(t *testing.T) {
	t.Parallel()

	t.Run("only the question owner may accept", func(t *testing.T) {
		t.Parallel()
		questions := noopQuestionRepo()
		questions.getByIDFn = func(_ context.Context, id, _ uint) (*models.Question, error) {
			return &models.Question{ID: id, UserID: 10}, nil
		}
		svc, _ := newAnswerService(noopAnswerRepo(), questions, nil, noopUserRepo(), denyAllAdmin)
		_, err := svc.Accept(context.Background(), 5, 4)
		assertUnauthorizedError(t, err)
	})

	t.Run("accept clears the previous acceptance first", func(t *testing.T) {
		t.Parallel()
		questions := noopQuestionRepo()
		questions.getByIDFn = func(_ context.Context, id, _ uint) (*models.Question, error) {
			return &models.Question{ID: id, UserID: 10}, nil
		}
		var calls []string
		questions.setAcceptedFn = func(_ context.Context, _ uint, answerID *uint) error {
			require.NotNil(t, answerID)
			calls = append(calls, "question.SetAccepted")
			return nil
		}
		answers := noopAnswerRepo()
		answers.getByIDFn = func(_ context.Context, id, _ uint) (*models.Answer, error) {
			return &models.Answer{ID: id, UserID: 2, QuestionID: 1}, nil
		}
		answers.clearAcceptedForQuestionFn = func(_ context.Context, _ uint) error {
			calls = append(calls, "answers.ClearAccepted")
			return nil
		}
		answers.setAcceptedFn = func(_ context.Context, _ uint, accepted bool) error {
			assert.True(t, accepted)
			calls = append(calls, "answers.SetAccepted")
			return nil
		}

		svc, inbox := newAnswerService(answers, questions, nil, noopUserRepo(), denyAllAdmin)
		_, err := svc.Accept(context.Background(), 5, 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"answers.ClearAccepted", "answers.SetAccepted", "question.SetAccepted"}, calls)

		require.Len(t, inbox.created, 1)
		assert.Equal(t, models.NotificationAnswerAccepted, inbox.created[0].Type)
		assert.Equal(t, uint(2), inbox.created[0].RecipientID)
	})

	t.Run("accepting your own answer sends no notification", func(t *testing.T) {
		t.Parallel()
		questions := noopQuestionRepo()
		questions.getByIDFn = func(_ context.Context, id, _ uint) (*models.Question, error) {
			return &models.Question{ID: id, UserID: 10}, nil
		}
		answers := noopAnswerRepo()
		answers.getByIDFn = func(_ context.Context, id, _ uint) (*models.Answer, error) {
			return &models.Answer{ID: id, UserID: 10, QuestionID: 1}, nil
		}
		svc, inbox := newAnswerService(answers, questions, nil, noopUserRepo(), denyAllAdmin)
		_, err := svc.Accept(context.Background(), 5, 10)
		require.NoError(t, err)
		assert.Empty(t, inbox.created)
	})

	t.Run("mismatched question and answer is rejected", func(t *testing.T) {
		t.Parallel()
		answers := noopAnswerRepo()
		answers.getByIDFn = func(_ context.Context, id, _ uint) (*models.Answer, error) {
			return &models.Answer{ID: id, QuestionID: 7}, nil
		}
		svc, _ := newAnswerService(answers, noopQuestionRepo(), nil, noopUserRepo(), denyAllAdmin)
		_, err := svc.AcceptForQuestion(context.Background(), 1, 5, 10)
		assertValidationError(t, err)
	})
}

func TestAnswerService_Unaccept(t *testing.T) {
	t.Parallel()

	questions := noopQuestionRepo()
	questions.getByIDFn = func(_ context.Context, id, _ uint) (*models.Question, error) {
		return &models.Question{ID: id, UserID: 10}, nil
	}
	var clearedOnQuestion bool
	questions.setAcceptedFn = func(_ context.Context, _ uint, answerID *uint) error {
		assert.Nil(t, answerID)
		clearedOnQuestion = true
		return nil
	}
	answers := noopAnswerRepo()
	answers.getByIDFn = func(_ context.Context, id, _ uint) (*models.Answer, error) {
		return &models.Answer{ID: id, UserID: 2, QuestionID: 1, IsAccepted: true}, nil
	}
	var unaccepted bool
	answers.setAcceptedFn = func(_ context.Context, _ uint, accepted bool) error {
		assert.False(t, accepted)
		unaccepted = true
		return nil
	}

	svc, inbox := newAnswerService(answers, questions, nil, noopUserRepo(), denyAllAdmin)
	_, err := svc.Unaccept(context.Background(), 5, 10)
	require.NoError(t, err)
	assert.True(t, unaccepted)
	assert.True(t, clearedOnQuestion)
	assert.Empty(t, inbox.created, "unaccepting is silent")
}

func TestAnswerService_DeleteAnswer(t *testing.T) {
	t.Parallel()

	t.Run("accepted answer cannot be deleted", func(t *testing.T) {
		t.Parallel()
		answers := noopAnswerRepo()
		answers.getByIDFn = func(_ context.Context, id, _ uint) (*models.Answer, error) {
			return &models.Answer{ID: id, UserID: 1, IsAccepted: true}, nil
		}
		svc, _ := newAnswerService(answers, noopQuestionRepo(), nil, noopUserRepo(), denyAllAdmin)
		err := svc.DeleteAnswer(context.Background(), 5, 1)
		assertValidationError(t, err)
	})

	t.Run("non-owner non-admin is rejected", func(t *testing.T) {
		t.Parallel()
		answers := noopAnswerRepo()
		answers.getByIDFn = func(_ context.Context, id, _ uint) (*models.Answer, error) {
			return &models.Answer{ID: id, UserID: 10}, nil
		}
		svc, _ := newAnswerService(answers, noopQuestionRepo(), nil, noopUserRepo(), denyAllAdmin)
		err := svc.DeleteAnswer(context.Background(), 5, 1)
		assertUnauthorizedError(t, err)
	})

	t.Run("admin can delete another user's answer", func(t *testing.T) {
		t.Parallel()
		answers := noopAnswerRepo()
		answers.getByIDFn = func(_ context.Context, id, _ uint) (*models.Answer, error) {
			return &models.Answer{ID: id, UserID: 10}, nil
		}
		svc, _ := newAnswerService(answers, noopQuestionRepo(), nil, noopUserRepo(), allowAllAdmin)
		err := svc.DeleteAnswer(context.Background(), 5, 1)
		require.NoError(t, err)
	})
}

func TestAnswerService_VoteAnswer(t *testing.T) {
	t.Parallel()

	answerAuthor := uint(2)
	newVotableAnswers := func() *answerRepoStub {
		answers := noopAnswerRepo()
		answers.getByIDFn = func(_ context.Context, id, _ uint) (*models.Answer, error) {
			return &models.Answer{ID: id, UserID: answerAuthor, QuestionID: 1}, nil
		}
		return answers
	}

	t.Run("self-vote is rejected", func(t *testing.T) {
		t.Parallel()
		svc, _ := newAnswerService(newVotableAnswers(), noopQuestionRepo(), nil, noopUserRepo(), denyAllAdmin)
		_, err := svc.VoteAnswer(context.Background(), 5, answerAuthor, "upvote")
		assertValidationError(t, err)
	})

	t.Run("voting requires reputation", func(t *testing.T) {
		t.Parallel()
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Role: models.RoleUser, Reputation: models.MinVoteReputation - 1}, nil
		}
		svc, _ := newAnswerService(newVotableAnswers(), noopQuestionRepo(), nil, users, denyAllAdmin)
		_, err := svc.VoteAnswer(context.Background(), 5, 3, "upvote")
		assertUnauthorizedError(t, err)
	})

	t.Run("toggle casts, switches and retracts", func(t *testing.T) {
		t.Parallel()
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return voter(id), nil
		}
		votes := newFakeVoteStore()
		svc, inbox := newAnswerService(newVotableAnswers(), noopQuestionRepo(), votes, users, denyAllAdmin)
		ctx := context.Background()

		result, err := svc.VoteAnswer(ctx, 5, 3, "upvote")
		require.NoError(t, err)
		assert.Equal(t, 1, result.VoteCount)
		assert.Equal(t, "upvote", result.UserVote)

		result, err = svc.VoteAnswer(ctx, 5, 3, "downvote")
		require.NoError(t, err)
		assert.Equal(t, -1, result.VoteCount)
		assert.Equal(t, "downvote", result.UserVote)

		result, err = svc.VoteAnswer(ctx, 5, 3, "downvote")
		require.NoError(t, err)
		assert.Equal(t, 0, result.VoteCount)
		assert.Empty(t, result.UserVote)

		// cast + switch notify; the retraction does not
		assert.Len(t, inbox.created, 2)
		for _, n := range inbox.created {
			assert.Equal(t, models.NotificationAnswerVote, n.Type)
			assert.Equal(t, answerAuthor, n.RecipientID)
		}
	})

	t.Run("repeating an upvote returns the answer to its pre-vote state", func(t *testing.T) {
		t.Parallel()
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return voter(id), nil
		}
		votes := newFakeVoteStore()
		svc, _ := newAnswerService(newVotableAnswers(), noopQuestionRepo(), votes, users, denyAllAdmin)
		ctx := context.Background()

		result, err := svc.VoteAnswer(ctx, 5, 3, "upvote")
		require.NoError(t, err)
		assert.Equal(t, 1, result.VoteCount)

		result, err = svc.VoteAnswer(ctx, 5, 3, "upvote")
		require.NoError(t, err)
		assert.Equal(t, 0, result.VoteCount)
		assert.Empty(t, result.UserVote)

		stored, err := votes.Get(ctx, 3, models.VoteTargetAnswer, 5)
		require.NoError(t, err)
		assert.Nil(t, stored, "the vote row is removed, not zeroed")
	})

	t.Run("unknown vote type is rejected", func(t *testing.T) {
		t.Parallel()
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return voter(id), nil
		}
		svc, _ := newAnswerService(newVotableAnswers(), noopQuestionRepo(), nil, users, denyAllAdmin)
		_, err := svc.VoteAnswer(context.Background(), 5, 3, "sideways")
		assertValidationError(t, err)
	})
}
