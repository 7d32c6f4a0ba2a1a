package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"stackit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_UpdateProfile_Validation(t *testing.T) {
	t.Parallel()

	t.Run("username too long", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "original"}, nil
		}
		svc := NewUserService(repo, nil)
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:   1,
			Username: strings.Repeat("x", 31),
		})
		assertValidationError(t, err)
	})

	t.Run("username taken", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "original"}, nil
		}
		repo.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
			return &models.User{ID: 2, Username: username}, nil
		}
		svc := NewUserService(repo, nil)
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:   1,
			Username: "occupied",
		})
		assertValidationError(t, err)
	})

	t.Run("bio too long", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		svc := NewUserService(repo, nil)
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID: 1,
			Bio:    strings.Repeat("x", 501),
		})
		assertValidationError(t, err)
	})
}

func TestUserService_UpdateProfile_PartialUpdate(t *testing.T) {
	t.Parallel()

	t.Run("only username changes when bio is empty", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "old", Bio: "my bio"}, nil
		}
		var saved *models.User
		repo.updateFn = func(_ context.Context, u *models.User) error {
			saved = u
			return nil
		}
		svc := NewUserService(repo, nil)
		user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:   1,
			Username: "newname",
		})
		require.NoError(t, err)
		assert.Equal(t, "newname", user.Username)
		assert.Equal(t, "my bio", user.Bio, "bio should be unchanged when not provided")
		require.NotNil(t, saved)
		assert.Equal(t, "newname", saved.Username)
	})

	t.Run("only bio changes when username is empty", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "myuser", Bio: "old bio"}, nil
		}
		svc := NewUserService(repo, nil)
		user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID: 1,
			Bio:    "new bio",
		})
		require.NoError(t, err)
		assert.Equal(t, "myuser", user.Username, "username should be unchanged when not provided")
		assert.Equal(t, "new bio", user.Bio)
	})
}

func TestUserService_UpdateProfile_RepoError(t *testing.T) {
	t.Parallel()

	t.Run("GetByID error propagates", func(t *testing.T) {
		t.Parallel()
		repoErr := errors.New("db connection error")
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) {
			return nil, repoErr
		}
		svc := NewUserService(repo, nil)
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Username: "newer"})
		assert.ErrorIs(t, err, repoErr)
	})

	t.Run("Update error propagates", func(t *testing.T) {
		t.Parallel()
		repoErr := errors.New("update failed")
		repo := noopUserRepo()
		repo.updateFn = func(_ context.Context, _ *models.User) error {
			return repoErr
		}
		svc := NewUserService(repo, nil)
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Username: "newer"})
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestUserService_SetRole(t *testing.T) {
	t.Parallel()

	t.Run("promotes to admin", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		role := ""
		repo.updateRoleFn = func(_ context.Context, _ uint, r string) error {
			role = r
			return nil
		}
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			u := &models.User{ID: id, Role: models.RoleUser}
			if role != "" {
				u.Role = role
			}
			return u, nil
		}
		svc := NewUserService(repo, nil)
		user, err := svc.SetRole(context.Background(), 5, models.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, user.Role)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		t.Parallel()
		svc := NewUserService(noopUserRepo(), nil)
		_, err := svc.SetRole(context.Background(), 5, "superuser")
		assertValidationError(t, err)
	})

	t.Run("user not found propagates error", func(t *testing.T) {
		t.Parallel()
		repoErr := errors.New("user not found")
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) {
			return nil, repoErr
		}
		svc := NewUserService(repo, nil)
		_, err := svc.SetRole(context.Background(), 99, models.RoleAdmin)
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestUserService_AdjustReputation(t *testing.T) {
	t.Parallel()

	t.Run("zero delta is invalid", func(t *testing.T) {
		t.Parallel()
		notifications, _ := recordingNotifications()
		svc := NewUserService(noopUserRepo(), notifications)
		_, err := svc.AdjustReputation(context.Background(), 5, 0, "noop")
		assertValidationError(t, err)
	})

	t.Run("applies delta and notifies the subject", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		var applied int
		repo.adjustReputationFn = func(_ context.Context, _ uint, delta int) error {
			applied = delta
			return nil
		}
		notifications, inbox := recordingNotifications()
		svc := NewUserService(repo, notifications)
		_, err := svc.AdjustReputation(context.Background(), 5, 25, "great answer streak")
		require.NoError(t, err)
		assert.Equal(t, 25, applied)
		require.Len(t, inbox.created, 1)
		assert.Equal(t, models.NotificationReputationChange, inbox.created[0].Type)
		assert.Equal(t, uint(5), inbox.created[0].RecipientID)
	})
}

func TestUserService_SearchUsers_EmptyQuery(t *testing.T) {
	t.Parallel()

	svc := NewUserService(noopUserRepo(), nil)
	_, err := svc.SearchUsers(context.Background(), "   ", 20, 0)
	assertValidationError(t, err)
}

func TestUserService_GetUserByID(t *testing.T) {
	t.Parallel()

	t.Run("returns user from repo", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "alice"}, nil
		}
		svc := NewUserService(repo, nil)
		user, err := svc.GetUserByID(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, uint(7), user.ID)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("repo error propagates", func(t *testing.T) {
		t.Parallel()
		repoErr := errors.New("not found")
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, _ uint) (*models.User, error) {
			return nil, repoErr
		}
		svc := NewUserService(repo, nil)
		_, err := svc.GetUserByID(context.Background(), 99)
		assert.ErrorIs(t, err, repoErr)
	})
}
