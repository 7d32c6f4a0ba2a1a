package service

import (
	"context"
	"strings"

	"stackit/internal/models"
	"stackit/internal/repository"
)

// UserService implements profile and moderation operations on accounts.
type UserService struct {
	users         repository.UserRepository
	notifications *NotificationService
}

// UpdateProfileInput carries the self-editable profile fields. Empty strings
// leave the field untouched.
type UpdateProfileInput struct {
	UserID    uint
	Username  string
	Bio       string
	AvatarURL string
}

// NewUserService creates a UserService.
func NewUserService(users repository.UserRepository, notifications *NotificationService) *UserService {
	return &UserService{users: users, notifications: notifications}
}

// ListUsers returns the leaderboard page, highest reputation first.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	limit, offset = normalizePage(limit, offset)
	return s.users.List(ctx, limit, offset)
}

// GetUserByID returns one user's public profile.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// SearchUsers runs a substring search over usernames.
func (s *UserService) SearchUsers(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	limit, offset = normalizePage(limit, offset)
	return s.users.Search(ctx, query, limit, offset)
}

// UpdateProfile edits the caller's own profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500
	const maxUsernameLen = 30

	if in.Username != "" && in.Username != user.Username {
		if len(in.Username) < 3 || len(in.Username) > maxUsernameLen {
			return nil, models.NewValidationError("Username must be between 3 and 30 characters")
		}
		existing, err := s.users.GetByUsername(ctx, in.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, models.NewValidationError("Username is already taken")
		}
		user.Username = in.Username
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.AvatarURL != "" {
		user.AvatarURL = in.AvatarURL
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetRole changes a user's role. Admin handlers guard the call; the service
// validates the role value.
func (s *UserService) SetRole(ctx context.Context, targetID uint, role string) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, models.NewValidationError("Invalid role")
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return nil, err
	}
	if err := s.users.UpdateRole(ctx, targetID, role); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, targetID)
}

// AdjustReputation applies a moderator reputation delta (clamped at zero in
// the store) and notifies the user.
func (s *UserService) AdjustReputation(ctx context.Context, targetID uint, delta int, reason string) (*models.User, error) {
	if delta == 0 {
		return nil, models.NewValidationError("Reputation change must be non-zero")
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return nil, err
	}
	if err := s.users.AdjustReputation(ctx, targetID, delta); err != nil {
		return nil, err
	}

	s.notifications.NotifyReputationChange(ctx, targetID, delta, reason)
	return s.users.GetByID(ctx, targetID)
}
