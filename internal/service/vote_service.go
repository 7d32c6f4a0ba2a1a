package service

import (
	"context"

	"stackit/internal/models"
	"stackit/internal/observability"
	"stackit/internal/repository"
)

// Vote toggle outcomes, used as metric labels.
const (
	voteOutcomeCast      = "cast"
	voteOutcomeSwitched  = "switched"
	voteOutcomeRetracted = "retracted"
)

// VoteResult is the state of a target after a vote request: the new score and
// the caller's current vote ("upvote", "downvote" or empty after a retraction).
type VoteResult struct {
	VoteCount int    `json:"vote_count"`
	UserVote  string `json:"user_vote,omitempty"`
}

// applyVoteToggle runs the three-way toggle against the vote store: no
// existing vote inserts one, the same direction retracts it, the opposite
// direction switches it. Returns the refreshed result and the outcome label.
func applyVoteToggle(ctx context.Context, votes repository.VoteRepository, userID uint, targetType string, targetID uint, voteType string) (*VoteResult, string, error) {
	value, err := models.VoteValue(voteType)
	if err != nil {
		return nil, "", err
	}

	existing, err := votes.Get(ctx, userID, targetType, targetID)
	if err != nil {
		return nil, "", err
	}

	outcome := voteOutcomeCast
	newValue := value
	switch {
	case existing == nil:
		err = votes.Set(ctx, userID, targetType, targetID, value)
	case existing.Value == value:
		outcome = voteOutcomeRetracted
		newValue = 0
		err = votes.Delete(ctx, userID, targetType, targetID)
	default:
		outcome = voteOutcomeSwitched
		err = votes.Set(ctx, userID, targetType, targetID, value)
	}
	if err != nil {
		return nil, "", err
	}

	count, err := votes.Count(ctx, targetType, targetID)
	if err != nil {
		return nil, "", err
	}

	observability.VotesCast.WithLabelValues(targetType, outcome).Inc()
	return &VoteResult{VoteCount: count, UserVote: models.VoteLabel(newValue)}, outcome, nil
}

// requireVoter loads the voter and enforces the reputation bar. Admins bypass
// the bar.
func requireVoter(ctx context.Context, users repository.UserRepository, userID uint) (*models.User, error) {
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.CanVote() {
		return nil, models.NewUnauthorizedError("Voting requires at least 15 reputation")
	}
	return user, nil
}
