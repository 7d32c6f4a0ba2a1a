// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"time"

	"stackit/internal/models"
	"stackit/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetAllUsers handles GET /api/users
// The listing doubles as the reputation leaderboard: highest first.
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	page := parsePagination(c, 50)

	users, err := s.userService.ListUsers(ctx, page.Limit, page.Offset)
	if err != nil {
		// Check for timeout
		if errors.Is(err, context.DeadlineExceeded) {
			return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
				"error": "Request timeout",
			})
		}
		return models.RespondWithDomainError(c, err)
	}

	s.markOnline(users)
	return c.JSON(users)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserByID(c.Context(), id)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}

	user.IsOnline = s.presenceOnline(user.ID)
	return c.JSON(user)
}

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	user, err := s.userService.GetUserByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}

	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	var req struct {
		Username  string `json:"username"`
		Bio       string `json:"bio"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(ctx, service.UpdateProfileInput{
		UserID:    userID,
		Username:  req.Username,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}

	return c.JSON(user)
}

// UpdateUserReputation handles PUT /api/users/:id/reputation (admin only)
// Admin check is enforced by AdminRequired middleware on the route.
func (s *Server) UpdateUserReputation(c *fiber.Ctx) error {
	ctx := c.Context()
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Change int    `json:"change"`
		Reason string `json:"reason"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	target, err := s.userService.AdjustReputation(ctx, targetID, req.Change, req.Reason)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Reputation updated", "user": target})
}

// UpdateUserRole handles PUT /api/users/:id/role (admin only)
// Admin check is enforced by AdminRequired middleware on the route.
func (s *Server) UpdateUserRole(c *fiber.Ctx) error {
	ctx := c.Context()
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Role string `json:"role"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	target, err := s.userService.SetRole(ctx, targetID, req.Role)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Role updated", "user": target})
}
