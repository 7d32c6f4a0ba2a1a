// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"stackit/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	page := parsePagination(c, 20)

	notifs, err := s.notificationService.List(ctx, userID, false, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.JSON(notifs)
}

// GetUnreadNotifications handles GET /api/notifications/unread
func (s *Server) GetUnreadNotifications(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	page := parsePagination(c, 20)

	notifs, err := s.notificationService.List(ctx, userID, true, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.JSON(notifs)
}

// GetNotificationCount handles GET /api/notifications/count
func (s *Server) GetNotificationCount(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	count, err := s.notificationService.UnreadCount(ctx, userID)
	if err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// MarkNotificationRead handles PUT /api/notifications/:id/read
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.notificationService.MarkRead(ctx, id, userID); err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead handles PUT /api/notifications/read-all
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	if err := s.notificationService.MarkAllRead(ctx, userID); err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.JSON(fiber.Map{"message": "All notifications marked as read"})
}

// DeleteNotification handles DELETE /api/notifications/:id
func (s *Server) DeleteNotification(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.notificationService.Delete(ctx, id, userID); err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteAllNotifications handles DELETE /api/notifications
func (s *Server) DeleteAllNotifications(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	if err := s.notificationService.DeleteAll(ctx, userID); err != nil {
		return models.RespondWithDomainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
