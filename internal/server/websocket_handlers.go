// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"stackit/internal/middleware"
	"stackit/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// wsTicketTTL is how long an issued WebSocket ticket stays redeemable.
const wsTicketTTL = 30 * time.Second

// consumedTicketEntry records a ticket already claimed from Redis.
type consumedTicketEntry struct {
	userID    uint
	consumeAt time.Time
}

// redeemWSTicket atomically claims the ticket from Redis. Claimed websocket
// tickets stay in an in-process cache because the upgrade handshake passes
// through the auth middleware more than once; non-websocket callers consume
// the ticket outright.
func (s *Server) redeemWSTicket(ctx context.Context, ticket string, keepForHandshake bool) (uint, bool) {
	s.consumedTicketsMu.Lock()
	entry, cached := s.consumedTickets[ticket]
	if cached && time.Since(entry.consumeAt) > wsTicketTTL {
		delete(s.consumedTickets, ticket)
		cached = false
	}
	s.consumedTicketsMu.Unlock()
	if cached {
		return entry.userID, true
	}

	key := fmt.Sprintf("ws_ticket:%s", ticket)
	userIDStr, err := s.redis.GetDel(ctx, key).Result()
	if err != nil {
		return 0, false
	}
	userID, err := strconv.ParseUint(userIDStr, 10, 32)
	if err != nil {
		return 0, false
	}

	if keepForHandshake {
		s.consumedTicketsMu.Lock()
		s.consumedTickets[ticket] = consumedTicketEntry{userID: uint(userID), consumeAt: time.Now()}
		s.consumedTicketsMu.Unlock()
	}
	return uint(userID), true
}

// consumeWSTicket drops a handshake ticket from the in-process cache once the
// connection it authenticated is registered. Accepts the raw Locals value.
func (s *Server) consumeWSTicket(_ context.Context, ticketVal any) {
	ticket, ok := ticketVal.(string)
	if !ok || ticket == "" {
		return
	}
	s.consumedTicketsMu.Lock()
	delete(s.consumedTickets, ticket)
	s.consumedTicketsMu.Unlock()
}

// IssueWSTicket handles POST /api/ws/ticket
// Browsers cannot set an Authorization header on WebSocket upgrades, so
// authenticated clients exchange their JWT for a short-lived single-use
// ticket passed as a query parameter.
func (s *Server) IssueWSTicket(c *fiber.Ctx) error {
	userID := currentUserID(c)

	if s.redis == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewInternalError(fmt.Errorf("realtime delivery unavailable")))
	}

	ticket := uuid.New().String()
	key := fmt.Sprintf("ws_ticket:%s", ticket)
	if err := s.redis.Set(c.Context(), key, fmt.Sprintf("%d", userID), wsTicketTTL).Err(); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"ticket":     ticket,
		"expires_in": int(wsTicketTTL.Seconds()),
	})
}

// WebsocketHandler returns a websocket handler that registers connections with the Hub.
// Authentication is handled by route middleware and userID is read from connection locals.
func (s *Server) WebsocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		userIDVal := conn.Locals("userID")
		if userIDVal == nil {
			if cerr := conn.Close(); cerr != nil {
				log.Printf("websocket close error: %v", cerr)
			}
			return
		}
		uid, ok := userIDVal.(uint)
		if !ok {
			if cerr := conn.Close(); cerr != nil {
				log.Printf("websocket close error: %v", cerr)
			}
			return
		}

		if s.hub == nil {
			_ = conn.Close()
			return
		}

		// Register connection with scaling guardrails
		client, err := s.hub.Register(uid, conn)
		if err != nil {
			log.Printf("WebSocket Notification: Failed to register user %d: %v", uid, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		defer s.hub.UnregisterClient(client)

		// The handshake is over; retire its ticket.
		s.consumeWSTicket(context.Background(), conn.Locals("wsTicket"))

		// Start pumps
		go client.WritePump()
		client.ReadPump()
	})
}
