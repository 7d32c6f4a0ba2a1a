package server

import (
	"context"

	"stackit/internal/models"
)

// presenceOnline reports live websocket presence for one user. Without a hub
// (no Redis) everyone reads as offline.
func (s *Server) presenceOnline(userID uint) bool {
	return s.hub != nil && s.hub.IsOnline(userID)
}

// markOnline stamps live presence onto a page of user payloads with a single
// presence lookup.
func (s *Server) markOnline(users []models.User) {
	if s.hub == nil || len(users) == 0 {
		return
	}
	online := make(map[uint]struct{})
	for _, id := range s.hub.OnlineUserIDs(context.Background()) {
		online[id] = struct{}{}
	}
	for i := range users {
		_, ok := online[users[i].ID]
		users[i].IsOnline = ok
	}
}
