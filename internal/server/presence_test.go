package server

import (
	"context"
	"testing"

	"stackit/internal/models"
	"stackit/internal/notifications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkOnline_StampsPresenceOntoUserPage(t *testing.T) {
	hub := notifications.NewHub()
	defer func() { _ = hub.Shutdown(context.Background()) }()
	_, err := hub.Register(7, nil)
	require.NoError(t, err)

	s := &Server{hub: hub}
	users := []models.User{{ID: 7}, {ID: 8}}
	s.markOnline(users)

	assert.True(t, users[0].IsOnline)
	assert.False(t, users[1].IsOnline)
}

func TestMarkOnline_WithoutHubLeavesUsersOffline(t *testing.T) {
	s := &Server{}
	users := []models.User{{ID: 7}}
	s.markOnline(users)
	assert.False(t, users[0].IsOnline)
}

func TestPresenceOnline_FollowsConnectionLifecycle(t *testing.T) {
	hub := notifications.NewHub()
	defer func() { _ = hub.Shutdown(context.Background()) }()
	client, err := hub.Register(3, nil)
	require.NoError(t, err)

	s := &Server{hub: hub}
	assert.True(t, s.presenceOnline(3))

	hub.UnregisterClient(client)
	assert.False(t, s.presenceOnline(3))
}
