package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"todoshare/models"
	"todoshare/repository"
)

type recordedEvent struct {
	event   string
	userIDs []string
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *recordingNotifier) Notify(event string, userIDs ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{event: event, userIDs: userIDs})
}

func (n *recordingNotifier) last() recordedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.events) == 0 {
		return recordedEvent{}
	}
	return n.events[len(n.events)-1]
}

type testEnv struct {
	repos    *repository.Repositories
	notifier *recordingNotifier
	profiles *ProfileService
	friends  *FriendshipService
	todos    *TodoService
	auth     *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repos := repository.NewMemory()
	n := &recordingNotifier{}
	profiles := NewProfileService(repos.Profiles, n, nil)
	friends := NewFriendshipService(repos, n, nil)
	return &testEnv{
		repos:    repos,
		notifier: n,
		profiles: profiles,
		friends:  friends,
		todos:    NewTodoService(repos.Todos, friends, n, nil),
		auth:     NewAuthService(repos.Users, profiles, "test-secret", time.Hour, nil),
	}
}

// addUser stores a user and its profile directly.
func (e *testEnv) addUser(t *testing.T, id, email, first, last string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, e.repos.Users.Create(ctx, &models.User{ID: id, Email: email, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, e.repos.Profiles.Create(ctx, &models.Profile{ID: id, FirstName: &first, LastName: &last}))
}

// befriend sends a request from a to b and accepts it.
func (e *testEnv) befriend(t *testing.T, a, b string) {
	t.Helper()
	ctx := context.Background()
	f, err := e.friends.SendRequest(ctx, a, b)
	require.NoError(t, err)
	require.NoError(t, e.friends.Respond(ctx, b, f.ID, models.ActionAccept))
}

func strPtr(s string) *string { return &s }
