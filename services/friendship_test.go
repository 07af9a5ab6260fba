package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"todoshare/models"
)

func profileIDs(ps []models.Profile) []string {
	ids := make([]string, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
	}
	return ids
}

func TestSendRequest_CreatesPendingEdge(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "u1", "alice@example.com", "Alice", "Smith")
	env.addUser(t, "u2", "bob@example.com", "Bob", "Jones")

	f, err := env.friends.SendRequest(context.Background(), "u1", "u2")
	require.NoError(t, err)

	assert.Equal(t, "u1", f.UserID)
	assert.Equal(t, "u2", f.FriendID)
	assert.Equal(t, models.StatusPending, f.Status)
	assert.NotEmpty(t, f.ID)
	assert.Equal(t, EventFriendsChanged, env.notifier.last().event)
	assert.ElementsMatch(t, []string{"u1", "u2"}, env.notifier.last().userIDs)
}

func TestSendRequest_Self(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "u1", "alice@example.com", "Alice", "Smith")

	_, err := env.friends.SendRequest(context.Background(), "u1", "u1")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Contains(t, err.Error(), "cannot friend self")
}

func TestSendRequest_UnknownRecipient(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "u1", "alice@example.com", "Alice", "Smith")

	_, err := env.friends.SendRequest(context.Background(), "u1", "ghost")
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestSendRequest_DuplicateInEitherDirection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "a", "a@example.com", "Ann", "A")
	env.addUser(t, "b", "b@example.com", "Ben", "B")

	_, err := env.friends.SendRequest(ctx, "a", "b")
	require.NoError(t, err)

	for _, pair := range [][2]string{{"a", "b"}, {"b", "a"}} {
		_, err := env.friends.SendRequest(ctx, pair[0], pair[1])
		require.Error(t, err, "%s -> %s", pair[0], pair[1])
		assert.Equal(t, KindConflict, KindOf(err))

		var existing *ExistingFriendshipError
		require.True(t, errors.As(err, &existing))
		assert.Equal(t, models.StatusPending, existing.Status)
	}
}

func TestSendRequest_ConflictSurfacesAcceptedStatus(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "a", "a@example.com", "Ann", "A")
	env.addUser(t, "b", "b@example.com", "Ben", "B")
	env.befriend(t, "a", "b")

	_, err := env.friends.SendRequest(context.Background(), "b", "a")
	var existing *ExistingFriendshipError
	require.True(t, errors.As(err, &existing))
	assert.Equal(t, models.StatusAccepted, existing.Status)
}

func TestSendRequestByEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "a", "a@example.com", "Ann", "A")
	env.addUser(t, "b", "b@example.com", "Ben", "B")

	f, err := env.friends.SendRequestByEmail(ctx, "a", "  B@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "b", f.FriendID)

	_, err = env.friends.SendRequestByEmail(ctx, "a", "nobody@example.com")
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Contains(t, PublicMessage(err), "email was not found")

	_, err = env.friends.SendRequestByEmail(ctx, "a", "   ")
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestRespond_AcceptIsSymmetric(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "a", "a@example.com", "Ann", "A")
	env.addUser(t, "b", "b@example.com", "Ben", "B")

	env.befriend(t, "a", "b")

	aFriends, err := env.friends.ListAccepted(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, profileIDs(aFriends))

	bFriends, err := env.friends.ListAccepted(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, profileIDs(bFriends))

	ok, err := env.friends.AreFriends(ctx, "b", "a")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRespond_DeclineDeletesEdge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "a", "a@example.com", "Ann", "A")
	env.addUser(t, "b", "b@example.com", "Ben", "B")

	f, err := env.friends.SendRequest(ctx, "a", "b")
	require.NoError(t, err)
	require.NoError(t, env.friends.Respond(ctx, "b", f.ID, models.ActionDecline))

	_, err = env.repos.Friendships.FindByID(ctx, f.ID)
	assert.Error(t, err)

	incoming, err := env.friends.ListIncoming(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, incoming)

	_, err = env.friends.SendRequest(ctx, "a", "b")
	assert.NoError(t, err, "a declined request can be sent again")
}

func TestRespond_OnlyRecipientMayAct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "a", "a@example.com", "Ann", "A")
	env.addUser(t, "b", "b@example.com", "Ben", "B")

	f, err := env.friends.SendRequest(ctx, "a", "b")
	require.NoError(t, err)

	err = env.friends.Respond(ctx, "a", f.ID, models.ActionAccept)
	assert.Equal(t, KindForbidden, KindOf(err))

	stored, err := env.repos.Friendships.FindByID(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestRespond_OutsiderIsForbiddenWhateverTheStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "a", "a@example.com", "Ann", "A")
	env.addUser(t, "b", "b@example.com", "Ben", "B")
	env.addUser(t, "c", "c@example.com", "Cat", "C")

	pending, err := env.friends.SendRequest(ctx, "a", "b")
	require.NoError(t, err)
	answered, err := env.friends.SendRequest(ctx, "a", "c")
	require.NoError(t, err)
	require.NoError(t, env.friends.Respond(ctx, "c", answered.ID, models.ActionAccept))

	err = env.friends.Respond(ctx, "c", pending.ID, models.ActionAccept)
	assert.Equal(t, KindForbidden, KindOf(err))

	err = env.friends.Respond(ctx, "b", answered.ID, models.ActionDecline)
	assert.Equal(t, KindForbidden, KindOf(err), "an answered edge looks the same as a pending one to outsiders")

	err = env.friends.Respond(ctx, "a", answered.ID, models.ActionAccept)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestRespond_NonPendingAndMissing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "a", "a@example.com", "Ann", "A")
	env.addUser(t, "b", "b@example.com", "Ben", "B")

	f, err := env.friends.SendRequest(ctx, "a", "b")
	require.NoError(t, err)
	require.NoError(t, env.friends.Respond(ctx, "b", f.ID, models.ActionAccept))

	err = env.friends.Respond(ctx, "b", f.ID, models.ActionDecline)
	assert.Equal(t, KindConflict, KindOf(err))

	err = env.friends.Respond(ctx, "b", "missing", models.ActionAccept)
	assert.Equal(t, KindNotFound, KindOf(err))

	err = env.friends.Respond(ctx, "b", f.ID, models.FriendAction("poke"))
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestRespond_BlockIsTerminal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "a", "a@example.com", "Ann", "Able")
	env.addUser(t, "b", "b@example.com", "Ben", "Baker")

	f, err := env.friends.SendRequest(ctx, "a", "b")
	require.NoError(t, err)
	require.NoError(t, env.friends.Respond(ctx, "b", f.ID, models.ActionBlock))

	incoming, err := env.friends.ListIncoming(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, incoming)

	_, err = env.friends.SendRequest(ctx, "a", "b")
	var existing *ExistingFriendshipError
	require.True(t, errors.As(err, &existing))
	assert.Equal(t, models.StatusBlocked, existing.Status)

	require.NoError(t, env.friends.Remove(ctx, "a", "b"))
	stored, err := env.repos.Friendships.FindByID(ctx, f.ID)
	require.NoError(t, err, "remove must not lift a block")
	assert.Equal(t, models.StatusBlocked, stored.Status)

	matches, err := env.friends.Search(ctx, "ann", "b")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestListIncoming_JoinsRequesterProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "a", "a@example.com", "Ann", "Able")
	env.addUser(t, "b", "b@example.com", "Ben", "Baker")
	env.addUser(t, "c", "c@example.com", "Cat", "Cole")

	_, err := env.friends.SendRequest(ctx, "a", "c")
	require.NoError(t, err)
	_, err = env.friends.SendRequest(ctx, "c", "b")
	require.NoError(t, err)

	incoming, err := env.friends.ListIncoming(ctx, "c")
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, "a", incoming[0].Profile.ID)
	assert.Equal(t, "Ann", *incoming[0].Profile.FirstName)

	outgoing, err := env.friends.ListOutgoing(ctx, "c")
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, "b", outgoing[0].Profile.ID)
}

func TestListAccepted_ExcludesPendingAndSorts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "me", "me@example.com", "Me", "Self")
	env.addUser(t, "z", "z@example.com", "Zed", "Z")
	env.addUser(t, "y", "y@example.com", "Amy", "Y")
	env.addUser(t, "p", "p@example.com", "Pending", "P")

	env.befriend(t, "me", "z")
	env.befriend(t, "y", "me")
	_, err := env.friends.SendRequest(ctx, "p", "me")
	require.NoError(t, err)

	friends, err := env.friends.ListAccepted(ctx, "me")
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "z"}, profileIDs(friends))
}

func TestRemove_EitherDirectionAndIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "a", "a@example.com", "Ann", "A")
	env.addUser(t, "b", "b@example.com", "Ben", "B")
	env.befriend(t, "a", "b")

	require.NoError(t, env.friends.Remove(ctx, "b", "a"))

	friends, err := env.friends.ListAccepted(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, friends)

	require.NoError(t, env.friends.Remove(ctx, "a", "b"))

	_, err = env.friends.SendRequest(ctx, "b", "a")
	assert.NoError(t, err)
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "me", "me@example.com", "Marty", "Mc")
	env.addUser(t, "u2", "jane.doe@example.com", "Jane", "Doe")
	env.addUser(t, "u3", "other@example.com", "Mary", "Martin")

	_, err := env.friends.Search(ctx, "ma", "me")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = env.friends.Search(ctx, "  ab  ", "me")
	assert.Equal(t, KindValidation, KindOf(err))

	matches, err := env.friends.Search(ctx, "MAR", "me")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "u3", matches[0].ID)

	matches, err = env.friends.Search(ctx, "jane.doe", "me")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "u2", matches[0].ID)
}
