package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"todoshare/database"
	"todoshare/models"
)

// Both backends must pass the same behavior checks. The SQL backend runs
// only when TODOSHARE_TEST_DSN points at a scratch database, for example
//
//	TODOSHARE_TEST_DB_DRIVER=mysql TODOSHARE_TEST_DSN='root:pw@tcp(localhost:3306)/todoshare_test?parseTime=true'
//	TODOSHARE_TEST_DB_DRIVER=postgres TODOSHARE_TEST_DSN='postgres://postgres:pw@localhost:5432/todoshare_test'
//
// Every table is emptied before each case.

func TestMemoryRepositories(t *testing.T) {
	runRepositoryContract(t, func(t *testing.T) *Repositories { return NewMemory() })
}

func TestSQLRepositories(t *testing.T) {
	dsn := os.Getenv("TODOSHARE_TEST_DSN")
	if dsn == "" {
		t.Skip("TODOSHARE_TEST_DSN not set")
	}
	driver := os.Getenv("TODOSHARE_TEST_DB_DRIVER")
	if driver == "" {
		driver = "mysql"
	}

	ctx := context.Background()
	db, err := database.Open(ctx, driver, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.CreateTables(ctx, db, driver))

	runRepositoryContract(t, func(t *testing.T) *Repositories {
		for _, table := range []string{"todos", "friendships", "profiles", "users"} {
			_, err := db.ExecContext(ctx, "DELETE FROM "+table)
			require.NoError(t, err)
		}
		repos, err := NewSQL(db, driver)
		require.NoError(t, err)
		return repos
	})
}

func runRepositoryContract(t *testing.T, open func(t *testing.T) *Repositories) {
	cases := []struct {
		name string
		fn   func(t *testing.T, repos *Repositories)
	}{
		{"users unique email", testUsersUniqueEmail},
		{"profile update", testProfileUpdate},
		{"friendship pair is unordered", testFriendshipPairIsUnordered},
		{"concurrent requests for one pair", testFriendshipConcurrentCreate},
		{"friendship conditional writes", testFriendshipConditionalWrites},
		{"friendship lists", testFriendshipLists},
		{"search skips blocked", testSearchSkipsBlocked},
		{"todo visibility and ownership", testTodoVisibilityAndOwnership},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, open(t))
		})
	}
}

func seedUser(t *testing.T, repos *Repositories, id, email, first string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, repos.Users.Create(ctx, &models.User{ID: id, Email: email, Password: "hash", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, repos.Profiles.Create(ctx, &models.Profile{ID: id, FirstName: &first}))
}

func seedEdge(t *testing.T, repos *Repositories, id, from, to string, status models.FriendshipStatus) {
	t.Helper()
	now := time.Now()
	require.NoError(t, repos.Friendships.Create(context.Background(), &models.Friendship{
		ID: id, UserID: from, FriendID: to, Status: status, CreatedAt: now, UpdatedAt: now,
	}))
}

func testUsersUniqueEmail(t *testing.T, repos *Repositories) {
	ctx := context.Background()
	seedUser(t, repos, "1", "a@example.com", "Ann")

	now := time.Now()
	err := repos.Users.Create(ctx, &models.User{ID: "2", Email: "a@example.com", Password: "hash", CreatedAt: now, UpdatedAt: now})
	assert.ErrorIs(t, err, ErrDuplicate)

	u, err := repos.Users.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)

	_, err = repos.Users.FindByEmail(ctx, "b@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repos.Users.FindByID(ctx, "2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func testProfileUpdate(t *testing.T, repos *Repositories) {
	ctx := context.Background()
	seedUser(t, repos, "a", "a@example.com", "Ann")

	last := "Lee"
	require.NoError(t, repos.Profiles.Update(ctx, &models.Profile{ID: "a", LastName: &last}))
	p, err := repos.Profiles.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, p.FirstName)
	assert.Equal(t, "Lee", *p.LastName)

	assert.ErrorIs(t, repos.Profiles.Update(ctx, &models.Profile{ID: "missing"}), ErrNotFound)
	_, err = repos.Profiles.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func testFriendshipPairIsUnordered(t *testing.T, repos *Repositories) {
	ctx := context.Background()
	seedUser(t, repos, "a", "a@example.com", "Ann")
	seedUser(t, repos, "b", "b@example.com", "Ben")
	seedEdge(t, repos, "f1", "a", "b", models.StatusPending)

	now := time.Now()
	err := repos.Friendships.Create(ctx, &models.Friendship{
		ID: "f2", UserID: "b", FriendID: "a", Status: models.StatusPending, CreatedAt: now, UpdatedAt: now,
	})
	assert.ErrorIs(t, err, ErrDuplicate)

	f, err := repos.Friendships.FindBetween(ctx, "b", "a")
	require.NoError(t, err)
	assert.Equal(t, "f1", f.ID)
	assert.Equal(t, "a", f.UserID)
	assert.Equal(t, models.StatusPending, f.Status)
}

func testFriendshipConcurrentCreate(t *testing.T, repos *Repositories) {
	ctx := context.Background()
	seedUser(t, repos, "a", "a@example.com", "Ann")
	seedUser(t, repos, "b", "b@example.com", "Ben")

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			from, to := "a", "b"
			if i%2 == 1 {
				from, to = "b", "a"
			}
			now := time.Now()
			errs[i] = repos.Friendships.Create(ctx, &models.Friendship{
				ID: fmt.Sprintf("f%d", i), UserID: from, FriendID: to,
				Status: models.StatusPending, CreatedAt: now, UpdatedAt: now,
			})
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.True(t, errors.Is(err, ErrDuplicate), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, created)
}

func testFriendshipConditionalWrites(t *testing.T, repos *Repositories) {
	ctx := context.Background()
	seedUser(t, repos, "a", "a@example.com", "Ann")
	seedUser(t, repos, "b", "b@example.com", "Ben")
	seedEdge(t, repos, "f1", "a", "b", models.StatusPending)

	changed, err := repos.Friendships.UpdateStatus(ctx, "f1", models.StatusAccepted, models.StatusBlocked)
	require.NoError(t, err)
	assert.False(t, changed, "from status must match")

	changed, err = repos.Friendships.UpdateStatus(ctx, "f1", models.StatusPending, models.StatusAccepted)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repos.Friendships.UpdateStatus(ctx, "f1", models.StatusPending, models.StatusAccepted)
	require.NoError(t, err)
	assert.False(t, changed, "second accept loses")

	deleted, err := repos.Friendships.DeleteIfStatus(ctx, "f1", models.StatusPending)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repos.Friendships.DeleteBetween(ctx, "b", "a", models.StatusBlocked)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repos.Friendships.DeleteBetween(ctx, "b", "a", models.StatusPending, models.StatusAccepted)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = repos.Friendships.FindByID(ctx, "f1")
	assert.ErrorIs(t, err, ErrNotFound)

	seedEdge(t, repos, "f2", "b", "a", models.StatusPending)
	deleted, err = repos.Friendships.DeleteIfStatus(ctx, "f2", models.StatusPending)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func testFriendshipLists(t *testing.T, repos *Repositories) {
	ctx := context.Background()
	seedUser(t, repos, "a", "a@example.com", "Ann")
	seedUser(t, repos, "b", "b@example.com", "Ben")
	seedUser(t, repos, "c", "c@example.com", "Cat")
	seedUser(t, repos, "d", "d@example.com", "Dan")

	seedEdge(t, repos, "f1", "b", "a", models.StatusPending)
	seedEdge(t, repos, "f2", "a", "c", models.StatusAccepted)
	seedEdge(t, repos, "f3", "d", "a", models.StatusAccepted)
	seedEdge(t, repos, "f4", "d", "c", models.StatusBlocked)

	incoming, err := repos.Friendships.ListIncoming(ctx, "a")
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, "f1", incoming[0].ID)
	assert.Equal(t, "b", incoming[0].Profile.ID)
	assert.Equal(t, "Ben", *incoming[0].Profile.FirstName)

	outgoing, err := repos.Friendships.ListOutgoing(ctx, "b")
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, "a", outgoing[0].Profile.ID)

	outgoing, err = repos.Friendships.ListOutgoing(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, outgoing)

	// a sits on the requester side of f2 and the recipient side of f3.
	friends, err := repos.Friendships.ListAcceptedProfiles(ctx, "a")
	require.NoError(t, err)
	ids := make([]string, 0, len(friends))
	for _, p := range friends {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []string{"c", "d"}, ids)

	friends, err = repos.Friendships.ListAcceptedProfiles(ctx, "c")
	require.NoError(t, err)
	require.Len(t, friends, 1, "blocked edges are not friends")
	assert.Equal(t, "a", friends[0].ID)
	assert.Equal(t, "Ann", *friends[0].FirstName)
}

func testSearchSkipsBlocked(t *testing.T, repos *Repositories) {
	ctx := context.Background()
	seedUser(t, repos, "me", "me@example.com", "Me")
	seedUser(t, repos, "x", "sam.one@example.com", "Sam")
	seedUser(t, repos, "y", "other@example.com", "Samantha")
	seedUser(t, repos, "z", "zed@example.com", "Zed")
	seedEdge(t, repos, "f1", "y", "me", models.StatusBlocked)

	matches, err := repos.Profiles.Search(ctx, "SAM", "me", 20)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "x", matches[0].ID)
	assert.Equal(t, "sam.one@example.com", matches[0].Email)

	matches, err = repos.Profiles.Search(ctx, "sam", "z", 20)
	require.NoError(t, err)
	assert.Len(t, matches, 2, "the block only hides the pair from each other")

	matches, err = repos.Profiles.Search(ctx, "zed@", "me", 20)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "z", matches[0].ID)

	matches, err = repos.Profiles.Search(ctx, "_", "me", 20)
	require.NoError(t, err)
	assert.Empty(t, matches, "wildcards match literally")

	matches, err = repos.Profiles.Search(ctx, "example", "me", 1)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func testTodoVisibilityAndOwnership(t *testing.T, repos *Repositories) {
	ctx := context.Background()
	seedUser(t, repos, "a", "a@example.com", "Ann")
	seedUser(t, repos, "b", "b@example.com", "Ben")
	seedUser(t, repos, "c", "c@example.com", "Cat")

	base := time.Now().Add(-time.Hour)
	a := "a"
	require.NoError(t, repos.Todos.Create(ctx, &models.Todo{ID: "t1", Text: "mine", UserID: "a", CreatedAt: base}))
	require.NoError(t, repos.Todos.Create(ctx, &models.Todo{ID: "t2", Text: "for b", UserID: "b", SharedByUserID: &a, CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, repos.Todos.Create(ctx, &models.Todo{ID: "t3", Text: "c only", UserID: "c", CreatedAt: base}))

	visible, err := repos.Todos.ListVisible(ctx, "a")
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, "t2", visible[0].ID, "newest first")
	require.NotNil(t, visible[0].SharedByUserID)
	assert.Equal(t, "a", *visible[0].SharedByUserID)
	assert.Equal(t, "Ann", *visible[0].SharedByFirstName)
	assert.Equal(t, "Ben", *visible[0].AssignedToFirstName)
	assert.Equal(t, "t1", visible[1].ID)
	assert.Nil(t, visible[1].SharedByUserID)
	assert.Nil(t, visible[1].SharedByFirstName)
	assert.Nil(t, visible[1].AssignedToFirstName)

	visible, err = repos.Todos.ListVisible(ctx, "b")
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "t2", visible[0].ID)

	changed, err := repos.Todos.ToggleCompleted(ctx, "t2", "a")
	require.NoError(t, err)
	assert.False(t, changed, "only the owner may toggle")

	changed, err = repos.Todos.ToggleCompleted(ctx, "t2", "b")
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := repos.Todos.FindByID(ctx, "t2")
	require.NoError(t, err)
	assert.True(t, got.Completed)

	deleted, err := repos.Todos.Delete(ctx, "t3", "a")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repos.Todos.Delete(ctx, "t3", "c")
	require.NoError(t, err)
	assert.True(t, deleted)
	_, err = repos.Todos.FindByID(ctx, "t3")
	assert.ErrorIs(t, err, ErrNotFound)
}
