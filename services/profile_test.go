package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"todoshare/models"
)

func TestProfileGet_CreatesOnFirstRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.profiles.Get(ctx, "new-user")
	require.NoError(t, err)
	assert.Equal(t, "new-user", p.ID)
	assert.Nil(t, p.FirstName)

	again, err := env.profiles.Get(ctx, "new-user")
	require.NoError(t, err)
	assert.Equal(t, p, again)
}

func TestProfileUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "a", "a@example.com", "Ann", "Able")

	p, err := env.profiles.Update(ctx, "a", models.ProfileUpdate{FirstName: strPtr(" Anna ")})
	require.NoError(t, err)
	assert.Equal(t, "Anna", *p.FirstName)
	assert.Equal(t, "Able", *p.LastName, "nil fields are left alone")
	assert.Equal(t, EventProfileChanged, env.notifier.last().event)

	p, err = env.profiles.Update(ctx, "a", models.ProfileUpdate{LastName: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, p.LastName)

	p, err = env.profiles.SetAvatar(ctx, "a", "/files/a.png")
	require.NoError(t, err)
	require.NotNil(t, p.AvatarURL)
	assert.Equal(t, "/files/a.png", *p.AvatarURL)

	stored, err := env.repos.Profiles.FindByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, p, stored)
}
