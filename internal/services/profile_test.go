package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/inkwell-backend/internal/memstore"
	"github.com/AnshRaj112/inkwell-backend/internal/models"
)

func TestProfile_UpdateUsernameAndProfile(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	alice := f.register(t, "alice", "alice@x.com", "Passw0rd!").User
	f.register(t, "bob", "bob@x.com", "Passw0rd!")

	svc := NewProfileService(f.users, memstore.NewPosts(), f.svc, nil)

	updated, err := svc.Update(ctx, alice, ProfileUpdate{
		Username: "alice_w",
		Profile:  &models.Profile{FirstName: "Alice", Age: 30},
	})
	require.NoError(t, err)
	assert.Equal(t, "alice_w", updated.Username)
	assert.Equal(t, "alice@x.com", updated.Email)
	assert.Equal(t, 30, updated.Profile.Age)

	_, err = svc.Update(ctx, updated, ProfileUpdate{Username: "bob"})
	assert.ErrorIs(t, err, models.ErrUsernameTaken)

	_, err = svc.Update(ctx, updated, ProfileUpdate{Username: "no spaces"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestProfile_UpdatePassword(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	alice := f.register(t, "alice", "alice@x.com", "Passw0rd!").User
	svc := NewProfileService(f.users, memstore.NewPosts(), f.svc, nil)

	_, err := svc.Update(ctx, alice, ProfileUpdate{Password: "short"})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = svc.Update(ctx, alice, ProfileUpdate{Password: "Changed1!"})
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, "alice", "Changed1!")
	assert.NoError(t, err)
	_, err = f.svc.Login(ctx, "alice", "Passw0rd!")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestProfile_GetAndActivity(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	alice := f.register(t, "alice", "alice@x.com", "Passw0rd!").User

	posts := memstore.NewPosts()
	require.NoError(t, posts.Create(ctx, &models.Post{Title: "t", Body: "b", Author: "alice@x.com"}))
	require.NoError(t, posts.Create(ctx, &models.Post{Title: "t", Body: "b", Author: "bob@x.com"}))

	svc := NewProfileService(f.users, posts, f.svc, nil)

	view, err := svc.Get(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "alice", view.User.Username)
	assert.Len(t, view.Posts, 1)

	_, err = svc.Activity(ctx, alice)
	assert.ErrorIs(t, err, models.ErrUnavailable)

	_, err = svc.Get(ctx, nil)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}
