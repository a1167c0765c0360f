package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/nano-social/backend/internal/apperr"
	"github.com/anonto42/nano-social/backend/internal/models"
)

func TestFollowKeepsBothSidesInStep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "alice", "Alice")
	f.createUser(t, "bob", "Bob")

	require.NoError(t, f.follows.Follow(ctx, "alice", "bob"))
	f.dispatcher.Wait()

	ok, err := f.follows.IsFollowing(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, ok)

	followers, err := f.follows.Followers(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].ID)

	following, err := f.follows.Following(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "bob", following[0].ID)

	notes, err := f.dispatcher.List(ctx, "bob", 10, "")
	require.NoError(t, err)
	require.Len(t, notes.Items, 1)
	assert.Equal(t, models.NotificationFollow, notes.Items[0].Type)
	assert.Equal(t, "Alice started following you", notes.Items[0].Message)

	err = f.follows.Follow(ctx, "alice", "bob")
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	require.NoError(t, f.follows.Unfollow(ctx, "alice", "bob"))
	bob, err := f.store.GetUser(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, bob.Followers)
	alice, err := f.store.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, alice.Following)

	err = f.follows.Unfollow(ctx, "alice", "bob")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestFollowRejectsSelfAndMissingUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "alice", "Alice")

	err := f.follows.Follow(ctx, "alice", "alice")
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	err = f.follows.Follow(ctx, "alice", "ghost")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = f.follows.Followers(ctx, "ghost")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
