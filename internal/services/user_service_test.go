package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/nano-social/backend/internal/apperr"
	"github.com/anonto42/nano-social/backend/internal/models"
)

// countingProfiles records invalidations.
type countingProfiles struct {
	invalidated []string
}

func (p *countingProfiles) Summary(_ context.Context, userID string) (*models.UserSummary, error) {
	return &models.UserSummary{ID: userID, DisplayName: userID}, nil
}

func (p *countingProfiles) Invalidate(_ context.Context, userID string) {
	p.invalidated = append(p.invalidated, userID)
}

func TestUserProfileLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	profiles := &countingProfiles{}
	f.users.profiles = profiles

	created, err := f.users.CreateProfile(ctx, "alice", models.CreateProfileRequest{DisplayName: " Alice ", Handle: "alice"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", created.DisplayName)
	assert.NotNil(t, created.Followers)

	_, err = f.users.CreateProfile(ctx, "alice", models.CreateProfileRequest{DisplayName: "Again", Handle: "again"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = f.users.UpdateProfile(ctx, "alice", models.ProfileUpdate{})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	bio := "hello there"
	updated, err := f.users.UpdateProfile(ctx, "alice", models.ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, bio, updated.Bio)
	assert.Equal(t, "Alice", updated.DisplayName)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	assert.Equal(t, []string{"alice"}, profiles.invalidated)

	_, err = f.users.GetProfile(ctx, "ghost")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestPushTokenRegistration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "alice", "Alice")

	require.NoError(t, f.users.RegisterPushToken(ctx, "alice", "tok-1"))
	require.NoError(t, f.users.RegisterPushToken(ctx, "alice", "tok-1"))
	require.NoError(t, f.users.RegisterPushToken(ctx, "alice", "tok-2"))

	u, err := f.store.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-1", "tok-2"}, u.PushTokens)

	require.NoError(t, f.users.UnregisterPushToken(ctx, "alice", "tok-1"))
	u, err = f.store.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-2"}, u.PushTokens)

	err = f.users.RegisterPushToken(ctx, "alice", "  ")
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	err = f.users.RegisterPushToken(ctx, "ghost", "tok")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCreateProfileRejectsUnusableIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, id := range []string{"", "a_b", "team/alice"} {
		_, err := f.users.CreateProfile(ctx, id, models.CreateProfileRequest{DisplayName: "X", Handle: "x"})
		assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err), id)
	}
}
