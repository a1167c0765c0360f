package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/testutil/testredis"
)

func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte("v1"), time.Minute))
	v, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v1", string(v))

	require.NoError(t, c.Delete(ctx, "k"))
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalCache(t *testing.T) {
	c, err := NewLocalCache(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	exerciseCache(t, c)
}

func TestRedisCache(t *testing.T) {
	if testing.Short() {
		t.Skip("redis container test skipped in -short mode")
	}
	c, err := NewRedisCache(context.Background(), testredis.StartRedis(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	exerciseCache(t, c)
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, Noop{}.Set(ctx, "k", []byte("v"), time.Minute))
	_, ok, err := Noop{}.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

type countingUsers struct {
	users map[string]*models.User
	calls atomic.Int32
}

func (c *countingUsers) GetUser(_ context.Context, id string) (*models.User, error) {
	c.calls.Add(1)
	u, ok := c.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return u, nil
}

func TestProfiles(t *testing.T) {
	ctx := context.Background()
	users := &countingUsers{users: map[string]*models.User{
		"u1": {ID: "u1", DisplayName: "Ada", Handle: "ada"},
	}}
	local, err := NewLocalCache(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = local.Close() })
	profiles := NewProfiles(users, local, time.Minute)

	s, err := profiles.Summary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", s.DisplayName)

	s, err = profiles.Summary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ada", s.Handle)
	assert.EqualValues(t, 1, users.calls.Load())

	users.users["u1"].DisplayName = "Ada L."
	profiles.Invalidate(ctx, "u1")
	s, err = profiles.Summary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", s.DisplayName)
	assert.EqualValues(t, 2, users.calls.Load())

	_, err = profiles.Summary(ctx, "ghost")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestProfilesWithoutCache(t *testing.T) {
	users := &countingUsers{users: map[string]*models.User{"u1": {ID: "u1"}}}
	profiles := NewProfiles(users, nil, 0)
	for i := 0; i < 3; i++ {
		_, err := profiles.Summary(context.Background(), "u1")
		require.NoError(t, err)
	}
	assert.EqualValues(t, 3, users.calls.Load())
}
