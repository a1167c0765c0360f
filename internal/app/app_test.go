package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/nano-social/backend/internal/cache"
	"github.com/anonto42/nano-social/backend/internal/media"
	"github.com/anonto42/nano-social/backend/internal/repositories/memstore"
	"github.com/anonto42/nano-social/backend/pkg/config"
)

func memoryConfig() *config.Config {
	return &config.Config{
		StoreBackend:  config.BackendMemory,
		AuthMode:      config.AuthJWT,
		JWTSecret:     "app-test-secret-0123456789",
		PushBackend:   config.BackendNone,
		MediaBackend:  config.BackendNone,
		CacheBackend:  config.BackendMemory,
		MediaMaxBytes: 1 << 20,
	}
}

func TestNewWiresMemoryBackends(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, memoryConfig())
	require.NoError(t, err)

	assert.IsType(t, &memstore.Store{}, a.Store)
	assert.NotNil(t, a.Deps.Verifier)
	assert.NotNil(t, a.Deps.Conversations)
	assert.Same(t, a.Dispatcher, a.Deps.Notifications)
	assert.Equal(t, int64(1<<20), a.Deps.MaxUploadBytes)
	require.Len(t, a.closers, 2)

	require.NoError(t, a.Close(ctx))
	assert.Empty(t, a.closers)
}

func TestNewRejectsUnknownStore(t *testing.T) {
	cfg := memoryConfig()
	cfg.StoreBackend = "dynamo"
	_, err := New(context.Background(), cfg)
	assert.ErrorContains(t, err, "unknown store backend")
}

func TestOptionalBackendsDefaultToNoops(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig()
	cfg.CacheBackend = config.BackendNone

	blobs, err := newBlobStore(ctx, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, media.Disabled{}, blobs)

	a := &App{}
	c, err := a.newCache(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, cache.Noop{}, c)
	assert.Empty(t, a.closers)
}
