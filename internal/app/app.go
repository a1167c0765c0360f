// Package app builds the process-wide dependency graph from configuration.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/anonto42/nano-social/backend/internal/cache"
	"github.com/anonto42/nano-social/backend/internal/identity"
	"github.com/anonto42/nano-social/backend/internal/media"
	"github.com/anonto42/nano-social/backend/internal/push"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/repositories/firestorestore"
	"github.com/anonto42/nano-social/backend/internal/repositories/memstore"
	"github.com/anonto42/nano-social/backend/internal/repositories/mongostore"
	"github.com/anonto42/nano-social/backend/internal/repositories/pgstore"
	"github.com/anonto42/nano-social/backend/internal/router"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/anonto42/nano-social/backend/pkg/config"
	"github.com/anonto42/nano-social/backend/pkg/firebase"
)

// localCacheBytes bounds the in-process profile cache.
const localCacheBytes = 64 << 20

// App owns the store, the outbound clients and the services built on them.
type App struct {
	Store      repositories.Store
	Dispatcher *services.NotificationDispatcher
	Deps       router.Dependencies

	closers []func(context.Context) error
}

// New connects every configured backend. On error, whatever was already
// opened is closed again.
func New(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	a := &App{}
	defer func() {
		if err != nil {
			_ = a.Close(context.Background())
		}
	}()

	var fb *firebase.App
	if cfg.NeedsFirebase() {
		fb, err = firebase.InitFirebase(ctx, firebase.Options{
			CredentialsPath: cfg.FirebaseCredentialsPath,
			ProjectID:       cfg.FirebaseProjectID,
			StorageBucket:   cfg.FirebaseStorageBucket,
		})
		if err != nil {
			return nil, err
		}
	}

	if a.Store, err = openStore(ctx, cfg, fb); err != nil {
		return nil, err
	}
	a.closers = append(a.closers, a.Store.Close)

	verifier, err := newVerifier(ctx, cfg, fb)
	if err != nil {
		return nil, err
	}
	gateway, err := newGateway(ctx, cfg, fb)
	if err != nil {
		return nil, err
	}
	blobs, err := newBlobStore(ctx, cfg, fb)
	if err != nil {
		return nil, err
	}
	summaries, err := a.newCache(ctx, cfg)
	if err != nil {
		return nil, err
	}

	profiles := cache.NewProfiles(a.Store, summaries, cfg.CacheTTL)
	a.Dispatcher = services.NewNotificationDispatcher(a.Store, gateway)
	a.Deps = router.Dependencies{
		Verifier:       verifier,
		Users:          services.NewUserService(a.Store, profiles),
		Follows:        services.NewFollowService(a.Store, profiles, a.Dispatcher),
		Conversations:  services.NewConversationService(a.Store, profiles, a.Dispatcher),
		Notifications:  a.Dispatcher,
		Posts:          services.NewPostService(a.Store, blobs, profiles, a.Dispatcher),
		Media:          services.NewMediaService(blobs, cfg.MediaMaxBytes),
		MaxUploadBytes: cfg.MediaMaxBytes,
	}
	log.Info("Application dependencies configured.", "store", cfg.StoreBackend, "auth", cfg.AuthMode,
		"push", cfg.PushBackend, "media", cfg.MediaBackend, "cache", cfg.CacheBackend)
	return a, nil
}

// Close waits for background notification work, then releases everything in
// reverse order of creation.
func (a *App) Close(ctx context.Context) error {
	if a.Dispatcher != nil {
		a.Dispatcher.Wait()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	a.closers = nil
	return errors.Join(errs...)
}

func openStore(ctx context.Context, cfg *config.Config, fb *firebase.App) (repositories.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendFirestore:
		client, err := fb.Firestore(ctx)
		if err != nil {
			return nil, err
		}
		return firestorestore.New(client), nil
	case config.BackendPostgres:
		db, err := config.InitPostgres(cfg.PostgresConnStr)
		if err != nil {
			return nil, err
		}
		return pgstore.New(db), nil
	case config.BackendMongo:
		client, err := config.InitMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		return mongostore.New(client, cfg.MongoDatabase), nil
	case config.BackendMemory:
		log.Warn("Using the in-memory store; data is lost on restart.")
		return memstore.New(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func newVerifier(ctx context.Context, cfg *config.Config, fb *firebase.App) (identity.Verifier, error) {
	if cfg.AuthMode == config.AuthJWT {
		return identity.NewJWTVerifier(cfg.JWTSecret)
	}
	client, err := fb.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return identity.NewFirebaseVerifier(client), nil
}

func newGateway(ctx context.Context, cfg *config.Config, fb *firebase.App) (push.Gateway, error) {
	if cfg.PushBackend == config.BackendNone {
		return push.Noop{}, nil
	}
	client, err := fb.Messaging(ctx)
	if err != nil {
		return nil, err
	}
	return push.NewFCMGateway(client), nil
}

func newBlobStore(ctx context.Context, cfg *config.Config, fb *firebase.App) (media.BlobStore, error) {
	switch cfg.MediaBackend {
	case config.BackendFirebase:
		bucket, name, err := fb.Bucket(ctx)
		if err != nil {
			return nil, err
		}
		return media.NewGCSStore(bucket, name, cfg.MediaPublicBaseURL), nil
	case config.BackendS3:
		return media.NewS3Store(ctx, media.S3Config{
			Bucket:       cfg.S3Bucket,
			Prefix:       cfg.S3Prefix,
			UsePathStyle: cfg.S3UsePathStyle,
			BaseURL:      cfg.MediaPublicBaseURL,
		})
	}
	return media.Disabled{}, nil
}

func (a *App) newCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.CacheBackend {
	case config.BackendRedis:
		c, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return c.Close() })
		return c, nil
	case config.BackendMemory:
		c, err := cache.NewLocalCache(localCacheBytes)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return c.Close() })
		return c, nil
	}
	return cache.Noop{}, nil
}
