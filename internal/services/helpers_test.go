package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anonto42/nano-social/backend/internal/cache"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/push"
	"github.com/anonto42/nano-social/backend/internal/repositories/memstore"
)

// steppingClock advances one second per call so creation order is strict.
func steppingClock() Clock {
	var n atomic.Int64
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		return base.Add(time.Duration(n.Add(1)) * time.Second)
	}
}

func sequentialIDs(prefix string) IDFunc {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("%s-%04d", prefix, n.Add(1))
	}
}

// fakeGateway records every send and fails tokens listed in errs.
type fakeGateway struct {
	mu    sync.Mutex
	errs  map[string]error
	sent  []string
	msgs  []push.Message
	delay time.Duration
}

func (g *fakeGateway) Send(ctx context.Context, token string, msg push.Message) error {
	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = append(g.sent, token)
	g.msgs = append(g.msgs, msg)
	return g.errs[token]
}

func (g *fakeGateway) sentTokens() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.sent...)
}

type fixture struct {
	store         *memstore.Store
	gateway       *fakeGateway
	dispatcher    *NotificationDispatcher
	conversations *ConversationService
	follows       *FollowService
	users         *UserService
	posts         *PostService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	gateway := &fakeGateway{errs: map[string]error{}}
	clock := steppingClock()
	profiles := cache.NewProfiles(store, cache.Noop{}, time.Minute)

	dispatcher := NewNotificationDispatcher(store, gateway)
	dispatcher.now = clock
	dispatcher.newID = sequentialIDs("n")

	conversations := NewConversationService(store, profiles, dispatcher)
	conversations.now = clock
	conversations.newID = sequentialIDs("m")

	follows := NewFollowService(store, profiles, dispatcher)
	follows.now = clock

	users := NewUserService(store, profiles)
	users.now = clock

	posts := NewPostService(store, nil, profiles, dispatcher)
	posts.now = clock
	posts.newID = sequentialIDs("p")

	t.Cleanup(dispatcher.Wait)
	return &fixture{
		store:         store,
		gateway:       gateway,
		dispatcher:    dispatcher,
		conversations: conversations,
		follows:       follows,
		users:         users,
		posts:         posts,
	}
}

func (f *fixture) createUser(t *testing.T, id, name string) {
	t.Helper()
	_, err := f.users.CreateProfile(context.Background(), id, models.CreateProfileRequest{
		DisplayName: name,
		Handle:      id,
	})
	require.NoError(t, err)
}
