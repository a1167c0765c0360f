package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/anonto42/nano-social/backend/internal/metrics"
	"github.com/anonto42/nano-social/backend/internal/models"
)

// UserGetter is the slice of the user repository Profiles reads through.
type UserGetter interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// Profiles serves user summaries from the cache, loading misses from the
// store. Cache failures degrade to store reads.
type Profiles struct {
	users UserGetter
	cache Cache
	ttl   time.Duration
}

func NewProfiles(users UserGetter, c Cache, ttl time.Duration) *Profiles {
	if c == nil {
		c = Noop{}
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Profiles{users: users, cache: c, ttl: ttl}
}

func summaryKey(userID string) string { return "user-summary:" + userID }

// Summary returns the compact profile of userID. Store errors, including
// repositories.ErrNotFound, are returned unchanged.
func (p *Profiles) Summary(ctx context.Context, userID string) (*models.UserSummary, error) {
	key := summaryKey(userID)
	data, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		log.Warn("profile cache read failed", "user", userID, "err", err)
	}
	if ok {
		var s models.UserSummary
		if err := json.Unmarshal(data, &s); err == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return &s, nil
		}
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	u, err := p.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s := u.ToSummary()
	if data, err := json.Marshal(s); err == nil {
		if err := p.cache.Set(ctx, key, data, p.ttl); err != nil {
			log.Warn("profile cache write failed", "user", userID, "err", err)
		}
	}
	return &s, nil
}

// Invalidate drops the cached summary after a profile change.
func (p *Profiles) Invalidate(ctx context.Context, userID string) {
	if err := p.cache.Delete(ctx, summaryKey(userID)); err != nil {
		log.Warn("profile cache invalidation failed", "user", userID, "err", err)
	}
}
