// Package memstore is an in-process Store used for local development and
// tests. One mutex serializes every operation, which makes each call atomic.
package memstore

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

type Store struct {
	mu            sync.Mutex
	users         map[string]*models.User
	follows       map[string]*models.Follow
	chats         map[string]*models.Chat
	messages      map[string][]*models.Message
	notifications map[string]*models.Notification
	posts         map[string]*models.Post
	likes         map[string]*models.Like
	comments      map[string][]*models.Comment
}

var _ repositories.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:         make(map[string]*models.User),
		follows:       make(map[string]*models.Follow),
		chats:         make(map[string]*models.Chat),
		messages:      make(map[string][]*models.Message),
		notifications: make(map[string]*models.Notification),
		posts:         make(map[string]*models.Post),
		likes:         make(map[string]*models.Like),
		comments:      make(map[string][]*models.Comment),
	}
}

func (s *Store) Close(context.Context) error { return nil }

// pageAfter orders items newest first (id breaks ties) and returns the
// window that follows the cursor item.
func pageAfter[T any](items []T, key func(T) (time.Time, string), pageSize int, cursor string) []T {
	sorted := slices.Clone(items)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, idi := key(sorted[i])
		tj, idj := key(sorted[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi > idj
	})

	start := 0
	if cursor != "" {
		for i, item := range sorted {
			if _, id := key(item); id == cursor {
				start = i + 1
				break
			}
		}
	}
	if start >= len(sorted) {
		return []T{}
	}
	end := start + pageSize
	if end > len(sorted) {
		end = len(sorted)
	}
	return sorted[start:end]
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Followers = slices.Clone(u.Followers)
	c.Following = slices.Clone(u.Following)
	c.Posts = slices.Clone(u.Posts)
	c.PushTokens = slices.Clone(u.PushTokens)
	return &c
}

func cloneChat(ch *models.Chat) *models.Chat {
	c := *ch
	c.Participants = slices.Clone(ch.Participants)
	c.UnreadCount = make(map[string]int, len(ch.UnreadCount))
	for k, v := range ch.UnreadCount {
		c.UnreadCount[k] = v
	}
	return &c
}

func removeString(list []string, value string) []string {
	return slices.DeleteFunc(slices.Clone(list), func(s string) bool { return s == value })
}

func addString(list []string, value string) []string {
	if slices.Contains(list, value) {
		return list
	}
	return append(list, value)
}
