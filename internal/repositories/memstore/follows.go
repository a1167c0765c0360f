package memstore

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

func (s *Store) CreateFollow(_ context.Context, follow *models.Follow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	follower, ok := s.users[follow.FollowerID]
	if !ok {
		return repositories.ErrNotFound
	}
	followee, ok := s.users[follow.FolloweeID]
	if !ok {
		return repositories.ErrNotFound
	}
	key := models.FollowKey(follow.FollowerID, follow.FolloweeID)
	if _, ok := s.follows[key]; ok {
		return repositories.ErrConflict
	}
	edge := *follow
	s.follows[key] = &edge
	follower.Following = addString(follower.Following, follow.FolloweeID)
	followee.Followers = addString(followee.Followers, follow.FollowerID)
	return nil
}

func (s *Store) DeleteFollow(_ context.Context, followerID, followeeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := models.FollowKey(followerID, followeeID)
	if _, ok := s.follows[key]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.follows, key)
	if u, ok := s.users[followerID]; ok {
		u.Following = removeString(u.Following, followeeID)
	}
	if u, ok := s.users[followeeID]; ok {
		u.Followers = removeString(u.Followers, followerID)
	}
	return nil
}

func (s *Store) IsFollowing(_ context.Context, followerID, followeeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.follows[models.FollowKey(followerID, followeeID)]
	return ok, nil
}
