package services

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/apperr"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

// FollowStore is the storage the follow service needs.
type FollowStore interface {
	repositories.FollowRepository
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUsers(ctx context.Context, ids []string) ([]models.User, error)
}

// FollowService maintains the follow graph.
type FollowService struct {
	store    FollowStore
	profiles ProfileLookup
	notifier Notifier
	now      Clock
}

func NewFollowService(store FollowStore, profiles ProfileLookup, notifier Notifier) *FollowService {
	return &FollowService{store: store, profiles: profiles, notifier: notifier, now: systemClock}
}

// Follow makes callerID follow targetID and notifies the target.
func (s *FollowService) Follow(ctx context.Context, callerID, targetID string) error {
	if callerID == targetID {
		return apperr.InvalidInput("You cannot follow yourself")
	}
	err := s.store.CreateFollow(ctx, &models.Follow{
		FollowerID: callerID,
		FolloweeID: targetID,
		CreatedAt:  s.now(),
	})
	if err != nil {
		if apperr.Is(storeErr(err, ""), apperr.KindConflict) {
			return apperr.Wrap(apperr.KindConflict, "You already follow this user", err)
		}
		return storeErr(err, "User not found")
	}

	if s.notifier != nil {
		name := actorName(ctx, s.profiles, callerID)
		s.notifier.Enqueue(ctx, NotificationInput{
			RecipientID: targetID,
			Type:        models.NotificationFollow,
			ActorID:     callerID,
			ActorName:   name,
			Message:     name + " started following you",
			Payload:     map[string]any{"followerId": callerID},
		})
	}
	return nil
}

// Unfollow removes the edge; NotFound when callerID does not follow targetID.
func (s *FollowService) Unfollow(ctx context.Context, callerID, targetID string) error {
	if err := s.store.DeleteFollow(ctx, callerID, targetID); err != nil {
		return storeErr(err, "You do not follow this user")
	}
	return nil
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	ok, err := s.store.IsFollowing(ctx, followerID, followeeID)
	if err != nil {
		return false, storeErr(err, "User not found")
	}
	return ok, nil
}

// Followers lists the summaries of the users following userID.
func (s *FollowService) Followers(ctx context.Context, userID string) ([]models.UserSummary, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}
	return s.summaries(ctx, u.Followers)
}

// Following lists the summaries of the users userID follows.
func (s *FollowService) Following(ctx context.Context, userID string) ([]models.UserSummary, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}
	return s.summaries(ctx, u.Following)
}

func (s *FollowService) summaries(ctx context.Context, ids []string) ([]models.UserSummary, error) {
	users, err := s.store.GetUsers(ctx, ids)
	if err != nil {
		return nil, storeErr(err, "User not found")
	}
	out := make([]models.UserSummary, len(users))
	for i := range users {
		out[i] = users[i].ToSummary()
	}
	return out, nil
}
