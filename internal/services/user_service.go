package services

import (
	"context"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/apperr"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

// UserService manages profiles and push registrations.
type UserService struct {
	store    repositories.UserRepository
	profiles ProfileLookup
	now      Clock
}

func NewUserService(store repositories.UserRepository, profiles ProfileLookup) *UserService {
	return &UserService{store: store, profiles: profiles, now: systemClock}
}

// CreateProfile creates the profile of the verified principal.
func (s *UserService) CreateProfile(ctx context.Context, userID string, req models.CreateProfileRequest) (*models.User, error) {
	if !models.ValidPrincipalID(userID) {
		return nil, apperr.InvalidInput("User id may not contain '_' or '/'")
	}
	now := s.now()
	u := &models.User{
		ID:          userID,
		DisplayName: strings.TrimSpace(req.DisplayName),
		Handle:      strings.TrimSpace(req.Handle),
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
		Followers:   []string{},
		Following:   []string{},
		Posts:       []string{},
		PushTokens:  []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if apperr.Is(storeErr(err, ""), apperr.KindConflict) {
			return nil, apperr.Wrap(apperr.KindConflict, "Profile already exists", err)
		}
		return nil, storeErr(err, "User not found")
	}
	return u, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "User profile not found")
	}
	return u, nil
}

// UpdateProfile applies a partial update and drops the cached summary.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, update models.ProfileUpdate) (*models.User, error) {
	if update.IsEmpty() {
		return nil, apperr.InvalidInput("Nothing to update")
	}
	update.UpdatedAt = s.now()
	u, err := s.store.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, storeErr(err, "User profile not found")
	}
	if s.profiles != nil {
		s.profiles.Invalidate(ctx, userID)
	}
	return u, nil
}

// RegisterPushToken adds a device token; registering it again is a no-op.
func (s *UserService) RegisterPushToken(ctx context.Context, userID, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperr.InvalidInput("token is required")
	}
	return storeErr(s.store.AddPushToken(ctx, userID, token), "User profile not found")
}

func (s *UserService) UnregisterPushToken(ctx context.Context, userID, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperr.InvalidInput("token is required")
	}
	return storeErr(s.store.RemovePushToken(ctx, userID, token), "User profile not found")
}
