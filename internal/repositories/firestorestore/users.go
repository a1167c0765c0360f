package firestorestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/anonto42/nano-social/backend/internal/models")

func setUserID(u *models.User, id string) { u.ID = id }

func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	doc := *user
	doc.Followers = emptyIfNil(doc.Followers)
	doc.Following = emptyIfNil(doc.Following)
	doc.Posts = emptyIfNil(doc.Posts)
	doc.PushTokens = emptyIfNil(doc.PushTokens)
	_, err := s.users().Doc(user.ID).Create(ctx, &doc)
	return translate(err, "create user")
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	snap, err := s.users().Doc(id).Get(ctx)
	if err != nil {
		return nil, translate(err, "get user")
	}
	var u models.User
	if err := snap.DataTo(&u); err != nil {
		return nil, translate(err, "decode user")
	}
	u.ID = snap.Ref.ID
	return &u, nil
}

func (s *Store) GetUsers(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	refs := make([]*firestore.DocumentRef, len(ids))
	for i, id := range ids {
		refs[i] = s.users().Doc(id)
	}
	snaps, err := s.client.GetAll(ctx, refs)
	if err != nil {
		return nil, translate(err, "get users")
	}
	found := snaps[:0]
	for _, snap := range snaps {
		if snap.Exists() {
			found = append(found, snap)
		}
	}
	return decodeAll(found, setUserID)
}

func (s *Store) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error) {
	var updates []firestore.Update
	if update.DisplayName != nil {
		updates = append(updates, firestore.Update{Path: "displayName", Value: *update.DisplayName})
	}
	if update.Handle != nil {
		updates = append(updates, firestore.Update{Path: "handle", Value: *update.Handle})
	}
	if update.Bio != nil {
		updates = append(updates, firestore.Update{Path: "bio", Value: *update.Bio})
	}
	if update.AvatarURL != nil {
		updates = append(updates, firestore.Update{Path: "avatarUrl", Value: *update.AvatarURL})
	}
	if len(updates) == 0 {
		return s.GetUser(ctx, id)
	}
	updatedAt := update.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: updatedAt})
	if _, err := s.users().Doc(id).Update(ctx, updates); err != nil {
		return nil, translate(err, "update profile")
	}
	return s.GetUser(ctx, id)
}

func (s *Store) AddPushToken(ctx context.Context, userID, token string) error {
	_, err := s.users().Doc(userID).Update(ctx, []firestore.Update{
		{Path: "pushTokens", Value: firestore.ArrayUnion(token)},
	})
	return translate(err, "add push token")
}

func (s *Store) RemovePushToken(ctx context.Context, userID, token string) error {
	_, err := s.users().Doc(userID).Update(ctx, []firestore.Update{
		{Path: "pushTokens", Value: firestore.ArrayRemove(token)},
	})
	return translate(err, "remove push token")
}
