package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

// CreateUser creates a new user in MongoDB. The id lists are stored as
// arrays from the start so $addToSet and $pull always apply.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	doc := *user
	doc.Followers = emptyIfNil(doc.Followers)
	doc.Following = emptyIfNil(doc.Following)
	doc.Posts = emptyIfNil(doc.Posts)
	doc.PushTokens = emptyIfNil(doc.PushTokens)
	_, err := s.users.InsertOne(ctx, &doc)
	return translate(err, "create user")
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, translate(err, "get user")
	}
	return &u, nil
}

func (s *Store) GetUsers(ctx context.Context, ids []string) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	cur, err := s.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, translate(err, "get users")
	}
	defer cur.Close(ctx)
	var found []models.User
	if err := cur.All(ctx, &found); err != nil {
		return nil, translate(err, "decode users")
	}
	byID := make(map[string]models.User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (s *Store) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error) {
	set := bson.M{}
	if update.DisplayName != nil {
		set["display_name"] = *update.DisplayName
	}
	if update.Handle != nil {
		set["handle"] = *update.Handle
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.AvatarURL != nil {
		set["avatar_url"] = *update.AvatarURL
	}
	if len(set) == 0 {
		return s.GetUser(ctx, id)
	}
	updatedAt := update.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	set["updated_at"] = updatedAt

	var u models.User
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u)
	if err != nil {
		return nil, translate(err, "update profile")
	}
	return &u, nil
}

func (s *Store) AddPushToken(ctx context.Context, userID, token string) error {
	return s.updateUser(ctx, userID, bson.M{"$addToSet": bson.M{"push_tokens": token}})
}

func (s *Store) RemovePushToken(ctx context.Context, userID, token string) error {
	return s.updateUser(ctx, userID, bson.M{"$pull": bson.M{"push_tokens": token}})
}

// updateUser applies update to one user and reports ErrNotFound when no
// document matched. ctx may be a session context.
func (s *Store) updateUser(ctx context.Context, id string, update bson.M) error {
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return translate(err, "update user")
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
