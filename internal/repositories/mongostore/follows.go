package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

type followDoc struct {
	ID            string `bson:"_id"`
	models.Follow `bson:",inline"`
}

// CreateFollow inserts the edge and mirrors it into both users' lists in one
// transaction.
func (s *Store) CreateFollow(ctx context.Context, follow *models.Follow) error {
	return s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		doc := followDoc{ID: models.FollowKey(follow.FollowerID, follow.FolloweeID), Follow: *follow}
		if _, err := s.follows.InsertOne(sc, doc); err != nil {
			return translate(err, "create follow")
		}
		if err := s.updateUser(sc, follow.FollowerID,
			bson.M{"$addToSet": bson.M{"following": follow.FolloweeID}}); err != nil {
			return err
		}
		return s.updateUser(sc, follow.FolloweeID,
			bson.M{"$addToSet": bson.M{"followers": follow.FollowerID}})
	})
}

func (s *Store) DeleteFollow(ctx context.Context, followerID, followeeID string) error {
	return s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := s.follows.DeleteOne(sc, bson.M{"_id": models.FollowKey(followerID, followeeID)})
		if err != nil {
			return translate(err, "delete follow")
		}
		if res.DeletedCount == 0 {
			return repositories.ErrNotFound
		}
		if _, err := s.users.UpdateOne(sc, bson.M{"_id": followerID},
			bson.M{"$pull": bson.M{"following": followeeID}}); err != nil {
			return translate(err, "update follower")
		}
		_, err = s.users.UpdateOne(sc, bson.M{"_id": followeeID},
			bson.M{"$pull": bson.M{"followers": followerID}})
		return translate(err, "update followee")
	})
}

func (s *Store) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	n, err := s.follows.CountDocuments(ctx, bson.M{"_id": models.FollowKey(followerID, followeeID)})
	if err != nil {
		return false, translate(err, "is following")
	}
	return n > 0, nil
}
