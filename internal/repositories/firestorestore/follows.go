package firestorestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

// CreateFollow writes the edge and both mirrored lists in one transaction.
func (s *Store) CreateFollow(ctx context.Context, follow *models.Follow) error {
	edge := s.follows().Doc(models.FollowKey(follow.FollowerID, follow.FolloweeID))
	follower := s.users().Doc(follow.FollowerID)
	followee := s.users().Doc(follow.FolloweeID)
	return s.runTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snaps, err := tx.GetAll([]*firestore.DocumentRef{edge, follower, followee})
		if err != nil {
			return err
		}
		if snaps[0].Exists() {
			return repositories.ErrConflict
		}
		if !snaps[1].Exists() || !snaps[2].Exists() {
			return repositories.ErrNotFound
		}
		if err := tx.Create(edge, follow); err != nil {
			return err
		}
		if err := tx.Update(follower, []firestore.Update{
			{Path: "following", Value: firestore.ArrayUnion(follow.FolloweeID)},
		}); err != nil {
			return err
		}
		return tx.Update(followee, []firestore.Update{
			{Path: "followers", Value: firestore.ArrayUnion(follow.FollowerID)},
		})
	})
}

func (s *Store) DeleteFollow(ctx context.Context, followerID, followeeID string) error {
	edge := s.follows().Doc(models.FollowKey(followerID, followeeID))
	follower := s.users().Doc(followerID)
	followee := s.users().Doc(followeeID)
	return s.runTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snaps, err := tx.GetAll([]*firestore.DocumentRef{edge, follower, followee})
		if err != nil {
			return err
		}
		if !snaps[0].Exists() {
			return repositories.ErrNotFound
		}
		if err := tx.Delete(edge); err != nil {
			return err
		}
		if snaps[1].Exists() {
			if err := tx.Update(follower, []firestore.Update{
				{Path: "following", Value: firestore.ArrayRemove(followeeID)},
			}); err != nil {
				return err
			}
		}
		if snaps[2].Exists() {
			return tx.Update(followee, []firestore.Update{
				{Path: "followers", Value: firestore.ArrayRemove(followerID)},
			})
		}
		return nil
	})
}

func (s *Store) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	_, err := s.follows().Doc(models.FollowKey(followerID, followeeID)).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, translate(err, "is following")
	}
	return true, nil
}
