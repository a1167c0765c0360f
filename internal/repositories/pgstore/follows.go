package pgstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

// CreateFollow inserts the edge. The follower/following lists are read back
// from this table, so the single insert keeps all three views in step.
func (s *Store) CreateFollow(ctx context.Context, follow *models.Follow) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, follow.FollowerID); err != nil {
			return err
		}
		if err := requireUser(tx, follow.FolloweeID); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&followRecord{}).
			Where("follower_id = ? AND followee_id = ?", follow.FollowerID, follow.FolloweeID).
			Count(&count).Error; err != nil {
			return translate(err, "check follow")
		}
		if count > 0 {
			return repositories.ErrConflict
		}
		rec := &followRecord{
			FollowerID: follow.FollowerID,
			FolloweeID: follow.FolloweeID,
			CreatedAt:  follow.CreatedAt,
		}
		return translate(tx.Create(rec).Error, "create follow")
	})
}

func (s *Store) DeleteFollow(ctx context.Context, followerID, followeeID string) error {
	res := s.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&followRecord{})
	if res.Error != nil {
		return translate(res.Error, "delete follow")
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (s *Store) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&followRecord{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error; err != nil {
		return false, translate(err, "is following")
	}
	return count > 0, nil
}
