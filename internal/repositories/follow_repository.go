package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// FollowRepository maintains follow edges together with the mirrored id
// lists on both users. Every mutation touches all three records atomically.
type FollowRepository interface {
	// CreateFollow returns ErrNotFound if either user is missing and
	// ErrConflict if the edge already exists.
	CreateFollow(ctx context.Context, follow *models.Follow) error
	// DeleteFollow returns ErrNotFound if the edge does not exist.
	DeleteFollow(ctx context.Context, followerID, followeeID string) error
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
}
