package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	// LikePost records the like and bumps the post's like count.
	// ErrNotFound if the post is missing, ErrConflict if already liked.
	LikePost(ctx context.Context, like *models.Like) error
	// UnlikePost returns ErrNotFound if the like does not exist.
	UnlikePost(ctx context.Context, postID, userID string) error
	HasLiked(ctx context.Context, postID, userID string) (bool, error)
}
