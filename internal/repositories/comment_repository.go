package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	// CreateComment inserts the comment and bumps the post's comment count;
	// ErrNotFound if the post is missing.
	CreateComment(ctx context.Context, comment *models.Comment) error
	ListComments(ctx context.Context, postID string, pageSize int, cursor string) ([]models.Comment, error)
}
