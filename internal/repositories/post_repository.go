package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	// CreatePost inserts the post and appends its id to the author's post
	// list; ErrNotFound if the author does not exist.
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id string) (*models.Post, error)
	// DeletePost removes the post with its likes and comments and drops it
	// from the author's post list.
	DeletePost(ctx context.Context, id string) error
	// ListPostsByAuthors pages over posts of the given authors, newest first.
	ListPostsByAuthors(ctx context.Context, authorIDs []string, pageSize int, cursor string) ([]models.Post, error)
}
