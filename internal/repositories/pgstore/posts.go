package pgstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

// CreatePost creates a new post for an existing author
func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, post.AuthorID); err != nil {
			return err
		}
		return translate(tx.Create(toPostRecord(post)).Error, "create post")
	})
}

// GetPost retrieves a post by ID
func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var rec postRecord
	if err := s.db.WithContext(ctx).Take(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get post")
	}
	p := rec.toModel()
	return &p, nil
}

// DeletePost deletes a post with its likes and comments
func (s *Store) DeletePost(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&likeRecord{}).Error; err != nil {
			return translate(err, "delete likes")
		}
		if err := tx.Where("post_id = ?", id).Delete(&commentRecord{}).Error; err != nil {
			return translate(err, "delete comments")
		}
		res := tx.Where("id = ?", id).Delete(&postRecord{})
		if res.Error != nil {
			return translate(res.Error, "delete post")
		}
		if res.RowsAffected == 0 {
			return repositories.ErrNotFound
		}
		return nil
	})
}

func (s *Store) ListPostsByAuthors(ctx context.Context, authorIDs []string, pageSize int, cursor string) ([]models.Post, error) {
	if len(authorIDs) == 0 {
		return []models.Post{}, nil
	}
	db := s.db.WithContext(ctx)
	q := db.Where("author_id IN ?", authorIDs)
	if cursor != "" {
		var c postRecord
		err := db.Take(&c, "id = ? AND author_id IN ?", cursor, authorIDs).Error
		switch {
		case err == nil:
			q = q.Where("(created_at < ? OR (created_at = ? AND id < ?))", c.CreatedAt, c.CreatedAt, c.ID)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, translate(err, "load cursor")
		}
	}
	var recs []postRecord
	if err := q.Order("created_at DESC").Order("id DESC").Limit(pageSize).Find(&recs).Error; err != nil {
		return nil, translate(err, "list posts")
	}
	out := make([]models.Post, len(recs))
	for i := range recs {
		out[i] = recs[i].toModel()
	}
	return out, nil
}

func (s *Store) LikePost(ctx context.Context, like *models.Like) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post postRecord
		if err := tx.Take(&post, "id = ?", like.PostID).Error; err != nil {
			return translate(err, "like post")
		}
		var count int64
		if err := tx.Model(&likeRecord{}).
			Where("post_id = ? AND user_id = ?", like.PostID, like.UserID).
			Count(&count).Error; err != nil {
			return translate(err, "check like")
		}
		if count > 0 {
			return repositories.ErrConflict
		}
		rec := &likeRecord{PostID: like.PostID, UserID: like.UserID, CreatedAt: like.CreatedAt}
		if err := tx.Create(rec).Error; err != nil {
			return translate(err, "create like")
		}
		err := tx.Model(&postRecord{}).Where("id = ?", like.PostID).
			Update("likes_count", gorm.Expr("likes_count + 1")).Error
		return translate(err, "increment likes")
	})
}

func (s *Store) UnlikePost(ctx context.Context, postID, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&likeRecord{})
		if res.Error != nil {
			return translate(res.Error, "delete like")
		}
		if res.RowsAffected == 0 {
			return repositories.ErrNotFound
		}
		err := tx.Model(&postRecord{}).Where("id = ?", postID).
			Update("likes_count", gorm.Expr("CASE WHEN likes_count > 0 THEN likes_count - 1 ELSE 0 END")).Error
		return translate(err, "decrement likes")
	})
}

func (s *Store) HasLiked(ctx context.Context, postID, userID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&likeRecord{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "has liked")
	}
	return count > 0, nil
}

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post postRecord
		if err := tx.Take(&post, "id = ?", comment.PostID).Error; err != nil {
			return translate(err, "create comment")
		}
		rec := &commentRecord{
			ID:        comment.ID,
			PostID:    comment.PostID,
			AuthorID:  comment.AuthorID,
			Content:   comment.Content,
			CreatedAt: comment.CreatedAt,
		}
		if err := tx.Create(rec).Error; err != nil {
			return translate(err, "insert comment")
		}
		err := tx.Model(&postRecord{}).Where("id = ?", comment.PostID).
			Update("comments_count", gorm.Expr("comments_count + 1")).Error
		return translate(err, "increment comments")
	})
}

func (s *Store) ListComments(ctx context.Context, postID string, pageSize int, cursor string) ([]models.Comment, error) {
	db := s.db.WithContext(ctx)
	q := db.Where("post_id = ?", postID)
	if cursor != "" {
		var c commentRecord
		err := db.Take(&c, "post_id = ? AND id = ?", postID, cursor).Error
		switch {
		case err == nil:
			q = q.Where("(created_at < ? OR (created_at = ? AND id < ?))", c.CreatedAt, c.CreatedAt, c.ID)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, translate(err, "load cursor")
		}
	}
	var recs []commentRecord
	if err := q.Order("created_at DESC").Order("id DESC").Limit(pageSize).Find(&recs).Error; err != nil {
		return nil, translate(err, "list comments")
	}
	out := make([]models.Comment, len(recs))
	for i := range recs {
		out[i] = recs[i].toModel()
	}
	return out, nil
}
