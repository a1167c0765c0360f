package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

type likeDoc struct {
	ID          string `bson:"_id"`
	models.Like `bson:",inline"`
}

// CreatePost creates a new post in MongoDB and records it on the author
func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	return s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := s.updateUser(sc, post.AuthorID,
			bson.M{"$addToSet": bson.M{"posts": post.ID}}); err != nil {
			return err
		}
		_, err := s.posts.InsertOne(sc, post)
		return translate(err, "create post")
	})
}

// GetPost retrieves a post by its ID from MongoDB
func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := s.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, translate(err, "get post")
	}
	return &post, nil
}

// DeletePost deletes a post with its likes and comments
func (s *Store) DeletePost(ctx context.Context, id string) error {
	return s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		var post models.Post
		if err := s.posts.FindOneAndDelete(sc, bson.M{"_id": id}).Decode(&post); err != nil {
			return translate(err, "delete post")
		}
		if _, err := s.likes.DeleteMany(sc, bson.M{"post_id": id}); err != nil {
			return translate(err, "delete likes")
		}
		if _, err := s.comments.DeleteMany(sc, bson.M{"post_id": id}); err != nil {
			return translate(err, "delete comments")
		}
		_, err := s.users.UpdateOne(sc, bson.M{"_id": post.AuthorID},
			bson.M{"$pull": bson.M{"posts": id}})
		return translate(err, "update author")
	})
}

func (s *Store) ListPostsByAuthors(ctx context.Context, authorIDs []string, pageSize int, cursor string) ([]models.Post, error) {
	if len(authorIDs) == 0 {
		return []models.Post{}, nil
	}
	filter := bson.M{"author_id": bson.M{"$in": authorIDs}}
	if err := applyCursor(ctx, s.posts, filter, cursor); err != nil {
		return nil, err
	}
	return findPage[models.Post](ctx, s.posts, filter, pageSize)
}

func (s *Store) LikePost(ctx context.Context, like *models.Like) error {
	return s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := s.posts.UpdateOne(sc, bson.M{"_id": like.PostID},
			bson.M{"$inc": bson.M{"likes_count": 1}})
		if err != nil {
			return translate(err, "like post")
		}
		if res.MatchedCount == 0 {
			return repositories.ErrNotFound
		}
		doc := likeDoc{ID: models.LikeKey(like.PostID, like.UserID), Like: *like}
		_, err = s.likes.InsertOne(sc, doc)
		return translate(err, "insert like")
	})
}

func (s *Store) UnlikePost(ctx context.Context, postID, userID string) error {
	return s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := s.likes.DeleteOne(sc, bson.M{"_id": models.LikeKey(postID, userID)})
		if err != nil {
			return translate(err, "unlike post")
		}
		if res.DeletedCount == 0 {
			return repositories.ErrNotFound
		}
		_, err = s.posts.UpdateOne(sc,
			bson.M{"_id": postID, "likes_count": bson.M{"$gt": 0}},
			bson.M{"$inc": bson.M{"likes_count": -1}})
		return translate(err, "update post")
	})
}

func (s *Store) HasLiked(ctx context.Context, postID, userID string) (bool, error) {
	n, err := s.likes.CountDocuments(ctx, bson.M{"_id": models.LikeKey(postID, userID)})
	if err != nil {
		return false, translate(err, "has liked")
	}
	return n > 0, nil
}

// CreateComment creates a new comment and bumps the post's comment count
func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	return s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := s.posts.UpdateOne(sc, bson.M{"_id": comment.PostID},
			bson.M{"$inc": bson.M{"comments_count": 1}})
		if err != nil {
			return translate(err, "update post")
		}
		if res.MatchedCount == 0 {
			return repositories.ErrNotFound
		}
		_, err = s.comments.InsertOne(sc, comment)
		return translate(err, "create comment")
	})
}

func (s *Store) ListComments(ctx context.Context, postID string, pageSize int, cursor string) ([]models.Comment, error) {
	filter := bson.M{"post_id": postID}
	if err := applyCursor(ctx, s.comments, filter, cursor); err != nil {
		return nil, err
	}
	return findPage[models.Comment](ctx, s.comments, filter, pageSize)
}
