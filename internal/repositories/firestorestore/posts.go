package firestorestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

func setPostID(p *models.Post, id string)       { p.ID = id }
func setCommentID(c *models.Comment, id string) { c.ID = id }

// CreatePost creates the post and records it on the author
func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	author := s.users().Doc(post.AuthorID)
	return s.runTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(author); err != nil {
			return err
		}
		if err := tx.Create(s.posts().Doc(post.ID), post); err != nil {
			return err
		}
		return tx.Update(author, []firestore.Update{
			{Path: "posts", Value: firestore.ArrayUnion(post.ID)},
		})
	})
}

func (s *Store) GetPost(ctx context.Context, id string) (*models.Post, error) {
	snap, err := s.posts().Doc(id).Get(ctx)
	if err != nil {
		return nil, translate(err, "get post")
	}
	var p models.Post
	if err := snap.DataTo(&p); err != nil {
		return nil, translate(err, "decode post")
	}
	p.ID = snap.Ref.ID
	return &p, nil
}

// DeletePost deletes the post with its likes and comments. Subcollections are
// not removed with their parent, so they are read and deleted explicitly.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	ref := s.posts().Doc(id)
	return s.runTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		authorID, _ := snap.DataAt("authorId")
		likes, err := tx.Documents(s.likes(id).Select()).GetAll()
		if err != nil {
			return err
		}
		comments, err := tx.Documents(s.comments(id).Select()).GetAll()
		if err != nil {
			return err
		}
		for _, child := range append(likes, comments...) {
			if err := tx.Delete(child.Ref); err != nil {
				return err
			}
		}
		if err := tx.Delete(ref); err != nil {
			return err
		}
		if author, ok := authorID.(string); ok && author != "" {
			return tx.Update(s.users().Doc(author), []firestore.Update{
				{Path: "posts", Value: firestore.ArrayRemove(id)},
			})
		}
		return nil
	})
}

// ListPostsByAuthors queries the authors in chunks the "in" filter accepts and
// merges the chunk pages.
func (s *Store) ListPostsByAuthors(ctx context.Context, authorIDs []string, pageSize int, cursor string) ([]models.Post, error) {
	if len(authorIDs) == 0 {
		return []models.Post{}, nil
	}
	authors := make(map[string]bool, len(authorIDs))
	for _, id := range authorIDs {
		authors[id] = true
	}
	after, err := cursorSnapshot(ctx, s.posts(), cursor, func(snap *firestore.DocumentSnapshot) bool {
		author, err := snap.DataAt("authorId")
		id, _ := author.(string)
		return err == nil && authors[id]
	})
	if err != nil {
		return nil, err
	}
	var sets [][]*firestore.DocumentSnapshot
	for _, ids := range chunk(authorIDs, maxInValues) {
		snaps, err := s.page(ctx, s.posts().Where("authorId", "in", ids), after, pageSize)
		if err != nil {
			return nil, err
		}
		sets = append(sets, snaps)
	}
	merged, err := mergeNewest(sets, pageSize)
	if err != nil {
		return nil, err
	}
	return decodeAll(merged, setPostID)
}

func (s *Store) LikePost(ctx context.Context, like *models.Like) error {
	post := s.posts().Doc(like.PostID)
	ref := s.likes(like.PostID).Doc(like.UserID)
	return s.runTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snaps, err := tx.GetAll([]*firestore.DocumentRef{post, ref})
		if err != nil {
			return err
		}
		if !snaps[0].Exists() {
			return repositories.ErrNotFound
		}
		if snaps[1].Exists() {
			return repositories.ErrConflict
		}
		if err := tx.Create(ref, like); err != nil {
			return err
		}
		return tx.Update(post, []firestore.Update{{Path: "likesCount", Value: firestore.Increment(1)}})
	})
}

func (s *Store) UnlikePost(ctx context.Context, postID, userID string) error {
	post := s.posts().Doc(postID)
	ref := s.likes(postID).Doc(userID)
	return s.runTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snaps, err := tx.GetAll([]*firestore.DocumentRef{post, ref})
		if err != nil {
			return err
		}
		if !snaps[1].Exists() {
			return repositories.ErrNotFound
		}
		if err := tx.Delete(ref); err != nil {
			return err
		}
		if !snaps[0].Exists() {
			return nil
		}
		var p models.Post
		if err := snaps[0].DataTo(&p); err != nil {
			return err
		}
		if p.LikesCount <= 0 {
			return nil
		}
		return tx.Update(post, []firestore.Update{{Path: "likesCount", Value: firestore.Increment(-1)}})
	})
}

func (s *Store) HasLiked(ctx context.Context, postID, userID string) (bool, error) {
	_, err := s.likes(postID).Doc(userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, translate(err, "has liked")
	}
	return true, nil
}

// CreateComment creates a new comment and bumps the post's comment count
func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	post := s.posts().Doc(comment.PostID)
	return s.runTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Create(s.comments(comment.PostID).Doc(comment.ID), comment); err != nil {
			return err
		}
		return tx.Update(post, []firestore.Update{{Path: "commentsCount", Value: firestore.Increment(1)}})
	})
}

func (s *Store) ListComments(ctx context.Context, postID string, pageSize int, cursor string) ([]models.Comment, error) {
	coll := s.comments(postID)
	after, err := cursorSnapshot(ctx, coll, cursor, nil)
	if err != nil {
		return nil, err
	}
	snaps, err := s.page(ctx, coll.Query, after, pageSize)
	if err != nil {
		return nil, err
	}
	return decodeAll(snaps, setCommentID)
}
