package memstore

import (
	"context"
	"slices"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

func postKey(p *models.Post) (time.Time, string)       { return p.CreatedAt, p.ID }
func commentKey(c *models.Comment) (time.Time, string) { return c.CreatedAt, c.ID }

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.MediaURLs = slices.Clone(p.MediaURLs)
	return &c
}

func (s *Store) CreatePost(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	author, ok := s.users[post.AuthorID]
	if !ok {
		return repositories.ErrNotFound
	}
	if _, ok := s.posts[post.ID]; ok {
		return repositories.ErrConflict
	}
	s.posts[post.ID] = clonePost(post)
	author.Posts = addString(author.Posts, post.ID)
	return nil
}

func (s *Store) GetPost(_ context.Context, id string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return clonePost(p), nil
}

func (s *Store) DeletePost(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	delete(s.posts, id)
	delete(s.comments, id)
	for key, like := range s.likes {
		if like.PostID == id {
			delete(s.likes, key)
		}
	}
	if author, ok := s.users[p.AuthorID]; ok {
		author.Posts = removeString(author.Posts, id)
	}
	return nil
}

func (s *Store) ListPostsByAuthors(_ context.Context, authorIDs []string, pageSize int, cursor string) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := []*models.Post{}
	for _, p := range s.posts {
		if slices.Contains(authorIDs, p.AuthorID) {
			matched = append(matched, p)
		}
	}
	page := pageAfter(matched, postKey, pageSize, cursor)
	out := make([]models.Post, len(page))
	for i, p := range page {
		out[i] = *clonePost(p)
	}
	return out, nil
}

func (s *Store) LikePost(_ context.Context, like *models.Like) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[like.PostID]
	if !ok {
		return repositories.ErrNotFound
	}
	key := models.LikeKey(like.PostID, like.UserID)
	if _, ok := s.likes[key]; ok {
		return repositories.ErrConflict
	}
	stored := *like
	s.likes[key] = &stored
	p.LikesCount++
	return nil
}

func (s *Store) UnlikePost(_ context.Context, postID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := models.LikeKey(postID, userID)
	if _, ok := s.likes[key]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.likes, key)
	if p, ok := s.posts[postID]; ok && p.LikesCount > 0 {
		p.LikesCount--
	}
	return nil
}

func (s *Store) HasLiked(_ context.Context, postID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.likes[models.LikeKey(postID, userID)]
	return ok, nil
}

func (s *Store) CreateComment(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[comment.PostID]
	if !ok {
		return repositories.ErrNotFound
	}
	stored := *comment
	s.comments[comment.PostID] = append(s.comments[comment.PostID], &stored)
	p.CommentsCount++
	return nil
}

func (s *Store) ListComments(_ context.Context, postID string, pageSize int, cursor string) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page := pageAfter(s.comments[postID], commentKey, pageSize, cursor)
	out := make([]models.Comment, len(page))
	for i, c := range page {
		out[i] = *c
	}
	return out, nil
}
