package services

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/anonto42/nano-social/backend/internal/apperr"
	"github.com/anonto42/nano-social/backend/internal/media"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/pagination"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

// PostStore is the storage the post service needs.
type PostStore interface {
	repositories.PostRepository
	repositories.LikeRepository
	repositories.CommentRepository
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// PostService manages posts, likes, comments and the feed.
type PostService struct {
	store    PostStore
	blobs    media.BlobStore
	profiles ProfileLookup
	notifier Notifier
	now      Clock
	newID    IDFunc
}

func NewPostService(store PostStore, blobs media.BlobStore, profiles ProfileLookup, notifier Notifier) *PostService {
	if blobs == nil {
		blobs = media.Disabled{}
	}
	return &PostService{
		store:    store,
		blobs:    blobs,
		profiles: profiles,
		notifier: notifier,
		now:      systemClock,
		newID:    newUUID,
	}
}

// CreatePost creates a post with text, media or both.
func (s *PostService) CreatePost(ctx context.Context, callerID string, req models.CreatePostRequest) (*models.Post, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" && len(req.MediaURLs) == 0 {
		return nil, apperr.InvalidInput("A post needs content or media")
	}
	now := s.now()
	post := &models.Post{
		ID:        s.newID(),
		AuthorID:  callerID,
		Content:   content,
		MediaURLs: req.MediaURLs,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, storeErr(err, "Create your profile before posting")
	}
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, storeErr(err, "Post not found")
	}
	return post, nil
}

// DeletePost deletes the caller's own post. Removing its media from the blob
// store afterwards is best-effort.
func (s *PostService) DeletePost(ctx context.Context, callerID, postID string) error {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return storeErr(err, "Post not found")
	}
	if post.AuthorID != callerID {
		return apperr.Forbidden("You can only delete your own posts")
	}
	if err := s.store.DeletePost(ctx, postID); err != nil {
		return storeErr(err, "Post not found")
	}
	for _, url := range post.MediaURLs {
		if err := s.blobs.Delete(ctx, url); err != nil {
			log.Warn("failed to delete post media", "post", postID, "url", url, "err", err)
		}
	}
	return nil
}

func postID(p models.Post) string { return p.ID }

// ListUserPosts pages over one author's posts, newest first.
func (s *PostService) ListUserPosts(ctx context.Context, userID string, limit int, cursor string) (pagination.Page[models.Post], error) {
	return s.listByAuthors(ctx, []string{userID}, limit, cursor)
}

// Feed pages over the posts of the caller and everyone the caller follows,
// strictly newest first.
func (s *PostService) Feed(ctx context.Context, callerID string, limit int, cursor string) (pagination.Page[models.Post], error) {
	u, err := s.store.GetUser(ctx, callerID)
	if err != nil {
		return pagination.Page[models.Post]{}, storeErr(err, "User profile not found")
	}
	authors := append([]string{callerID}, u.Following...)
	return s.listByAuthors(ctx, authors, limit, cursor)
}

func (s *PostService) listByAuthors(ctx context.Context, authors []string, limit int, cursor string) (pagination.Page[models.Post], error) {
	pageSize := pagination.ClampPageSize(limit, pagination.PageSizeConfig{Default: 10, Max: 50})
	posts, err := s.store.ListPostsByAuthors(ctx, authors, pageSize, cursor)
	if err != nil {
		return pagination.Page[models.Post]{}, storeErr(err, "Post not found")
	}
	return pagination.NewPage(posts, pageSize, postID), nil
}

// LikePost likes a post and notifies its author unless it is the caller.
func (s *PostService) LikePost(ctx context.Context, callerID, postID string) error {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return storeErr(err, "Post not found")
	}
	err = s.store.LikePost(ctx, &models.Like{PostID: postID, UserID: callerID, CreatedAt: s.now()})
	if err != nil {
		if apperr.Is(storeErr(err, ""), apperr.KindConflict) {
			return apperr.Wrap(apperr.KindConflict, "You already liked this post", err)
		}
		return storeErr(err, "Post not found")
	}
	if post.AuthorID != callerID && s.notifier != nil {
		name := actorName(ctx, s.profiles, callerID)
		s.notifier.Enqueue(ctx, NotificationInput{
			RecipientID: post.AuthorID,
			Type:        models.NotificationLike,
			ActorID:     callerID,
			ActorName:   name,
			Message:     name + " liked your post",
			Payload:     map[string]any{"postId": postID},
		})
	}
	return nil
}

func (s *PostService) UnlikePost(ctx context.Context, callerID, postID string) error {
	if err := s.store.UnlikePost(ctx, postID, callerID); err != nil {
		return storeErr(err, "You have not liked this post")
	}
	return nil
}

// AddComment comments on a post and notifies its author unless it is the
// caller.
func (s *PostService) AddComment(ctx context.Context, callerID, postID, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.InvalidInput("Comment cannot be empty")
	}
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, storeErr(err, "Post not found")
	}
	comment := &models.Comment{
		ID:        s.newID(),
		PostID:    postID,
		AuthorID:  callerID,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, storeErr(err, "Post not found")
	}
	if post.AuthorID != callerID && s.notifier != nil {
		name := actorName(ctx, s.profiles, callerID)
		s.notifier.Enqueue(ctx, NotificationInput{
			RecipientID: post.AuthorID,
			Type:        models.NotificationComment,
			ActorID:     callerID,
			ActorName:   name,
			Message:     name + " commented on your post",
			Payload:     map[string]any{"postId": postID, "commentId": comment.ID},
		})
	}
	return comment, nil
}

func (s *PostService) ListComments(ctx context.Context, postID string, limit int, cursor string) (pagination.Page[models.Comment], error) {
	if _, err := s.store.GetPost(ctx, postID); err != nil {
		return pagination.Page[models.Comment]{}, storeErr(err, "Post not found")
	}
	pageSize := pagination.ClampPageSize(limit, pagination.DefaultPageSize)
	comments, err := s.store.ListComments(ctx, postID, pageSize, cursor)
	if err != nil {
		return pagination.Page[models.Comment]{}, storeErr(err, "Post not found")
	}
	return pagination.NewPage(comments, pageSize, func(c models.Comment) string { return c.ID }), nil
}

// PostView is a post with its author and whether the viewer liked it.
type PostView struct {
	models.Post
	Author  *models.UserSummary `json:"author,omitempty"`
	IsLiked bool                `json:"is_liked"`
}

// Views decorates posts for viewerID. Lookup failures leave the fields
// empty rather than failing the listing.
func (s *PostService) Views(ctx context.Context, viewerID string, posts []models.Post) []PostView {
	authors := make(map[string]*models.UserSummary)
	views := make([]PostView, len(posts))
	for i, p := range posts {
		views[i] = PostView{Post: p}
		author, ok := authors[p.AuthorID]
		if !ok && s.profiles != nil {
			summary, err := s.profiles.Summary(ctx, p.AuthorID)
			if err != nil {
				log.Warn("failed to load post author", "author", p.AuthorID, "err", err)
			}
			author = summary
			authors[p.AuthorID] = author
		}
		views[i].Author = author
		liked, err := s.store.HasLiked(ctx, p.ID, viewerID)
		if err != nil {
			log.Warn("failed to load like state", "post", p.ID, "err", err)
		}
		views[i].IsLiked = liked
	}
	return views
}
