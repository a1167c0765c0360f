package services

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/nano-social/backend/internal/apperr"
	"github.com/anonto42/nano-social/backend/internal/models"
)

type recordingBlobs struct {
	mu      sync.Mutex
	deleted []string
}

func (*recordingBlobs) Upload(context.Context, string, io.Reader, int64, string) (string, error) {
	return "", nil
}

func (b *recordingBlobs) Delete(_ context.Context, url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, url)
	return nil
}

func TestPostLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	blobs := &recordingBlobs{}
	f.posts.blobs = blobs
	f.createUser(t, "alice", "Alice")
	f.createUser(t, "bob", "Bob")

	_, err := f.posts.CreatePost(ctx, "alice", models.CreatePostRequest{Content: "  "})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	_, err = f.posts.CreatePost(ctx, "ghost", models.CreatePostRequest{Content: "hi"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	post, err := f.posts.CreatePost(ctx, "alice", models.CreatePostRequest{
		Content:   "first post",
		MediaURLs: []string{"https://cdn.example.com/uploads/alice/1.png"},
	})
	require.NoError(t, err)

	require.NoError(t, f.posts.LikePost(ctx, "bob", post.ID))
	err = f.posts.LikePost(ctx, "bob", post.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	require.NoError(t, f.posts.LikePost(ctx, "alice", post.ID))
	f.dispatcher.Wait()

	comment, err := f.posts.AddComment(ctx, "bob", post.ID, " nice ")
	require.NoError(t, err)
	assert.Equal(t, "nice", comment.Content)
	_, err = f.posts.AddComment(ctx, "alice", post.ID, "thanks")
	require.NoError(t, err)
	f.dispatcher.Wait()

	got, err := f.posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.LikesCount)
	assert.Equal(t, 2, got.CommentsCount)

	// Self-likes and self-comments do not notify.
	notes, err := f.dispatcher.List(ctx, "alice", 10, "")
	require.NoError(t, err)
	require.Len(t, notes.Items, 2)
	assert.Equal(t, models.NotificationComment, notes.Items[0].Type)
	assert.Equal(t, comment.ID, notes.Items[0].Payload["commentId"])
	assert.Equal(t, models.NotificationLike, notes.Items[1].Type)

	comments, err := f.posts.ListComments(ctx, post.ID, 0, "")
	require.NoError(t, err)
	assert.Len(t, comments.Items, 2)

	require.NoError(t, f.posts.UnlikePost(ctx, "bob", post.ID))
	err = f.posts.UnlikePost(ctx, "bob", post.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	err = f.posts.DeletePost(ctx, "bob", post.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	require.NoError(t, f.posts.DeletePost(ctx, "alice", post.ID))
	assert.Equal(t, post.MediaURLs, blobs.deleted)

	_, err = f.posts.GetPost(ctx, post.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestFeedIncludesFollowedAuthorsNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, id := range []string{"alice", "bob", "carol"} {
		f.createUser(t, id, id)
	}
	require.NoError(t, f.follows.Follow(ctx, "alice", "bob"))

	var want []string
	for i := 0; i < 6; i++ {
		author := []string{"alice", "bob", "carol"}[i%3]
		p, err := f.posts.CreatePost(ctx, author, models.CreatePostRequest{Content: "post"})
		require.NoError(t, err)
		if author != "carol" {
			want = append([]string{p.ID}, want...)
		}
	}

	first, err := f.posts.Feed(ctx, "alice", 3, "")
	require.NoError(t, err)
	assert.True(t, first.HasMore)
	second, err := f.posts.Feed(ctx, "alice", 3, first.NextCursor)
	require.NoError(t, err)

	var got []string
	for _, p := range append(first.Items, second.Items...) {
		got = append(got, p.ID)
	}
	assert.Equal(t, want, got)

	own, err := f.posts.ListUserPosts(ctx, "carol", 0, "")
	require.NoError(t, err)
	assert.Len(t, own.Items, 2)
	assert.Equal(t, 10, own.PageSize)
}
