// Package storetest holds the behaviour every repositories.Store backend must
// share. Backend packages call Run from their own tests.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

// Factory returns an empty (or at least isolated) store for one subtest.
type Factory func(t *testing.T) repositories.Store

// Options tunes the suite for backends with narrower capabilities.
type Options struct {
	// Concurrency is the number of parallel senders per participant in the
	// concurrent append test. Zero disables the test.
	Concurrency int
}

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func at(i int) time.Time { return base.Add(time.Duration(i) * time.Second) }

// uniq keeps ids distinct across subtests that share a database.
func uniq(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// Run executes the full suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory, opts Options) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("push tokens", func(t *testing.T) { testPushTokens(t, newStore(t)) })
	t.Run("follows", func(t *testing.T) { testFollows(t, newStore(t)) })
	t.Run("chat creation", func(t *testing.T) { testChatCreation(t, newStore(t)) })
	t.Run("append and list messages", func(t *testing.T) { testMessages(t, newStore(t)) })
	t.Run("acknowledge messages", func(t *testing.T) { testAcknowledge(t, newStore(t)) })
	t.Run("mark chat read", func(t *testing.T) { testMarkChatRead(t, newStore(t)) })
	t.Run("list chats", func(t *testing.T) { testListChats(t, newStore(t)) })
	if opts.Concurrency > 0 {
		t.Run("concurrent appends", func(t *testing.T) { testConcurrentAppends(t, newStore(t), opts.Concurrency) })
		t.Run("appends racing mark read", func(t *testing.T) { testAppendsRacingMarkRead(t, newStore(t), opts.Concurrency) })
	}
	t.Run("notifications", func(t *testing.T) { testNotifications(t, newStore(t)) })
	t.Run("mark notifications read", func(t *testing.T) { testMarkNotificationsRead(t, newStore(t)) })
	t.Run("mark all notifications read in bulk", func(t *testing.T) { testMarkAllNotificationsReadInBulk(t, newStore(t)) })
	t.Run("posts", func(t *testing.T) { testPosts(t, newStore(t)) })
	t.Run("likes and comments", func(t *testing.T) { testLikesAndComments(t, newStore(t)) })
}

func createUser(t *testing.T, store repositories.Store, name string) string {
	t.Helper()
	id := uniq(name)
	err := store.CreateUser(context.Background(), &models.User{
		ID:          id,
		DisplayName: name,
		Handle:      name,
		CreatedAt:   base,
		UpdatedAt:   base,
	})
	require.NoError(t, err)
	return id
}

func createChat(t *testing.T, store repositories.Store, a, b string) *models.Chat {
	t.Helper()
	ids := []string{a, b}
	if b < a {
		ids = []string{b, a}
	}
	chat, created, err := store.CreateChatIfAbsent(context.Background(), &models.Chat{
		ID:            models.ChatID(a, b),
		Participants:  ids,
		CreatedAt:     base,
		LastMessageAt: base,
		UnreadCount:   map[string]int{a: 0, b: 0},
	})
	require.NoError(t, err)
	require.True(t, created)
	return chat
}

func appendText(t *testing.T, store repositories.Store, chat *models.Chat, sender string, i int) *models.Message {
	t.Helper()
	msg := &models.Message{
		ID:        fmt.Sprintf("m%03d-%s", i, uuid.NewString()[:8]),
		ChatID:    chat.ID,
		SenderID:  sender,
		Kind:      models.MessageKindText,
		Text:      fmt.Sprintf("message %d", i),
		CreatedAt: at(i),
	}
	require.NoError(t, store.AppendMessage(context.Background(), msg, chat.OtherParticipant(sender)))
	return msg
}

func testUsers(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")

	err := store.CreateUser(ctx, &models.User{ID: alice, DisplayName: "dup", CreatedAt: base})
	require.ErrorIs(t, err, repositories.ErrConflict)

	_, err = store.GetUser(ctx, uniq("ghost"))
	require.ErrorIs(t, err, repositories.ErrNotFound)

	users, err := store.GetUsers(ctx, []string{bob, uniq("ghost"), alice})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, bob, users[0].ID)
	assert.Equal(t, alice, users[1].ID)

	bio := "hello there"
	updated, err := store.UpdateProfile(ctx, alice, models.ProfileUpdate{Bio: &bio, UpdatedAt: at(5)})
	require.NoError(t, err)
	assert.Equal(t, "hello there", updated.Bio)
	assert.Equal(t, "alice", updated.DisplayName)

	_, err = store.UpdateProfile(ctx, uniq("ghost"), models.ProfileUpdate{Bio: &bio})
	require.ErrorIs(t, err, repositories.ErrNotFound)
}

func testPushTokens(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	alice := createUser(t, store, "alice")

	require.NoError(t, store.AddPushToken(ctx, alice, "tok-1"))
	require.NoError(t, store.AddPushToken(ctx, alice, "tok-2"))
	require.NoError(t, store.AddPushToken(ctx, alice, "tok-1"))

	u, err := store.GetUser(ctx, alice)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tok-1", "tok-2"}, u.PushTokens)

	require.NoError(t, store.RemovePushToken(ctx, alice, "tok-1"))
	require.NoError(t, store.RemovePushToken(ctx, alice, "tok-unknown"))

	u, err = store.GetUser(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-2"}, u.PushTokens)
}

func assertFollowConsistent(t *testing.T, store repositories.Store, follower, followee string, want bool) {
	t.Helper()
	ctx := context.Background()
	edge, err := store.IsFollowing(ctx, follower, followee)
	require.NoError(t, err)
	a, err := store.GetUser(ctx, follower)
	require.NoError(t, err)
	b, err := store.GetUser(ctx, followee)
	require.NoError(t, err)

	assert.Equal(t, want, edge, "edge")
	assert.Equal(t, want, contains(a.Following, followee), "follower.following")
	assert.Equal(t, want, contains(b.Followers, follower), "followee.followers")
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func testFollows(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")

	require.NoError(t, store.CreateFollow(ctx, &models.Follow{FollowerID: alice, FolloweeID: bob, CreatedAt: base}))
	assertFollowConsistent(t, store, alice, bob, true)
	assertFollowConsistent(t, store, bob, alice, false)

	err := store.CreateFollow(ctx, &models.Follow{FollowerID: alice, FolloweeID: bob, CreatedAt: at(1)})
	require.ErrorIs(t, err, repositories.ErrConflict)
	assertFollowConsistent(t, store, alice, bob, true)

	err = store.CreateFollow(ctx, &models.Follow{FollowerID: alice, FolloweeID: uniq("ghost"), CreatedAt: at(1)})
	require.ErrorIs(t, err, repositories.ErrNotFound)

	require.NoError(t, store.DeleteFollow(ctx, alice, bob))
	assertFollowConsistent(t, store, alice, bob, false)

	require.ErrorIs(t, store.DeleteFollow(ctx, alice, bob), repositories.ErrNotFound)
}

func testChatCreation(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")

	chat := createChat(t, store, alice, bob)
	appendText(t, store, chat, alice, 1)

	again, created, err := store.CreateChatIfAbsent(ctx, &models.Chat{
		ID:            chat.ID,
		Participants:  chat.Participants,
		CreatedAt:     at(10),
		LastMessageAt: at(10),
		UnreadCount:   map[string]int{alice: 0, bob: 0},
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 1, again.UnreadCount[bob])
	assert.Equal(t, "message 1", again.LastMessage.Text)

	_, err = store.GetChat(ctx, uniq("missing"))
	require.ErrorIs(t, err, repositories.ErrNotFound)
}

func testMessages(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	chat := createChat(t, store, alice, bob)

	var sent []*models.Message
	for i := 1; i <= 25; i++ {
		sent = append(sent, appendText(t, store, chat, alice, i))
	}

	got, err := store.GetChat(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, got.UnreadCount[bob])
	assert.Equal(t, 0, got.UnreadCount[alice])
	assert.Equal(t, "message 25", got.LastMessage.Text)
	assert.Equal(t, alice, got.LastMessage.SenderID)
	assert.Equal(t, models.MessageKindText, got.LastMessage.Kind)
	assert.True(t, got.LastMessageAt.Equal(at(25)))

	var all []models.Message
	cursor := ""
	for _, want := range []int{10, 10, 5} {
		page, err := store.ListMessages(ctx, chat.ID, 10, cursor)
		require.NoError(t, err)
		require.Len(t, page, want)
		all = append(all, page...)
		cursor = page[len(page)-1].ID
	}
	require.Len(t, all, 25)
	for i, m := range all {
		assert.Equal(t, sent[24-i].ID, m.ID, "position %d", i)
	}

	empty, err := store.ListMessages(ctx, chat.ID, 10, cursor)
	require.NoError(t, err)
	assert.Empty(t, empty)

	fromTop, err := store.ListMessages(ctx, chat.ID, 3, "does-not-exist")
	require.NoError(t, err)
	require.Len(t, fromTop, 3)
	assert.Equal(t, sent[24].ID, fromTop[0].ID)
}

func testAcknowledge(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	chat := createChat(t, store, alice, bob)

	m1 := appendText(t, store, chat, alice, 1)
	m2 := appendText(t, store, chat, alice, 2)
	m3 := appendText(t, store, chat, bob, 3)
	m4 := appendText(t, store, chat, alice, 4)

	flipped, err := store.AcknowledgeMessages(ctx, chat.ID, bob, []string{m1.ID, m2.ID, m3.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{m1.ID, m2.ID}, flipped)

	got, err := store.GetChat(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.UnreadCount[bob])
	assert.Equal(t, 1, got.UnreadCount[alice])

	again, err := store.AcknowledgeMessages(ctx, chat.ID, bob, []string{m1.ID, m2.ID})
	require.NoError(t, err)
	assert.Empty(t, again)

	flipped, err = store.AcknowledgeMessages(ctx, chat.ID, bob, []string{m4.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{m4.ID}, flipped)

	got, err = store.GetChat(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.UnreadCount[bob])

	msgs, err := store.ListMessages(ctx, chat.ID, 10, "")
	require.NoError(t, err)
	for _, m := range msgs {
		assert.Equal(t, m.SenderID == alice, m.Read, m.ID)
	}
}

func testMarkChatRead(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	chat := createChat(t, store, alice, bob)

	for i := 1; i <= 4; i++ {
		appendText(t, store, chat, alice, i)
	}
	appendText(t, store, chat, bob, 5)

	n, err := store.MarkChatRead(ctx, chat.ID, bob)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	got, err := store.GetChat(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.UnreadCount[bob])
	assert.Equal(t, 1, got.UnreadCount[alice])

	msgs, err := store.ListMessages(ctx, chat.ID, 10, "")
	require.NoError(t, err)
	for _, m := range msgs {
		if m.SenderID == alice {
			assert.True(t, m.Read, m.ID)
		} else {
			assert.False(t, m.Read, m.ID)
		}
	}

	n, err = store.MarkChatRead(ctx, chat.ID, bob)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func testListChats(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	carol := createUser(t, store, "carol")

	withBob := createChat(t, store, alice, bob)
	withCarol := createChat(t, store, alice, carol)
	appendText(t, store, withBob, bob, 1)
	appendText(t, store, withCarol, carol, 2)

	chats, err := store.ListChats(ctx, alice, 10)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, withCarol.ID, chats[0].ID)
	assert.Equal(t, withBob.ID, chats[1].ID)

	chats, err = store.ListChats(ctx, bob, 10)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, withBob.ID, chats[0].ID)
}

func testConcurrentAppends(t *testing.T, store repositories.Store, perSide int) {
	ctx := context.Background()
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	chat := createChat(t, store, alice, bob)

	var wg sync.WaitGroup
	errs := make(chan error, 2*perSide)
	for i := 0; i < perSide; i++ {
		for j, sender := range []string{alice, bob} {
			wg.Add(1)
			go func(n int, sender string) {
				defer wg.Done()
				msg := &models.Message{
					ID:        uuid.NewString(),
					ChatID:    chat.ID,
					SenderID:  sender,
					Kind:      models.MessageKindText,
					Text:      "hi",
					CreatedAt: at(n),
				}
				errs <- store.AppendMessage(ctx, msg, chat.OtherParticipant(sender))
			}(2*i+j, sender)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := store.GetChat(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, perSide, got.UnreadCount[alice])
	assert.Equal(t, perSide, got.UnreadCount[bob])
}

// testAppendsRacingMarkRead interleaves sends with read resets. Whatever the
// interleaving, the counter must equal the messages left unread.
func testAppendsRacingMarkRead(t *testing.T, store repositories.Store, rounds int) {
	ctx := context.Background()
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	chat := createChat(t, store, alice, bob)

	var wg sync.WaitGroup
	errs := make(chan error, 2*rounds)
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			msg := &models.Message{
				ID:        uuid.NewString(),
				ChatID:    chat.ID,
				SenderID:  alice,
				Kind:      models.MessageKindText,
				Text:      "hi",
				CreatedAt: at(n),
			}
			errs <- store.AppendMessage(ctx, msg, bob)
		}(i)
		go func() {
			defer wg.Done()
			_, err := store.MarkChatRead(ctx, chat.ID, bob)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	msgs, err := store.ListMessages(ctx, chat.ID, rounds+1, "")
	require.NoError(t, err)
	require.Len(t, msgs, rounds)
	unread := 0
	for _, m := range msgs {
		if !m.Read {
			unread++
		}
	}
	got, err := store.GetChat(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, unread, got.UnreadCount[bob])
}

func newNotification(recipient string, i int) *models.Notification {
	return &models.Notification{
		ID:          fmt.Sprintf("n%03d-%s", i, uuid.NewString()[:8]),
		RecipientID: recipient,
		Type:        models.NotificationMessage,
		ActorID:     "actor",
		ActorName:   "Actor",
		Message:     fmt.Sprintf("notification %d", i),
		Payload:     map[string]any{"chatId": "c1"},
		CreatedAt:   at(i),
	}
}

func testNotifications(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	alice := uniq("alice")
	bob := uniq("bob")

	var mine []*models.Notification
	for i := 1; i <= 7; i++ {
		n := newNotification(alice, i)
		require.NoError(t, store.CreateNotification(ctx, n))
		mine = append(mine, n)
	}
	foreign := newNotification(bob, 50)
	require.NoError(t, store.CreateNotification(ctx, foreign))

	first, err := store.ListNotifications(ctx, alice, 4, "")
	require.NoError(t, err)
	require.Len(t, first, 4)
	assert.Equal(t, mine[6].ID, first[0].ID)
	assert.Equal(t, "c1", first[0].Payload["chatId"])

	second, err := store.ListNotifications(ctx, alice, 4, first[3].ID)
	require.NoError(t, err)
	require.Len(t, second, 3)
	assert.Equal(t, mine[2].ID, second[0].ID)
	assert.Equal(t, mine[0].ID, second[2].ID)

	// Another user's notification id is not a valid cursor for alice.
	top, err := store.ListNotifications(ctx, alice, 2, foreign.ID)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, mine[6].ID, top[0].ID)

	count, err := store.CountUnreadNotifications(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func testMarkNotificationsRead(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	alice := uniq("alice")
	bob := uniq("bob")

	var mine []*models.Notification
	for i := 1; i <= 4; i++ {
		n := newNotification(alice, i)
		require.NoError(t, store.CreateNotification(ctx, n))
		mine = append(mine, n)
	}
	foreign := newNotification(bob, 9)
	require.NoError(t, store.CreateNotification(ctx, foreign))

	n, err := store.MarkNotificationsRead(ctx, alice, []string{mine[0].ID, foreign.ID, "unknown"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	bobUnread, err := store.CountUnreadNotifications(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, 1, bobUnread)

	n, err = store.MarkNotificationsRead(ctx, alice, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	unread, err := store.CountUnreadNotifications(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, unread)

	list, err := store.ListNotifications(ctx, alice, 10, "")
	require.NoError(t, err)
	for _, notif := range list {
		assert.True(t, notif.Read, notif.ID)
	}
}

// bulkNotifications exceeds the 500-write transaction limit of Firestore.
const bulkNotifications = 505

func testMarkAllNotificationsReadInBulk(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	alice := uniq("alice")
	for i := 0; i < bulkNotifications; i++ {
		require.NoError(t, store.CreateNotification(ctx, newNotification(alice, i)))
	}

	n, err := store.MarkNotificationsRead(ctx, alice, nil)
	require.NoError(t, err)
	assert.Equal(t, bulkNotifications, n)

	unread, err := store.CountUnreadNotifications(ctx, alice)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func newPost(author string, i int) *models.Post {
	return &models.Post{
		ID:        fmt.Sprintf("p%03d-%s", i, uuid.NewString()[:8]),
		AuthorID:  author,
		Content:   fmt.Sprintf("post %d", i),
		MediaURLs: []string{"https://cdn.example.com/a.jpg"},
		CreatedAt: at(i),
		UpdatedAt: at(i),
	}
}

func testPosts(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	carol := createUser(t, store, "carol")

	var alicePosts, bobPosts []*models.Post
	for i := 1; i <= 3; i++ {
		p := newPost(alice, 2*i)
		require.NoError(t, store.CreatePost(ctx, p))
		alicePosts = append(alicePosts, p)
		q := newPost(bob, 2*i+1)
		require.NoError(t, store.CreatePost(ctx, q))
		bobPosts = append(bobPosts, q)
	}
	require.NoError(t, store.CreatePost(ctx, newPost(carol, 20)))
	require.ErrorIs(t, store.CreatePost(ctx, newPost(uniq("ghost"), 21)), repositories.ErrNotFound)

	u, err := store.GetUser(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, u.Posts, 3)

	got, err := store.GetPost(ctx, alicePosts[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg"}, got.MediaURLs)

	feed, err := store.ListPostsByAuthors(ctx, []string{alice, bob}, 4, "")
	require.NoError(t, err)
	require.Len(t, feed, 4)
	assert.Equal(t, bobPosts[2].ID, feed[0].ID)
	assert.Equal(t, alicePosts[2].ID, feed[1].ID)

	rest, err := store.ListPostsByAuthors(ctx, []string{alice, bob}, 4, feed[3].ID)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, bobPosts[0].ID, rest[0].ID)
	assert.Equal(t, alicePosts[0].ID, rest[1].ID)

	require.NoError(t, store.DeletePost(ctx, alicePosts[1].ID))
	_, err = store.GetPost(ctx, alicePosts[1].ID)
	require.ErrorIs(t, err, repositories.ErrNotFound)
	require.ErrorIs(t, store.DeletePost(ctx, alicePosts[1].ID), repositories.ErrNotFound)

	u, err = store.GetUser(ctx, alice)
	require.NoError(t, err)
	assert.NotContains(t, u.Posts, alicePosts[1].ID)
	assert.Len(t, u.Posts, 2)
}

func testLikesAndComments(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	post := newPost(alice, 1)
	require.NoError(t, store.CreatePost(ctx, post))

	require.NoError(t, store.LikePost(ctx, &models.Like{PostID: post.ID, UserID: bob, CreatedAt: at(2)}))
	err := store.LikePost(ctx, &models.Like{PostID: post.ID, UserID: bob, CreatedAt: at(3)})
	require.ErrorIs(t, err, repositories.ErrConflict)
	err = store.LikePost(ctx, &models.Like{PostID: uniq("missing"), UserID: bob, CreatedAt: at(3)})
	require.ErrorIs(t, err, repositories.ErrNotFound)

	liked, err := store.HasLiked(ctx, post.ID, bob)
	require.NoError(t, err)
	assert.True(t, liked)

	for i := 1; i <= 3; i++ {
		require.NoError(t, store.CreateComment(ctx, &models.Comment{
			ID:        fmt.Sprintf("c%03d-%s", i, uuid.NewString()[:8]),
			PostID:    post.ID,
			AuthorID:  bob,
			Content:   fmt.Sprintf("comment %d", i),
			CreatedAt: at(10 + i),
		}))
	}
	err = store.CreateComment(ctx, &models.Comment{ID: uuid.NewString(), PostID: uniq("missing"), AuthorID: bob, Content: "x", CreatedAt: at(20)})
	require.ErrorIs(t, err, repositories.ErrNotFound)

	got, err := store.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikesCount)
	assert.Equal(t, 3, got.CommentsCount)

	comments, err := store.ListComments(ctx, post.ID, 2, "")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "comment 3", comments[0].Content)
	more, err := store.ListComments(ctx, post.ID, 2, comments[1].ID)
	require.NoError(t, err)
	require.Len(t, more, 1)
	assert.Equal(t, "comment 1", more[0].Content)

	require.NoError(t, store.UnlikePost(ctx, post.ID, bob))
	require.ErrorIs(t, store.UnlikePost(ctx, post.ID, bob), repositories.ErrNotFound)

	got, err = store.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, got.LikesCount)
}
