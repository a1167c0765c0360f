package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/nano-social/backend/internal/apperr"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/push"
	"github.com/anonto42/nano-social/backend/internal/repositories/memstore"
)

func TestCreateAndSendIsolatesTokenFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "bob", "Bob")
	for _, tok := range []string{"tok-1", "tok-2", "tok-3"} {
		require.NoError(t, f.users.RegisterPushToken(ctx, "bob", tok))
	}
	f.gateway.errs["tok-2"] = fmt.Errorf("%w: unregistered", push.ErrInvalidToken)
	f.gateway.errs["tok-3"] = errors.New("503 service unavailable")

	result, err := f.dispatcher.CreateAndSend(ctx, NotificationInput{
		RecipientID: "bob",
		Type:        models.NotificationLike,
		ActorID:     "alice",
		ActorName:   "Alice",
		Message:     "Alice liked your post",
		Payload:     map[string]any{"postId": "p1"},
	})
	require.NoError(t, err)
	f.dispatcher.Wait()

	require.NotNil(t, result.Notification)
	assert.Equal(t, []string{"tok-1"}, result.Delivered)
	assert.Equal(t, []string{"tok-3"}, result.Failed)
	assert.Equal(t, []string{"tok-2"}, result.Pruned)
	assert.ElementsMatch(t, []string{"tok-1", "tok-2", "tok-3"}, f.gateway.sentTokens())

	page, err := f.dispatcher.List(ctx, "bob", 10, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, result.Notification.ID, page.Items[0].ID)

	bob, err := f.store.GetUser(ctx, "bob")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tok-1", "tok-3"}, bob.PushTokens)
}

func TestCreateAndSendSoftNoops(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "bob", "Bob")

	result, err := f.dispatcher.CreateAndSend(ctx, NotificationInput{RecipientID: "bob", Type: models.NotificationFollow, Message: "hi"})
	require.NoError(t, err)
	assert.Empty(t, result.Delivered)

	result, err = f.dispatcher.CreateAndSend(ctx, NotificationInput{RecipientID: "ghost", Type: models.NotificationFollow, Message: "hi"})
	require.NoError(t, err)
	assert.NotNil(t, result.Notification)
	assert.Empty(t, f.gateway.sentTokens())

	count, err := f.dispatcher.UnreadCount(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPushPayload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createUser(t, "bob", "Bob")
	require.NoError(t, f.users.RegisterPushToken(ctx, "bob", "tok"))

	_, err := f.dispatcher.CreateAndSend(ctx, NotificationInput{
		RecipientID: "bob",
		Type:        models.NotificationMessage,
		ActorID:     "alice",
		Message:     "Alice sent you a message",
		Payload:     map[string]any{"chatId": "alice_bob"},
	})
	require.NoError(t, err)

	require.Len(t, f.gateway.msgs, 1)
	msg := f.gateway.msgs[0]
	assert.Equal(t, "New message", msg.Title)
	assert.Equal(t, "Alice sent you a message", msg.Body)
	assert.Equal(t, "alice_bob", msg.Data["chatId"])
	assert.Equal(t, "message", msg.Data["type"])
	assert.NotEmpty(t, msg.Data["notificationId"])
}

func TestNotificationListingAndMarkRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		res, err := f.dispatcher.CreateAndSend(ctx, NotificationInput{RecipientID: "bob", Type: models.NotificationLike, Message: fmt.Sprint(i)})
		require.NoError(t, err)
		ids = append(ids, res.Notification.ID)
	}
	other, err := f.dispatcher.CreateAndSend(ctx, NotificationInput{RecipientID: "carol", Type: models.NotificationLike})
	require.NoError(t, err)

	first, err := f.dispatcher.List(ctx, "bob", 3, "")
	require.NoError(t, err)
	assert.True(t, first.HasMore)
	assert.Equal(t, []string{ids[4], ids[3], ids[2]}, notificationIDs(first.Items))

	second, err := f.dispatcher.List(ctx, "bob", 3, first.NextCursor)
	require.NoError(t, err)
	assert.False(t, second.HasMore)
	assert.Equal(t, []string{ids[1], ids[0]}, notificationIDs(second.Items))

	n, err := f.dispatcher.MarkRead(ctx, "bob", []string{ids[0], other.Notification.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	carolUnread, err := f.dispatcher.UnreadCount(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, 1, carolUnread)

	n, err = f.dispatcher.MarkRead(ctx, "bob", nil)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	unread, err := f.dispatcher.UnreadCount(ctx, "bob")
	require.NoError(t, err)
	assert.Zero(t, unread)
}

// markRecorder captures the id lists handed to the store.
type markRecorder struct {
	*memstore.Store
	marked [][]string
}

func (m *markRecorder) MarkNotificationsRead(ctx context.Context, recipientID string, ids []string) (int, error) {
	m.marked = append(m.marked, ids)
	return m.Store.MarkNotificationsRead(ctx, recipientID, ids)
}

func TestMarkReadCollapsesDuplicateIDs(t *testing.T) {
	store := &markRecorder{Store: memstore.New()}
	d := NewNotificationDispatcher(store, &fakeGateway{})
	t.Cleanup(d.Wait)
	ctx := context.Background()

	first, err := d.CreateAndSend(ctx, NotificationInput{RecipientID: "bob", Type: models.NotificationLike})
	require.NoError(t, err)
	second, err := d.CreateAndSend(ctx, NotificationInput{RecipientID: "bob", Type: models.NotificationLike})
	require.NoError(t, err)
	a, b := first.Notification.ID, second.Notification.ID

	n, err := d.MarkRead(ctx, "bob", []string{b, a, b, a, a})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, store.marked, 1)
	assert.ElementsMatch(t, []string{a, b}, store.marked[0])
}

func TestEnqueueDetachesFromRequestContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	f.dispatcher.Enqueue(ctx, NotificationInput{RecipientID: "bob", Type: models.NotificationFollow})
	cancel()
	f.dispatcher.Wait()

	count, err := f.dispatcher.UnreadCount(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStoreErrMapping(t *testing.T) {
	assert.Nil(t, storeErr(nil, "x"))
	assert.Equal(t, apperr.KindDependencyFailure, apperr.KindOf(storeErr(errors.New("boom"), "x")))
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(storeErr(apperr.Forbidden("no"), "x")))
}

func notificationIDs(items []models.Notification) []string {
	out := make([]string, len(items))
	for i, n := range items {
		out[i] = n.ID
	}
	return out
}
