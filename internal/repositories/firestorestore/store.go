// Package firestorestore implements the repositories on Cloud Firestore.
//
// Layout:
//
//	users/{uid}
//	follows/{follower_followee}
//	chats/{chatId}             messages in chats/{chatId}/messages
//	notifications/{id}
//	posts/{postId}             likes/{uid} and comments/{id} below it
package firestorestore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/anonto42/nano-social/backend/internal/repositories"
)

const (
	usersCollection         = "users"
	followsCollection       = "follows"
	chatsCollection         = "chats"
	messagesCollection      = "messages"
	notificationsCollection = "notifications"
	postsCollection         = "posts"
	likesCollection         = "likes"
	commentsCollection      = "comments"

	// maxInValues is the largest value list an "in" filter accepts.
	maxInValues = 30
	// maxBatchWrites bounds the writes of one transaction.
	maxBatchWrites = 500
)

// Store implements repositories.Store for Firestore
type Store struct {
	client   *firestore.Client
	attempts int
}

var _ repositories.Store = (*Store)(nil)

// New wraps an initialized client. The store owns the client from here on.
func New(client *firestore.Client) *Store {
	return &Store{client: client, attempts: 25}
}

func (s *Store) Close(context.Context) error {
	return s.client.Close()
}

func (s *Store) users() *firestore.CollectionRef         { return s.client.Collection(usersCollection) }
func (s *Store) follows() *firestore.CollectionRef       { return s.client.Collection(followsCollection) }
func (s *Store) chats() *firestore.CollectionRef         { return s.client.Collection(chatsCollection) }
func (s *Store) notifications() *firestore.CollectionRef { return s.client.Collection(notificationsCollection) }
func (s *Store) posts() *firestore.CollectionRef         { return s.client.Collection(postsCollection) }

func (s *Store) messages(chatID string) *firestore.CollectionRef {
	return s.chats().Doc(chatID).Collection(messagesCollection)
}

func (s *Store) likes(postID string) *firestore.CollectionRef {
	return s.posts().Doc(postID).Collection(likesCollection)
}

func (s *Store) comments(postID string) *firestore.CollectionRef {
	return s.posts().Doc(postID).Collection(commentsCollection)
}

func (s *Store) runTransaction(ctx context.Context, fn func(context.Context, *firestore.Transaction) error) error {
	err := s.client.RunTransaction(ctx, fn, firestore.MaxAttempts(s.attempts))
	return translate(err, "transaction")
}

func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrNotFound) || errors.Is(err, repositories.ErrConflict) {
		return err
	}
	switch status.Code(err) {
	case codes.NotFound:
		return repositories.ErrNotFound
	case codes.AlreadyExists:
		return repositories.ErrConflict
	}
	return fmt.Errorf("firestorestore: %s: %w", op, err)
}

// newestFirst orders q by creation time, ties broken by document id.
func newestFirst(q firestore.Query) firestore.Query {
	return q.OrderBy("createdAt", firestore.Desc).OrderBy(firestore.DocumentID, firestore.Desc)
}

// decodeAll converts snapshots into models, copying the document id in with
// setID.
func decodeAll[T any](snaps []*firestore.DocumentSnapshot, setID func(*T, string)) ([]T, error) {
	out := make([]T, 0, len(snaps))
	for _, snap := range snaps {
		var v T
		if err := snap.DataTo(&v); err != nil {
			return nil, fmt.Errorf("firestorestore: decode %s: %w", snap.Ref.Path, err)
		}
		setID(&v, snap.Ref.ID)
		out = append(out, v)
	}
	return out, nil
}

// page runs q newest first, after the cursor document when there is one.
func (s *Store) page(ctx context.Context, q firestore.Query, cursor *firestore.DocumentSnapshot, pageSize int) ([]*firestore.DocumentSnapshot, error) {
	q = newestFirst(q)
	if cursor != nil {
		q = q.StartAfter(cursor)
	}
	snaps, err := q.Limit(pageSize).Documents(ctx).GetAll()
	if err != nil {
		return nil, translate(err, "query")
	}
	return snaps, nil
}

// cursorSnapshot loads the cursor document. Unknown cursors, and cursors
// rejected by inScope, yield nil so the listing starts from the top.
func cursorSnapshot(ctx context.Context, coll *firestore.CollectionRef, cursor string, inScope func(*firestore.DocumentSnapshot) bool) (*firestore.DocumentSnapshot, error) {
	if cursor == "" {
		return nil, nil
	}
	snap, err := coll.Doc(cursor).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "load cursor")
	}
	if inScope != nil && !inScope(snap) {
		return nil, nil
	}
	return snap, nil
}

type timedSnapshot struct {
	snap      *firestore.DocumentSnapshot
	createdAt time.Time
}

// mergeNewest merges per-chunk result sets into one newest-first page.
func mergeNewest(sets [][]*firestore.DocumentSnapshot, pageSize int) ([]*firestore.DocumentSnapshot, error) {
	var all []timedSnapshot
	for _, set := range sets {
		for _, snap := range set {
			v, err := snap.DataAt("createdAt")
			if err != nil {
				return nil, fmt.Errorf("firestorestore: read createdAt: %w", err)
			}
			t, _ := v.(time.Time)
			all = append(all, timedSnapshot{snap: snap, createdAt: t})
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].createdAt.Equal(all[j].createdAt) {
			return all[i].createdAt.After(all[j].createdAt)
		}
		return all[i].snap.Ref.ID > all[j].snap.Ref.ID
	})
	if len(all) > pageSize {
		all = all[:pageSize]
	}
	out := make([]*firestore.DocumentSnapshot, len(all))
	for i, ts := range all {
		out[i] = ts.snap
	}
	return out, nil
}

func chunk(ids []string, size int) [][]string {
	var out [][]string
	for len(ids) > size {
		out = append(out, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}
