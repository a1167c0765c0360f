// Package mongostore implements the repositories on MongoDB. Multi-document
// updates run inside session transactions, so the server must be a replica
// set.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anonto42/nano-social/backend/internal/repositories"
)

// Store implements repositories.Store for MongoDB
type Store struct {
	client        *mongo.Client
	users         *mongo.Collection
	follows       *mongo.Collection
	chats         *mongo.Collection
	messages      *mongo.Collection
	notifications *mongo.Collection
	posts         *mongo.Collection
	likes         *mongo.Collection
	comments      *mongo.Collection
}

var _ repositories.Store = (*Store)(nil)

// New creates a Store over the named database.
func New(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client:        client,
		users:         db.Collection("users"),
		follows:       db.Collection("follows"),
		chats:         db.Collection("chats"),
		messages:      db.Collection("messages"),
		notifications: db.Collection("notifications"),
		posts:         db.Collection("posts"),
		likes:         db.Collection("post_likes"),
		comments:      db.Collection("comments"),
	}
}

// EnsureIndexes creates the indexes the list queries depend on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	newest := func(prefix string) bson.D {
		return bson.D{{Key: prefix, Value: 1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	}
	specs := []struct {
		coll   *mongo.Collection
		models []mongo.IndexModel
	}{
		{s.follows, []mongo.IndexModel{
			{Keys: bson.D{{Key: "follower_id", Value: 1}, {Key: "followee_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "followee_id", Value: 1}}},
		}},
		{s.chats, []mongo.IndexModel{
			{Keys: bson.D{{Key: "participants", Value: 1}, {Key: "last_message_at", Value: -1}}},
		}},
		{s.messages, []mongo.IndexModel{{Keys: newest("chat_id")}}},
		{s.notifications, []mongo.IndexModel{
			{Keys: newest("recipient_id")},
			{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "read", Value: 1}}},
		}},
		{s.posts, []mongo.IndexModel{{Keys: newest("author_id")}}},
		{s.likes, []mongo.IndexModel{{Keys: bson.D{{Key: "post_id", Value: 1}}}}},
		{s.comments, []mongo.IndexModel{{Keys: newest("post_id")}}},
	}
	for _, ix := range specs {
		if _, err := ix.coll.Indexes().CreateMany(ctx, ix.models); err != nil {
			return fmt.Errorf("mongostore: create indexes on %s: %w", ix.coll.Name(), err)
		}
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// withTransaction runs fn in a session transaction. The driver retries fn on
// transient write conflicts.
func (s *Store) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("mongostore: start session: %w", err)
	}
	defer sess.EndSession(ctx)
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return translate(err, "transaction")
}

func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repositories.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repositories.ErrConflict
	case errors.Is(err, repositories.ErrNotFound), errors.Is(err, repositories.ErrConflict):
		return err
	}
	return fmt.Errorf("mongostore: %s: %w", op, err)
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

type cursorDoc struct {
	ID        string    `bson:"_id"`
	CreatedAt time.Time `bson:"created_at"`
}

// applyCursor narrows filter to the items after the cursor document. A
// cursor that does not match scope leaves the filter untouched.
func applyCursor(ctx context.Context, coll *mongo.Collection, filter bson.M, cursor string) error {
	if cursor == "" {
		return nil
	}
	scope := bson.M{"_id": cursor}
	for k, v := range filter {
		scope[k] = v
	}
	var c cursorDoc
	err := coll.FindOne(ctx, scope).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	if err != nil {
		return translate(err, "load cursor")
	}
	filter["$or"] = bson.A{
		bson.M{"created_at": bson.M{"$lt": c.CreatedAt}},
		bson.M{"created_at": c.CreatedAt, "_id": bson.M{"$lt": c.ID}},
	}
	return nil
}

func findPage[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, pageSize int) ([]T, error) {
	opts := options.Find().SetSort(newestFirst).SetLimit(int64(pageSize))
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, translate(err, "find "+coll.Name())
	}
	defer cur.Close(ctx)
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err, "decode "+coll.Name())
	}
	return out, nil
}
