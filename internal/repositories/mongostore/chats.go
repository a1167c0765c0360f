package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

// unreadField is the dotted path of userID's counter. Principal ids from the
// identity provider never contain '.' or '$'.
func unreadField(userID string) string {
	return "unread_count." + userID
}

// CreateChatIfAbsent upserts with $setOnInsert, so concurrent callers for the
// same pair converge on one document.
func (s *Store) CreateChatIfAbsent(ctx context.Context, chat *models.Chat) (*models.Chat, bool, error) {
	unread := chat.UnreadCount
	if unread == nil {
		unread = map[string]int{}
	}
	res, err := s.chats.UpdateOne(ctx,
		bson.M{"_id": chat.ID},
		bson.M{"$setOnInsert": bson.M{
			"participants":    chat.Participants,
			"created_at":      chat.CreatedAt,
			"last_message":    chat.LastMessage,
			"last_message_at": chat.LastMessageAt,
			"unread_count":    unread,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return nil, false, translate(err, "create chat")
	}
	stored, err := s.GetChat(ctx, chat.ID)
	if err != nil {
		return nil, false, err
	}
	return stored, res != nil && res.UpsertedCount > 0, nil
}

func (s *Store) GetChat(ctx context.Context, id string) (*models.Chat, error) {
	var chat models.Chat
	if err := s.chats.FindOne(ctx, bson.M{"_id": id}).Decode(&chat); err != nil {
		return nil, translate(err, "get chat")
	}
	return &chat, nil
}

func (s *Store) ListChats(ctx context.Context, userID string, limit int) ([]models.Chat, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "last_message_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := s.chats.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, translate(err, "list chats")
	}
	defer cur.Close(ctx)
	chats := []models.Chat{}
	if err := cur.All(ctx, &chats); err != nil {
		return nil, translate(err, "decode chats")
	}
	return chats, nil
}

// AppendMessage inserts the message and updates the chat in one transaction.
func (s *Store) AppendMessage(ctx context.Context, msg *models.Message, recipientID string) error {
	return s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := s.chats.UpdateOne(sc, bson.M{"_id": msg.ChatID}, bson.M{
			"$set": bson.M{
				"last_message":    msg.Snapshot(),
				"last_message_at": msg.CreatedAt,
			},
			"$inc": bson.M{unreadField(recipientID): 1},
		})
		if err != nil {
			return translate(err, "update chat")
		}
		if res.MatchedCount == 0 {
			return repositories.ErrNotFound
		}
		_, err = s.messages.InsertOne(sc, msg)
		return translate(err, "insert message")
	})
}

func (s *Store) ListMessages(ctx context.Context, chatID string, pageSize int, cursor string) ([]models.Message, error) {
	filter := bson.M{"chat_id": chatID}
	if err := applyCursor(ctx, s.messages, filter, cursor); err != nil {
		return nil, err
	}
	return findPage[models.Message](ctx, s.messages, filter, pageSize)
}

func (s *Store) AcknowledgeMessages(ctx context.Context, chatID, readerID string, ids []string) ([]string, error) {
	flipped := []string{}
	if len(ids) == 0 {
		return flipped, nil
	}
	err := s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		flipped = flipped[:0]
		if err := s.chats.FindOne(sc, bson.M{"_id": chatID}).Err(); err != nil {
			return translate(err, "acknowledge messages")
		}
		filter := bson.M{
			"chat_id":   chatID,
			"_id":       bson.M{"$in": ids},
			"sender_id": bson.M{"$ne": readerID},
			"read":      false,
		}
		cur, err := s.messages.Find(sc, filter, options.Find().SetProjection(bson.M{"_id": 1}))
		if err != nil {
			return translate(err, "select unread")
		}
		var docs []struct {
			ID string `bson:"_id"`
		}
		if err := cur.All(sc, &docs); err != nil {
			return translate(err, "decode unread")
		}
		if len(docs) == 0 {
			return nil
		}
		for _, d := range docs {
			flipped = append(flipped, d.ID)
		}
		res, err := s.messages.UpdateMany(sc,
			bson.M{"_id": bson.M{"$in": flipped}, "read": false},
			bson.M{"$set": bson.M{"read": true}})
		if err != nil {
			return translate(err, "flip messages")
		}
		n := res.ModifiedCount
		field := unreadField(readerID)
		// Pipeline update keeps the decrement relative and floored at zero.
		_, err = s.chats.UpdateOne(sc, bson.M{"_id": chatID}, mongo.Pipeline{
			{{Key: "$set", Value: bson.M{field: bson.M{"$max": bson.A{
				0,
				bson.M{"$subtract": bson.A{bson.M{"$ifNull": bson.A{"$" + field, 0}}, n}},
			}}}}},
		})
		return translate(err, "decrement unread")
	})
	if err != nil {
		return nil, err
	}
	return flipped, nil
}

func (s *Store) MarkChatRead(ctx context.Context, chatID, readerID string) (int, error) {
	var n int64
	err := s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := s.chats.UpdateOne(sc, bson.M{"_id": chatID},
			bson.M{"$set": bson.M{unreadField(readerID): 0}})
		if err != nil {
			return translate(err, "reset unread")
		}
		if res.MatchedCount == 0 {
			return repositories.ErrNotFound
		}
		flip, err := s.messages.UpdateMany(sc,
			bson.M{"chat_id": chatID, "sender_id": bson.M{"$ne": readerID}, "read": false},
			bson.M{"$set": bson.M{"read": true}})
		if err != nil {
			return translate(err, "flip messages")
		}
		n = flip.ModifiedCount
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
