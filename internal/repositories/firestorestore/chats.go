package firestorestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

func setChatID(c *models.Chat, id string)       { c.ID = id }
func setMessageID(m *models.Message, id string) { m.ID = id }

func unreadPath(userID string) firestore.FieldPath {
	return firestore.FieldPath{"unreadCount", userID}
}

// CreateChatIfAbsent relies on Create failing with AlreadyExists, so the
// first writer wins and later callers read its document.
func (s *Store) CreateChatIfAbsent(ctx context.Context, chat *models.Chat) (*models.Chat, bool, error) {
	doc := *chat
	if doc.UnreadCount == nil {
		doc.UnreadCount = map[string]int{}
	}
	_, err := s.chats().Doc(chat.ID).Create(ctx, &doc)
	switch status.Code(err) {
	case codes.OK:
		return &doc, true, nil
	case codes.AlreadyExists:
		stored, err := s.GetChat(ctx, chat.ID)
		return stored, false, err
	}
	return nil, false, translate(err, "create chat")
}

func (s *Store) GetChat(ctx context.Context, id string) (*models.Chat, error) {
	snap, err := s.chats().Doc(id).Get(ctx)
	if err != nil {
		return nil, translate(err, "get chat")
	}
	var c models.Chat
	if err := snap.DataTo(&c); err != nil {
		return nil, translate(err, "decode chat")
	}
	c.ID = snap.Ref.ID
	return &c, nil
}

func (s *Store) ListChats(ctx context.Context, userID string, limit int) ([]models.Chat, error) {
	snaps, err := s.chats().
		Where("participants", "array-contains", userID).
		OrderBy("lastMessageAt", firestore.Desc).
		OrderBy(firestore.DocumentID, firestore.Desc).
		Limit(limit).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, translate(err, "list chats")
	}
	return decodeAll(snaps, setChatID)
}

// AppendMessage commits the message and the chat update together. The
// transaction reads nothing; the counter moves by a server-side increment and
// a missing chat fails the update precondition.
func (s *Store) AppendMessage(ctx context.Context, msg *models.Message, recipientID string) error {
	chat := s.chats().Doc(msg.ChatID)
	return s.runTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Create(s.messages(msg.ChatID).Doc(msg.ID), msg); err != nil {
			return err
		}
		return tx.Update(chat, []firestore.Update{
			{Path: "lastMessage", Value: msg.Snapshot()},
			{Path: "lastMessageAt", Value: msg.CreatedAt},
			{FieldPath: unreadPath(recipientID), Value: firestore.Increment(1)},
		})
	})
}

func (s *Store) ListMessages(ctx context.Context, chatID string, pageSize int, cursor string) ([]models.Message, error) {
	coll := s.messages(chatID)
	after, err := cursorSnapshot(ctx, coll, cursor, nil)
	if err != nil {
		return nil, err
	}
	snaps, err := s.page(ctx, coll.Query, after, pageSize)
	if err != nil {
		return nil, err
	}
	return decodeAll(snaps, setMessageID)
}

func (s *Store) AcknowledgeMessages(ctx context.Context, chatID, readerID string, ids []string) ([]string, error) {
	flipped := []string{}
	if len(ids) == 0 {
		return flipped, nil
	}
	chat := s.chats().Doc(chatID)
	refs := []*firestore.DocumentRef{chat}
	for _, id := range ids {
		refs = append(refs, s.messages(chatID).Doc(id))
	}
	err := s.runTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		flipped = flipped[:0]
		snaps, err := tx.GetAll(refs)
		if err != nil {
			return err
		}
		if !snaps[0].Exists() {
			return repositories.ErrNotFound
		}
		var c models.Chat
		if err := snaps[0].DataTo(&c); err != nil {
			return err
		}
		for _, snap := range snaps[1:] {
			if !snap.Exists() {
				continue
			}
			var m models.Message
			if err := snap.DataTo(&m); err != nil {
				return err
			}
			if m.Read || m.SenderID == readerID {
				continue
			}
			if err := tx.Update(snap.Ref, []firestore.Update{{Path: "read", Value: true}}); err != nil {
				return err
			}
			flipped = append(flipped, snap.Ref.ID)
		}
		if len(flipped) == 0 {
			return nil
		}
		remaining := max(c.UnreadCount[readerID]-len(flipped), 0)
		return tx.Update(chat, []firestore.Update{{FieldPath: unreadPath(readerID), Value: remaining}})
	})
	if err != nil {
		return nil, err
	}
	return flipped, nil
}

// MarkChatRead flips in transactions of at most maxBatchWrites writes until
// no unread message from the other participant is left.
func (s *Store) MarkChatRead(ctx context.Context, chatID, readerID string) (int, error) {
	chat := s.chats().Doc(chatID)
	unread := s.messages(chatID).
		Where("read", "==", false).
		Where("senderId", "!=", readerID).
		Limit(maxBatchWrites - 1)
	total := 0
	for {
		var n int
		err := s.runTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
			if _, err := tx.Get(chat); err != nil {
				return err
			}
			snaps, err := tx.Documents(unread).GetAll()
			if err != nil {
				return err
			}
			for _, snap := range snaps {
				if err := tx.Update(snap.Ref, []firestore.Update{{Path: "read", Value: true}}); err != nil {
					return err
				}
			}
			n = len(snaps)
			return tx.Update(chat, []firestore.Update{{FieldPath: unreadPath(readerID), Value: 0}})
		})
		if err != nil {
			return 0, err
		}
		total += n
		if n < maxBatchWrites-1 {
			return total, nil
		}
	}
}
