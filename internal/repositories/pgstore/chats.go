package pgstore

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// lockChat reads the chat row FOR UPDATE. Every writer of a chat's messages
// takes this lock first, so a read reset cannot miss a message whose counter
// increment commits after it.
func lockChat(tx *gorm.DB, chat *chatRecord, id string) error {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).Take(chat, "id = ?", id).Error
}

// CreateChatIfAbsent relies on the primary key: the losing writer of a race
// inserts nothing and reads the winner's row.
func (s *Store) CreateChatIfAbsent(ctx context.Context, chat *models.Chat) (*models.Chat, bool, error) {
	db := s.db.WithContext(ctx)
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(toChatRecord(chat))
	if res.Error != nil {
		return nil, false, translate(res.Error, "create chat")
	}
	var rec chatRecord
	if err := db.Take(&rec, "id = ?", chat.ID).Error; err != nil {
		return nil, false, translate(err, "get chat")
	}
	return rec.toModel(), res.RowsAffected > 0, nil
}

func (s *Store) GetChat(ctx context.Context, id string) (*models.Chat, error) {
	var rec chatRecord
	if err := s.db.WithContext(ctx).Take(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get chat")
	}
	return rec.toModel(), nil
}

func (s *Store) ListChats(ctx context.Context, userID string, limit int) ([]models.Chat, error) {
	var recs []chatRecord
	err := s.db.WithContext(ctx).
		Where("user_a = ? OR user_b = ?", userID, userID).
		Order("last_message_at DESC").Order("id DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, translate(err, "list chats")
	}
	chats := make([]models.Chat, len(recs))
	for i := range recs {
		chats[i] = *recs[i].toModel()
	}
	return chats, nil
}

// AppendMessage inserts the message and updates the chat row in one
// transaction. The counter is bumped relative to its stored value.
func (s *Store) AppendMessage(ctx context.Context, msg *models.Message, recipientID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var chat chatRecord
		if err := lockChat(tx, &chat, msg.ChatID); err != nil {
			return translate(err, "append message")
		}
		if err := tx.Create(toMessageRecord(msg)).Error; err != nil {
			return translate(err, "insert message")
		}
		fields := map[string]any{
			"last_text":       msg.Text,
			"last_sender_id":  msg.SenderID,
			"last_kind":       string(msg.Kind),
			"last_message_at": msg.CreatedAt,
		}
		if col, ok := chat.unreadColumn(recipientID); ok {
			fields[col] = gorm.Expr(col + " + 1")
		}
		err := tx.Model(&chatRecord{}).Where("id = ?", chat.ID).Updates(fields).Error
		return translate(err, "update chat")
	})
}

func (s *Store) ListMessages(ctx context.Context, chatID string, pageSize int, cursor string) ([]models.Message, error) {
	db := s.db.WithContext(ctx)
	q := db.Where("chat_id = ?", chatID)
	if cursor != "" {
		var c messageRecord
		err := db.Take(&c, "chat_id = ? AND id = ?", chatID, cursor).Error
		switch {
		case err == nil:
			q = q.Where("(created_at < ? OR (created_at = ? AND id < ?))", c.CreatedAt, c.CreatedAt, c.ID)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, translate(err, "load cursor")
		}
	}
	var recs []messageRecord
	if err := q.Order("created_at DESC").Order("id DESC").Limit(pageSize).Find(&recs).Error; err != nil {
		return nil, translate(err, "list messages")
	}
	out := make([]models.Message, len(recs))
	for i := range recs {
		out[i] = recs[i].toModel()
	}
	return out, nil
}

func (s *Store) AcknowledgeMessages(ctx context.Context, chatID, readerID string, ids []string) ([]string, error) {
	flipped := []string{}
	if len(ids) == 0 {
		return flipped, nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var chat chatRecord
		if err := lockChat(tx, &chat, chatID); err != nil {
			return translate(err, "acknowledge messages")
		}
		var candidates []string
		if err := tx.Model(&messageRecord{}).
			Where("chat_id = ? AND id IN ? AND sender_id <> ? AND is_read = ?", chatID, ids, readerID, false).
			Pluck("id", &candidates).Error; err != nil {
			return translate(err, "select unread")
		}
		if len(candidates) == 0 {
			return nil
		}
		// is_read = false in the update guards against a concurrent reader
		// that flipped the same rows first; only rows this statement changed
		// count toward the decrement.
		res := tx.Model(&messageRecord{}).
			Where("id IN ? AND is_read = ?", candidates, false).
			Update("is_read", true)
		if res.Error != nil {
			return translate(res.Error, "flip messages")
		}
		flipped = candidates
		n := res.RowsAffected
		col, ok := chat.unreadColumn(readerID)
		if !ok || n == 0 {
			return nil
		}
		err := tx.Model(&chatRecord{}).Where("id = ?", chatID).
			Update(col, gorm.Expr("CASE WHEN "+col+" > ? THEN "+col+" - ? ELSE 0 END", n, n)).Error
		return translate(err, "decrement unread")
	})
	if err != nil {
		return nil, err
	}
	return flipped, nil
}

func (s *Store) MarkChatRead(ctx context.Context, chatID, readerID string) (int, error) {
	var n int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var chat chatRecord
		if err := lockChat(tx, &chat, chatID); err != nil {
			return translate(err, "mark chat read")
		}
		res := tx.Model(&messageRecord{}).
			Where("chat_id = ? AND sender_id <> ? AND is_read = ?", chatID, readerID, false).
			Update("is_read", true)
		if res.Error != nil {
			return translate(res.Error, "flip messages")
		}
		n = res.RowsAffected
		if col, ok := chat.unreadColumn(readerID); ok {
			if err := tx.Model(&chatRecord{}).Where("id = ?", chatID).Update(col, 0).Error; err != nil {
				return translate(err, "reset unread")
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
