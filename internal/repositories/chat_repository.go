package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// ChatRepository stores chats and their messages.
type ChatRepository interface {
	// CreateChatIfAbsent writes chat unless a chat with the same id exists.
	// It returns the stored chat and whether this call created it.
	CreateChatIfAbsent(ctx context.Context, chat *models.Chat) (*models.Chat, bool, error)
	GetChat(ctx context.Context, id string) (*models.Chat, error)
	// ListChats returns the user's chats, most recent activity first.
	ListChats(ctx context.Context, userID string, limit int) ([]models.Chat, error)

	// AppendMessage atomically inserts msg, replaces the chat's last-message
	// snapshot and increments recipientID's unread counter by one.
	AppendMessage(ctx context.Context, msg *models.Message, recipientID string) error
	// ListMessages returns up to pageSize messages newest first, starting
	// after the message with id cursor. An unknown cursor starts from the top.
	ListMessages(ctx context.Context, chatID string, pageSize int, cursor string) ([]models.Message, error)
	// AcknowledgeMessages flips the unread messages among ids that readerID
	// did not send and decrements readerID's unread counter by the number
	// flipped, floored at zero. It returns the ids it flipped.
	AcknowledgeMessages(ctx context.Context, chatID, readerID string, ids []string) ([]string, error)
	// MarkChatRead flips every unread message readerID did not send and
	// resets readerID's unread counter to zero. It returns the number flipped.
	MarkChatRead(ctx context.Context, chatID, readerID string) (int, error)
}
