package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/anonto42/nano-social/backend/internal/apperr"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/pagination"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

const previewLength = 100

// ConversationStore is the storage the conversation service needs.
type ConversationStore interface {
	repositories.ChatRepository
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// ConversationService manages two-party chats and their messages.
type ConversationService struct {
	store    ConversationStore
	profiles ProfileLookup
	notifier Notifier
	now      Clock
	newID    IDFunc
}

func NewConversationService(store ConversationStore, profiles ProfileLookup, notifier Notifier) *ConversationService {
	return &ConversationService{
		store:    store,
		profiles: profiles,
		notifier: notifier,
		now:      systemClock,
		newID:    newUUID,
	}
}

// GetOrCreateChat returns the chat between callerID and otherID, creating it
// on first contact. The second return value reports whether it was created.
func (s *ConversationService) GetOrCreateChat(ctx context.Context, callerID, otherID string) (*models.Chat, bool, error) {
	otherID = strings.TrimSpace(otherID)
	if otherID == "" {
		return nil, false, apperr.InvalidInput("user_id is required")
	}
	if otherID == callerID {
		return nil, false, apperr.InvalidInput("Cannot start a chat with yourself")
	}
	if !models.ValidPrincipalID(callerID) || !models.ValidPrincipalID(otherID) {
		return nil, false, apperr.InvalidInput("User id cannot take part in a chat")
	}
	if _, err := s.store.GetUser(ctx, otherID); err != nil {
		return nil, false, storeErr(err, "User not found")
	}

	participants := []string{callerID, otherID}
	if otherID < callerID {
		participants = []string{otherID, callerID}
	}
	now := s.now()
	chat, created, err := s.store.CreateChatIfAbsent(ctx, &models.Chat{
		ID:            models.ChatID(callerID, otherID),
		Participants:  participants,
		CreatedAt:     now,
		LastMessageAt: now,
		UnreadCount:   map[string]int{callerID: 0, otherID: 0},
	})
	if err != nil {
		return nil, false, storeErr(err, "Chat not found")
	}
	return chat, created, nil
}

// participantChat loads the chat and checks callerID belongs to it.
func (s *ConversationService) participantChat(ctx context.Context, callerID, chatID string) (*models.Chat, error) {
	chat, err := s.store.GetChat(ctx, chatID)
	if err != nil {
		return nil, storeErr(err, "Chat not found")
	}
	if !chat.HasParticipant(callerID) {
		return nil, apperr.Forbidden("You are not a participant of this chat")
	}
	return chat, nil
}

// SendMessageInput is the content of a new message. An empty Kind is
// inferred: media when only a media URL is given, text otherwise.
type SendMessageInput struct {
	Kind     models.MessageKind
	Text     string
	MediaURL string
}

func (in SendMessageInput) normalize() (SendMessageInput, error) {
	in.Text = strings.TrimSpace(in.Text)
	in.MediaURL = strings.TrimSpace(in.MediaURL)
	if in.Kind == "" {
		in.Kind = models.MessageKindText
		if in.Text == "" && in.MediaURL != "" {
			in.Kind = models.MessageKindMedia
		}
	}
	switch in.Kind {
	case models.MessageKindText:
		if in.Text == "" {
			return in, apperr.InvalidInput("Message text cannot be empty")
		}
	case models.MessageKindMedia:
		if in.MediaURL == "" {
			return in, apperr.InvalidInput("Media messages need a media_url")
		}
	default:
		return in, apperr.Newf(apperr.KindInvalidInput, "Unknown message kind %q", in.Kind)
	}
	return in, nil
}

// SendMessage appends a message and notifies the other participant. The
// notification is queued after the write commits and cannot fail the send.
func (s *ConversationService) SendMessage(ctx context.Context, callerID, chatID string, in SendMessageInput) (*models.Message, error) {
	chat, err := s.participantChat(ctx, callerID, chatID)
	if err != nil {
		return nil, err
	}
	in, err = in.normalize()
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ID:        s.newID(),
		ChatID:    chat.ID,
		SenderID:  callerID,
		Kind:      in.Kind,
		Text:      in.Text,
		MediaURL:  in.MediaURL,
		CreatedAt: s.now(),
	}
	recipientID := chat.OtherParticipant(callerID)
	if err := s.store.AppendMessage(ctx, msg, recipientID); err != nil {
		return nil, storeErr(err, "Chat not found")
	}

	if s.notifier != nil {
		name := actorName(ctx, s.profiles, callerID)
		s.notifier.Enqueue(ctx, NotificationInput{
			RecipientID: recipientID,
			Type:        models.NotificationMessage,
			ActorID:     callerID,
			ActorName:   name,
			Message:     name + " sent you a message",
			Payload: map[string]any{
				"chatId":    chat.ID,
				"messageId": msg.ID,
				"kind":      string(msg.Kind),
				"preview":   preview(msg),
			},
		})
	}
	return msg, nil
}

func preview(msg *models.Message) string {
	if msg.Kind == models.MessageKindMedia && msg.Text == "" {
		return "Sent an attachment"
	}
	if utf8.RuneCountInString(msg.Text) <= previewLength {
		return msg.Text
	}
	return string([]rune(msg.Text)[:previewLength]) + "…"
}

// ListMessages returns a page of the chat, newest first, and marks the
// unread messages on it that the caller did not send as read.
func (s *ConversationService) ListMessages(ctx context.Context, callerID, chatID string, limit int, cursor string) (pagination.Page[models.Message], error) {
	if _, err := s.participantChat(ctx, callerID, chatID); err != nil {
		return pagination.Page[models.Message]{}, err
	}
	pageSize := pagination.ClampPageSize(limit, pagination.DefaultPageSize)
	items, err := s.store.ListMessages(ctx, chatID, pageSize, cursor)
	if err != nil {
		return pagination.Page[models.Message]{}, storeErr(err, "Chat not found")
	}

	var unread []string
	for _, m := range items {
		if !m.Read && m.SenderID != callerID {
			unread = append(unread, m.ID)
		}
	}
	if len(unread) > 0 {
		flipped, err := s.store.AcknowledgeMessages(ctx, chatID, callerID, unread)
		if err != nil {
			// The page is still valid; the next view retries the ack.
			log.Warn("failed to acknowledge messages", "chat", chatID, "reader", callerID, "err", err)
		} else {
			acked := make(map[string]bool, len(flipped))
			for _, id := range flipped {
				acked[id] = true
			}
			for i := range items {
				if acked[items[i].ID] {
					items[i].Read = true
				}
			}
		}
	}
	return pagination.NewPage(items, pageSize, func(m models.Message) string { return m.ID }), nil
}

// MarkChatRead marks every message the caller received in the chat as read
// and resets the caller's unread counter.
func (s *ConversationService) MarkChatRead(ctx context.Context, callerID, chatID string) (int, error) {
	if _, err := s.participantChat(ctx, callerID, chatID); err != nil {
		return 0, err
	}
	n, err := s.store.MarkChatRead(ctx, chatID, callerID)
	if err != nil {
		return 0, storeErr(err, "Chat not found")
	}
	return n, nil
}

// GetChat returns one chat of the caller.
func (s *ConversationService) GetChat(ctx context.Context, callerID, chatID string) (*models.Chat, error) {
	return s.participantChat(ctx, callerID, chatID)
}

// ListChats returns the caller's chats, most recently active first.
func (s *ConversationService) ListChats(ctx context.Context, callerID string, limit int) ([]models.Chat, error) {
	chats, err := s.store.ListChats(ctx, callerID, pagination.ClampPageSize(limit, pagination.DefaultPageSize))
	if err != nil {
		return nil, storeErr(err, "Chat not found")
	}
	return chats, nil
}
