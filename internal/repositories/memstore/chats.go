package memstore

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

func messageKey(m *models.Message) (time.Time, string) { return m.CreatedAt, m.ID }

func (s *Store) CreateChatIfAbsent(_ context.Context, chat *models.Chat) (*models.Chat, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.chats[chat.ID]; ok {
		return cloneChat(existing), false, nil
	}
	s.chats[chat.ID] = cloneChat(chat)
	return cloneChat(chat), true, nil
}

func (s *Store) GetChat(_ context.Context, id string) (*models.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat, ok := s.chats[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneChat(chat), nil
}

func (s *Store) ListChats(_ context.Context, userID string, limit int) ([]models.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chats := []models.Chat{}
	for _, chat := range s.chats {
		if chat.HasParticipant(userID) {
			chats = append(chats, *cloneChat(chat))
		}
	}
	sort.Slice(chats, func(i, j int) bool {
		if !chats[i].LastMessageAt.Equal(chats[j].LastMessageAt) {
			return chats[i].LastMessageAt.After(chats[j].LastMessageAt)
		}
		return chats[i].ID > chats[j].ID
	})
	if limit > 0 && len(chats) > limit {
		chats = chats[:limit]
	}
	return chats, nil
}

func (s *Store) AppendMessage(_ context.Context, msg *models.Message, recipientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat, ok := s.chats[msg.ChatID]
	if !ok {
		return repositories.ErrNotFound
	}
	stored := *msg
	s.messages[msg.ChatID] = append(s.messages[msg.ChatID], &stored)
	chat.LastMessage = msg.Snapshot()
	chat.LastMessageAt = msg.CreatedAt
	if chat.UnreadCount == nil {
		chat.UnreadCount = map[string]int{}
	}
	chat.UnreadCount[recipientID]++
	return nil
}

func (s *Store) ListMessages(_ context.Context, chatID string, pageSize int, cursor string) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	page := pageAfter(s.messages[chatID], messageKey, pageSize, cursor)
	out := make([]models.Message, len(page))
	for i, m := range page {
		out[i] = *m
	}
	return out, nil
}

func (s *Store) AcknowledgeMessages(_ context.Context, chatID, readerID string, ids []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat, ok := s.chats[chatID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	flipped := []string{}
	for _, m := range s.messages[chatID] {
		if !m.Read && m.SenderID != readerID && slices.Contains(ids, m.ID) {
			m.Read = true
			flipped = append(flipped, m.ID)
		}
	}
	chat.UnreadCount[readerID] = max(0, chat.UnreadCount[readerID]-len(flipped))
	return flipped, nil
}

func (s *Store) MarkChatRead(_ context.Context, chatID, readerID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	chat, ok := s.chats[chatID]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	n := 0
	for _, m := range s.messages[chatID] {
		if !m.Read && m.SenderID != readerID {
			m.Read = true
			n++
		}
	}
	if chat.UnreadCount == nil {
		chat.UnreadCount = map[string]int{}
	}
	chat.UnreadCount[readerID] = 0
	return n, nil
}
