package pgstore

import (
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// The relational layout keeps follow edges, push tokens and post ownership
// normalized; the id lists on models.User are assembled from them on read.

type userRecord struct {
	ID          string `gorm:"primaryKey;size:128"`
	DisplayName string `gorm:"size:100"`
	Handle      string `gorm:"size:50;index"`
	Bio         string `gorm:"size:160"`
	AvatarURL   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (userRecord) TableName() string { return "users" }

type pushTokenRecord struct {
	UserID    string `gorm:"primaryKey;size:128"`
	Token     string `gorm:"primaryKey;size:512"`
	CreatedAt time.Time
}

func (pushTokenRecord) TableName() string { return "push_tokens" }

type followRecord struct {
	FollowerID string `gorm:"primaryKey;size:128"`
	FolloweeID string `gorm:"primaryKey;size:128;index"`
	CreatedAt  time.Time
}

func (followRecord) TableName() string { return "follows" }

type chatRecord struct {
	ID            string `gorm:"primaryKey;size:260"`
	UserA         string `gorm:"size:128;index"`
	UserB         string `gorm:"size:128;index"`
	UnreadA       int    `gorm:"not null;default:0"`
	UnreadB       int    `gorm:"not null;default:0"`
	LastText      string
	LastSenderID  string `gorm:"size:128"`
	LastKind      string `gorm:"size:10"`
	LastMessageAt time.Time `gorm:"index"`
	CreatedAt     time.Time
}

func (chatRecord) TableName() string { return "chats" }

// unreadColumn names the counter column that belongs to userID.
func (c *chatRecord) unreadColumn(userID string) (string, bool) {
	switch userID {
	case c.UserA:
		return "unread_a", true
	case c.UserB:
		return "unread_b", true
	}
	return "", false
}

func toChatRecord(c *models.Chat) *chatRecord {
	rec := &chatRecord{
		ID:            c.ID,
		LastText:      c.LastMessage.Text,
		LastSenderID:  c.LastMessage.SenderID,
		LastKind:      string(c.LastMessage.Kind),
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
	}
	if len(c.Participants) == 2 {
		rec.UserA, rec.UserB = c.Participants[0], c.Participants[1]
	}
	rec.UnreadA = c.UnreadCount[rec.UserA]
	rec.UnreadB = c.UnreadCount[rec.UserB]
	return rec
}

func (c *chatRecord) toModel() *models.Chat {
	return &models.Chat{
		ID:           c.ID,
		Participants: []string{c.UserA, c.UserB},
		CreatedAt:    c.CreatedAt,
		LastMessage: models.MessageSnapshot{
			Text:     c.LastText,
			SenderID: c.LastSenderID,
			Kind:     models.MessageKind(c.LastKind),
		},
		LastMessageAt: c.LastMessageAt,
		UnreadCount:   map[string]int{c.UserA: c.UnreadA, c.UserB: c.UnreadB},
	}
}

type messageRecord struct {
	ID        string `gorm:"primaryKey;size:64"`
	ChatID    string `gorm:"size:260;index:idx_messages_chat_created,priority:1"`
	SenderID  string `gorm:"size:128"`
	Kind      string `gorm:"size:10"`
	Text      string
	MediaURL  string
	IsRead    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"index:idx_messages_chat_created,priority:2"`
}

func (messageRecord) TableName() string { return "messages" }

func toMessageRecord(m *models.Message) *messageRecord {
	return &messageRecord{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Kind:      string(m.Kind),
		Text:      m.Text,
		MediaURL:  m.MediaURL,
		IsRead:    m.Read,
		CreatedAt: m.CreatedAt,
	}
}

func (m *messageRecord) toModel() models.Message {
	return models.Message{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Kind:      models.MessageKind(m.Kind),
		Text:      m.Text,
		MediaURL:  m.MediaURL,
		Read:      m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

type notificationRecord struct {
	ID          string         `gorm:"primaryKey;size:64"`
	RecipientID string         `gorm:"size:128;index:idx_notifications_recipient_created,priority:1"`
	Type        string         `gorm:"size:30"`
	ActorID     string         `gorm:"size:128"`
	ActorName   string         `gorm:"size:100"`
	Message     string
	Payload     map[string]any `gorm:"serializer:json"`
	IsRead      bool           `gorm:"not null;default:false;index"`
	CreatedAt   time.Time      `gorm:"index:idx_notifications_recipient_created,priority:2"`
}

func (notificationRecord) TableName() string { return "notifications" }

func toNotificationRecord(n *models.Notification) *notificationRecord {
	return &notificationRecord{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Type:        string(n.Type),
		ActorID:     n.ActorID,
		ActorName:   n.ActorName,
		Message:     n.Message,
		Payload:     n.Payload,
		IsRead:      n.Read,
		CreatedAt:   n.CreatedAt,
	}
}

func (n *notificationRecord) toModel() models.Notification {
	return models.Notification{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		Type:        models.NotificationType(n.Type),
		ActorID:     n.ActorID,
		ActorName:   n.ActorName,
		Message:     n.Message,
		Payload:     n.Payload,
		Read:        n.IsRead,
		CreatedAt:   n.CreatedAt,
	}
}

type postRecord struct {
	ID            string   `gorm:"primaryKey;size:64"`
	AuthorID      string   `gorm:"size:128;index"`
	Content       string   `gorm:"size:280"`
	MediaURLs     []string `gorm:"serializer:json"`
	LikesCount    int      `gorm:"not null;default:0"`
	CommentsCount int      `gorm:"not null;default:0"`
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time
}

func (postRecord) TableName() string { return "posts" }

func toPostRecord(p *models.Post) *postRecord {
	return &postRecord{
		ID:            p.ID,
		AuthorID:      p.AuthorID,
		Content:       p.Content,
		MediaURLs:     p.MediaURLs,
		LikesCount:    p.LikesCount,
		CommentsCount: p.CommentsCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (p *postRecord) toModel() models.Post {
	return models.Post{
		ID:            p.ID,
		AuthorID:      p.AuthorID,
		Content:       p.Content,
		MediaURLs:     p.MediaURLs,
		LikesCount:    p.LikesCount,
		CommentsCount: p.CommentsCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

type likeRecord struct {
	PostID    string `gorm:"primaryKey;size:64"`
	UserID    string `gorm:"primaryKey;size:128"`
	CreatedAt time.Time
}

func (likeRecord) TableName() string { return "post_likes" }

type commentRecord struct {
	ID        string    `gorm:"primaryKey;size:64"`
	PostID    string    `gorm:"size:64;index:idx_comments_post_created,priority:1"`
	AuthorID  string    `gorm:"size:128"`
	Content   string    `gorm:"size:500"`
	CreatedAt time.Time `gorm:"index:idx_comments_post_created,priority:2"`
}

func (commentRecord) TableName() string { return "comments" }

func (c *commentRecord) toModel() models.Comment {
	return models.Comment{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.AuthorID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}
