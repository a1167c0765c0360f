package models

import (
	"slices"
	"strings"
	"time"
)

// Chat is a two-party conversation. Its id is derived from the participants.
type Chat struct {
	ID            string          `json:"id" bson:"_id" firestore:"-"`
	Participants  []string        `json:"participants" bson:"participants" firestore:"participants"`
	CreatedAt     time.Time       `json:"created_at" bson:"created_at" firestore:"createdAt"`
	LastMessage   MessageSnapshot `json:"last_message" bson:"last_message" firestore:"lastMessage"`
	LastMessageAt time.Time       `json:"last_message_at" bson:"last_message_at" firestore:"lastMessageAt"`
	UnreadCount   map[string]int  `json:"unread_count" bson:"unread_count" firestore:"unreadCount"`
}

// MessageSnapshot is the denormalized copy of a chat's latest message.
type MessageSnapshot struct {
	Text     string      `json:"text" bson:"text" firestore:"text"`
	SenderID string      `json:"sender_id" bson:"sender_id" firestore:"senderId"`
	Kind     MessageKind `json:"kind" bson:"kind" firestore:"kind"`
}

const chatIDSeparator = "_"

// ChatID returns the key shared by both participants regardless of order.
// It is unambiguous only for ids accepted by ValidPrincipalID.
func ChatID(userA, userB string) string {
	ids := []string{userA, userB}
	slices.Sort(ids)
	return strings.Join(ids, chatIDSeparator)
}

// ValidPrincipalID reports whether id may own a profile and take part in
// chats. The chat id separator and '/' (a document path delimiter) are
// rejected.
func ValidPrincipalID(id string) bool {
	return id != "" && !strings.Contains(id, chatIDSeparator) && !strings.Contains(id, "/")
}

// HasParticipant reports whether userID is one of the chat's members.
func (c *Chat) HasParticipant(userID string) bool {
	return slices.Contains(c.Participants, userID)
}

// OtherParticipant returns the member that is not userID.
func (c *Chat) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

type CreateChatRequest struct {
	UserID string `json:"user_id" validate:"required"`
}
