package models

import "time"

type MessageKind string

const (
	MessageKindText  MessageKind = "text"
	MessageKindMedia MessageKind = "media"
)

// Message is append-only; only Read ever changes after creation.
type Message struct {
	ID        string      `json:"id" bson:"_id" firestore:"-"`
	ChatID    string      `json:"chat_id" bson:"chat_id" firestore:"chatId"`
	SenderID  string      `json:"sender_id" bson:"sender_id" firestore:"senderId"`
	Kind      MessageKind `json:"kind" bson:"kind" firestore:"kind"`
	Text      string      `json:"text,omitempty" bson:"text,omitempty" firestore:"text,omitempty"`
	MediaURL  string      `json:"media_url,omitempty" bson:"media_url,omitempty" firestore:"mediaUrl,omitempty"`
	Read      bool        `json:"read" bson:"read" firestore:"read"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at" firestore:"createdAt"`
}

// Snapshot returns the chat-level summary of the message.
func (m *Message) Snapshot() MessageSnapshot {
	return MessageSnapshot{Text: m.Text, SenderID: m.SenderID, Kind: m.Kind}
}

type SendMessageRequest struct {
	Kind     MessageKind `json:"kind" validate:"omitempty,oneof=text media"`
	Text     string      `json:"text" validate:"max=4000"`
	MediaURL string      `json:"media_url" validate:"omitempty,url"`
}
