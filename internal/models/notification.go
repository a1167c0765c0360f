package models

import "time"

type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
	NotificationMessage NotificationType = "message"
)

// Notification is an in-app record owned by its recipient.
type Notification struct {
	ID          string           `json:"id" bson:"_id" firestore:"-"`
	RecipientID string           `json:"recipient_id" bson:"recipient_id" firestore:"recipientId"`
	Type        NotificationType `json:"type" bson:"type" firestore:"type"`
	ActorID     string           `json:"actor_id" bson:"actor_id" firestore:"actorId"`
	ActorName   string           `json:"actor_name" bson:"actor_name" firestore:"actorName"`
	Message     string           `json:"message" bson:"message" firestore:"message"`
	Payload     map[string]any   `json:"payload,omitempty" bson:"payload,omitempty" firestore:"payload,omitempty"`
	Read        bool             `json:"read" bson:"read" firestore:"read"`
	CreatedAt   time.Time        `json:"created_at" bson:"created_at" firestore:"createdAt"`
}

// MarkNotificationsReadRequest marks the listed ids, or every unread
// notification when IDs is empty.
type MarkNotificationsReadRequest struct {
	IDs []string `json:"ids,omitempty" validate:"omitempty,max=500,dive,required"`
}
