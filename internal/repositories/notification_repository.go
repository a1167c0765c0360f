package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	// ListNotifications follows the same cursor contract as ListMessages,
	// restricted to recipientID's notifications.
	ListNotifications(ctx context.Context, recipientID string, pageSize int, cursor string) ([]models.Notification, error)
	// MarkNotificationsRead flips the listed ids that belong to recipientID,
	// or every unread one when ids is empty, in one batch. Foreign or unknown
	// ids are ignored. It returns the number flipped.
	MarkNotificationsRead(ctx context.Context, recipientID string, ids []string) (int, error)
	CountUnreadNotifications(ctx context.Context, recipientID string) (int, error)
}
