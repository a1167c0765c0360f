package mongostore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/anonto42/nano-social/backend/internal/models"
)

func (s *Store) CreateNotification(ctx context.Context, notification *models.Notification) error {
	_, err := s.notifications.InsertOne(ctx, notification)
	return translate(err, "create notification")
}

func (s *Store) ListNotifications(ctx context.Context, recipientID string, pageSize int, cursor string) ([]models.Notification, error) {
	filter := bson.M{"recipient_id": recipientID}
	if err := applyCursor(ctx, s.notifications, filter, cursor); err != nil {
		return nil, err
	}
	return findPage[models.Notification](ctx, s.notifications, filter, pageSize)
}

// MarkNotificationsRead is a single UpdateMany, which MongoDB applies
// atomically per document and as one batch for the caller.
func (s *Store) MarkNotificationsRead(ctx context.Context, recipientID string, ids []string) (int, error) {
	filter := bson.M{"recipient_id": recipientID, "read": false}
	if len(ids) > 0 {
		filter["_id"] = bson.M{"$in": ids}
	}
	res, err := s.notifications.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, translate(err, "mark notifications read")
	}
	return int(res.ModifiedCount), nil
}

func (s *Store) CountUnreadNotifications(ctx context.Context, recipientID string) (int, error) {
	n, err := s.notifications.CountDocuments(ctx, bson.M{"recipient_id": recipientID, "read": false})
	if err != nil {
		return 0, translate(err, "count unread notifications")
	}
	return int(n), nil
}
