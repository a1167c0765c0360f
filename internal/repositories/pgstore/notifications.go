package pgstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/anonto42/nano-social/backend/internal/models"
)

func (s *Store) CreateNotification(ctx context.Context, notification *models.Notification) error {
	err := s.db.WithContext(ctx).Create(toNotificationRecord(notification)).Error
	return translate(err, "create notification")
}

func (s *Store) ListNotifications(ctx context.Context, recipientID string, pageSize int, cursor string) ([]models.Notification, error) {
	db := s.db.WithContext(ctx)
	q := db.Where("recipient_id = ?", recipientID)
	if cursor != "" {
		var c notificationRecord
		err := db.Take(&c, "recipient_id = ? AND id = ?", recipientID, cursor).Error
		switch {
		case err == nil:
			q = q.Where("(created_at < ? OR (created_at = ? AND id < ?))", c.CreatedAt, c.CreatedAt, c.ID)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, translate(err, "load cursor")
		}
	}
	var recs []notificationRecord
	if err := q.Order("created_at DESC").Order("id DESC").Limit(pageSize).Find(&recs).Error; err != nil {
		return nil, translate(err, "list notifications")
	}
	out := make([]models.Notification, len(recs))
	for i := range recs {
		out[i] = recs[i].toModel()
	}
	return out, nil
}

// MarkNotificationsRead is a single UPDATE, so both the scoped and the
// mark-all form apply as one batch.
func (s *Store) MarkNotificationsRead(ctx context.Context, recipientID string, ids []string) (int, error) {
	q := s.db.WithContext(ctx).Model(&notificationRecord{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false)
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}
	res := q.Update("is_read", true)
	if res.Error != nil {
		return 0, translate(res.Error, "mark notifications read")
	}
	return int(res.RowsAffected), nil
}

func (s *Store) CountUnreadNotifications(ctx context.Context, recipientID string) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&notificationRecord{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	if err != nil {
		return 0, translate(err, "count unread notifications")
	}
	return int(count), nil
}
