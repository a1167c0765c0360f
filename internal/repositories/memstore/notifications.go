package memstore

import (
	"context"
	"maps"
	"time"

	"github.com/anonto42/nano-social/backend/internal/models"
)

func notificationKey(n *models.Notification) (time.Time, string) { return n.CreatedAt, n.ID }

func (s *Store) CreateNotification(_ context.Context, notification *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *notification
	stored.Payload = maps.Clone(notification.Payload)
	s.notifications[notification.ID] = &stored
	return nil
}

func (s *Store) ListNotifications(_ context.Context, recipientID string, pageSize int, cursor string) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owned := []*models.Notification{}
	for _, n := range s.notifications {
		if n.RecipientID == recipientID {
			owned = append(owned, n)
		}
	}
	page := pageAfter(owned, notificationKey, pageSize, cursor)
	out := make([]models.Notification, len(page))
	for i, n := range page {
		out[i] = *n
		out[i].Payload = maps.Clone(n.Payload)
	}
	return out, nil
}

func (s *Store) MarkNotificationsRead(_ context.Context, recipientID string, ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	if len(ids) == 0 {
		for _, notif := range s.notifications {
			if notif.RecipientID == recipientID && !notif.Read {
				notif.Read = true
				n++
			}
		}
		return n, nil
	}
	for _, id := range ids {
		notif, ok := s.notifications[id]
		if ok && notif.RecipientID == recipientID && !notif.Read {
			notif.Read = true
			n++
		}
	}
	return n, nil
}

func (s *Store) CountUnreadNotifications(_ context.Context, recipientID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, notif := range s.notifications {
		if notif.RecipientID == recipientID && !notif.Read {
			n++
		}
	}
	return n, nil
}
