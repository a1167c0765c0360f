package firestorestore

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/anonto42/nano-social/backend/internal/models"
)

func setNotificationID(n *models.Notification, id string) { n.ID = id }

func (s *Store) CreateNotification(ctx context.Context, notification *models.Notification) error {
	_, err := s.notifications().Doc(notification.ID).Create(ctx, notification)
	return translate(err, "create notification")
}

func (s *Store) ListNotifications(ctx context.Context, recipientID string, pageSize int, cursor string) ([]models.Notification, error) {
	coll := s.notifications()
	after, err := cursorSnapshot(ctx, coll, cursor, func(snap *firestore.DocumentSnapshot) bool {
		owner, err := snap.DataAt("recipientId")
		return err == nil && owner == recipientID
	})
	if err != nil {
		return nil, err
	}
	snaps, err := s.page(ctx, coll.Where("recipientId", "==", recipientID), after, pageSize)
	if err != nil {
		return nil, err
	}
	return decodeAll(snaps, setNotificationID)
}

// MarkNotificationsRead flips explicit ids in one transaction; they are
// bounded by request validation. Marking all runs transactions of at most
// maxBatchWrites flips until nothing unread is left.
func (s *Store) MarkNotificationsRead(ctx context.Context, recipientID string, ids []string) (int, error) {
	if len(ids) > 0 {
		refs := make([]*firestore.DocumentRef, len(ids))
		for i, id := range ids {
			refs[i] = s.notifications().Doc(id)
		}
		return s.flipNotifications(ctx, recipientID, func(tx *firestore.Transaction) ([]*firestore.DocumentSnapshot, error) {
			return tx.GetAll(refs)
		})
	}

	unread := s.notifications().
		Where("recipientId", "==", recipientID).
		Where("read", "==", false).
		Limit(maxBatchWrites)
	total := 0
	for {
		n, err := s.flipNotifications(ctx, recipientID, func(tx *firestore.Transaction) ([]*firestore.DocumentSnapshot, error) {
			return tx.Documents(unread).GetAll()
		})
		if err != nil {
			return total, err
		}
		total += n
		if n < maxBatchWrites {
			return total, nil
		}
	}
}

// flipNotifications marks the selected unread notifications of recipientID
// read in one transaction and returns how many it flipped.
func (s *Store) flipNotifications(ctx context.Context, recipientID string, selectDocs func(*firestore.Transaction) ([]*firestore.DocumentSnapshot, error)) (int, error) {
	n := 0
	err := s.runTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		n = 0
		snaps, err := selectDocs(tx)
		if err != nil {
			return err
		}
		for _, snap := range snaps {
			if !snap.Exists() {
				continue
			}
			var notif models.Notification
			if err := snap.DataTo(&notif); err != nil {
				return err
			}
			if notif.RecipientID != recipientID || notif.Read {
				continue
			}
			if err := tx.Update(snap.Ref, []firestore.Update{{Path: "read", Value: true}}); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Store) CountUnreadNotifications(ctx context.Context, recipientID string) (int, error) {
	snaps, err := s.notifications().
		Where("recipientId", "==", recipientID).
		Where("read", "==", false).
		Select().
		Documents(ctx).GetAll()
	if err != nil {
		return 0, translate(err, "count unread notifications")
	}
	return len(snaps), nil
}
