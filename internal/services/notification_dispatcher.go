package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/anonto42/nano-social/backend/internal/apperr"
	"github.com/anonto42/nano-social/backend/internal/metrics"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/pagination"
	"github.com/anonto42/nano-social/backend/internal/push"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

// NotificationInput describes one notification to create.
type NotificationInput struct {
	RecipientID string
	Type        models.NotificationType
	ActorID     string
	ActorName   string
	Message     string
	Payload     map[string]any
}

// DispatchResult reports what happened to each token. Pruned lists the
// tokens queued for removal; removal itself completes in the background.
type DispatchResult struct {
	Notification *models.Notification
	Delivered    []string
	Failed       []string
	Pruned       []string
}

// DispatchStore is the storage the dispatcher needs.
type DispatchStore interface {
	repositories.NotificationRepository
	GetUser(ctx context.Context, id string) (*models.User, error)
	RemovePushToken(ctx context.Context, userID, token string) error
}

// NotificationDispatcher persists notifications and fans them out to every
// registered device of the recipient.
type NotificationDispatcher struct {
	store       DispatchStore
	gateway     push.Gateway
	now         Clock
	newID       IDFunc
	sendTimeout time.Duration
	maxInFlight int

	background sync.WaitGroup
}

func NewNotificationDispatcher(store DispatchStore, gateway push.Gateway) *NotificationDispatcher {
	if gateway == nil {
		gateway = push.Noop{}
	}
	return &NotificationDispatcher{
		store:       store,
		gateway:     gateway,
		now:         systemClock,
		newID:       newUUID,
		sendTimeout: 10 * time.Second,
		maxInFlight: 16,
	}
}

// CreateAndSend persists the notification, then pushes it to each of the
// recipient's tokens in parallel. Only a failure to persist is returned; a
// missing recipient or one without tokens just skips delivery.
func (d *NotificationDispatcher) CreateAndSend(ctx context.Context, in NotificationInput) (*DispatchResult, error) {
	n := &models.Notification{
		ID:          d.newID(),
		RecipientID: in.RecipientID,
		Type:        in.Type,
		ActorID:     in.ActorID,
		ActorName:   in.ActorName,
		Message:     in.Message,
		Payload:     in.Payload,
		CreatedAt:   d.now(),
	}
	if err := d.store.CreateNotification(ctx, n); err != nil {
		return nil, storeErr(err, "Notification not found")
	}
	metrics.NotificationsCreated.WithLabelValues(string(n.Type)).Inc()
	result := &DispatchResult{Notification: n}

	recipient, err := d.store.GetUser(ctx, in.RecipientID)
	if errors.Is(err, repositories.ErrNotFound) {
		log.Warn("notification recipient not found, skipping push", "recipient", in.RecipientID, "notification", n.ID)
		return result, nil
	}
	if err != nil {
		log.Error("failed to load notification recipient", "recipient", in.RecipientID, "err", err)
		return result, nil
	}
	if len(recipient.PushTokens) == 0 {
		log.Debug("recipient has no push tokens", "recipient", in.RecipientID)
		return result, nil
	}

	d.fanOut(ctx, recipient, n, result)
	for _, token := range result.Pruned {
		d.pruneToken(ctx, recipient.ID, token)
	}
	return result, nil
}

func (d *NotificationDispatcher) fanOut(ctx context.Context, recipient *models.User, n *models.Notification, result *DispatchResult) {
	msg := pushMessage(n)
	outcomes := make([]error, len(recipient.PushTokens))

	var g errgroup.Group
	g.SetLimit(d.maxInFlight)
	for i, token := range recipient.PushTokens {
		g.Go(func() error {
			sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
			defer cancel()
			outcomes[i] = d.gateway.Send(sendCtx, token, msg)
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range outcomes {
		token := recipient.PushTokens[i]
		switch {
		case err == nil:
			result.Delivered = append(result.Delivered, token)
			metrics.PushDeliveries.WithLabelValues(metrics.OutcomeDelivered).Inc()
		case errors.Is(err, push.ErrInvalidToken):
			result.Pruned = append(result.Pruned, token)
			metrics.PushDeliveries.WithLabelValues(metrics.OutcomeInvalidToken).Inc()
		default:
			result.Failed = append(result.Failed, token)
			metrics.PushDeliveries.WithLabelValues(metrics.OutcomeFailed).Inc()
			log.Warn("push delivery failed", "recipient", recipient.ID, "notification", n.ID, "err", err)
		}
	}
}

// pruneToken removes an invalid token without holding up the caller.
func (d *NotificationDispatcher) pruneToken(ctx context.Context, userID, token string) {
	ctx = context.WithoutCancel(ctx)
	d.background.Add(1)
	go func() {
		defer d.background.Done()
		if err := d.store.RemovePushToken(ctx, userID, token); err != nil {
			log.Error("failed to prune push token", "user", userID, "err", err)
			return
		}
		metrics.PrunedTokens.Inc()
		log.Info("pruned invalid push token", "user", userID)
	}()
}

// Enqueue runs CreateAndSend in the background, detached from the request
// context's cancellation.
func (d *NotificationDispatcher) Enqueue(ctx context.Context, in NotificationInput) {
	ctx = context.WithoutCancel(ctx)
	d.background.Add(1)
	go func() {
		defer d.background.Done()
		if _, err := d.CreateAndSend(ctx, in); err != nil {
			log.Error("failed to create notification", "recipient", in.RecipientID, "type", in.Type, "err", err)
		}
	}()
}

// Wait blocks until background sends and token removals have finished.
func (d *NotificationDispatcher) Wait() {
	d.background.Wait()
}

// List returns the caller's notifications, newest first.
func (d *NotificationDispatcher) List(ctx context.Context, userID string, limit int, cursor string) (pagination.Page[models.Notification], error) {
	pageSize := pagination.ClampPageSize(limit, pagination.DefaultPageSize)
	items, err := d.store.ListNotifications(ctx, userID, pageSize, cursor)
	if err != nil {
		return pagination.Page[models.Notification]{}, storeErr(err, "Notification not found")
	}
	return pagination.NewPage(items, pageSize, func(n models.Notification) string { return n.ID }), nil
}

// MarkRead flips the given ids that belong to userID, or all of userID's
// unread notifications when ids is empty.
func (d *NotificationDispatcher) MarkRead(ctx context.Context, userID string, ids []string) (int, error) {
	if len(ids) > 1 {
		ids = slices.Clone(ids)
		slices.Sort(ids)
		ids = slices.Compact(ids)
	}
	n, err := d.store.MarkNotificationsRead(ctx, userID, ids)
	if err != nil {
		return 0, storeErr(err, "Notification not found")
	}
	return n, nil
}

func (d *NotificationDispatcher) UnreadCount(ctx context.Context, userID string) (int, error) {
	n, err := d.store.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindDependencyFailure, "Failed to count notifications", err)
	}
	return n, nil
}

// pushMessage flattens a notification into the gateway payload.
func pushMessage(n *models.Notification) push.Message {
	data := map[string]string{
		"notificationId": n.ID,
		"type":           string(n.Type),
		"actorId":        n.ActorID,
	}
	for k, v := range n.Payload {
		data[k] = fmt.Sprint(v)
	}
	return push.Message{
		Title: titleFor(n),
		Body:  n.Message,
		Data:  data,
	}
}

func titleFor(n *models.Notification) string {
	switch n.Type {
	case models.NotificationMessage:
		return "New message"
	case models.NotificationFollow:
		return "New follower"
	case models.NotificationLike:
		return "New like"
	case models.NotificationComment:
		return "New comment"
	}
	return "Notification"
}
