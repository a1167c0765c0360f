// Package services holds the business operations behind the HTTP handlers:
// conversations, notification dispatch, the follow graph, profiles, posts
// and media.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/anonto42/nano-social/backend/internal/apperr"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

// Clock returns the current time. Stored timestamps are UTC with
// millisecond precision, the finest every backend keeps.
type Clock func() time.Time

// IDFunc returns a new unique id.
type IDFunc func() string

func systemClock() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func newUUID() string {
	return uuid.NewString()
}

// ProfileLookup resolves compact user profiles, usually through a cache.
type ProfileLookup interface {
	Summary(ctx context.Context, userID string) (*models.UserSummary, error)
	Invalidate(ctx context.Context, userID string)
}

// Notifier is how services raise notifications. Enqueue never fails the
// caller; delivery problems are logged by the implementation.
type Notifier interface {
	Enqueue(ctx context.Context, in NotificationInput)
}

// storeErr maps repository sentinels onto error kinds. notFound is the
// message used when the record is missing.
func storeErr(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return apperr.Wrap(apperr.KindNotFound, notFound, err)
	case errors.Is(err, repositories.ErrConflict):
		return apperr.Wrap(apperr.KindConflict, "Resource already exists", err)
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperr.Wrap(apperr.KindDependencyFailure, "Storage operation failed", err)
}

// actorName returns the display name used in notifications, falling back to
// the id when the profile cannot be read.
func actorName(ctx context.Context, profiles ProfileLookup, userID string) string {
	if profiles == nil {
		return userID
	}
	s, err := profiles.Summary(ctx, userID)
	if err != nil || s.DisplayName == "" {
		return userID
	}
	return s.DisplayName
}
