// Package repositories declares the typed accessors over the document store.
// Backends live in the memstore, pgstore, mongostore and firestorestore
// subpackages; all of them satisfy Store.
package repositories

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a create would duplicate an existing record.
	ErrConflict = errors.New("record already exists")
)

// Store bundles every repository a backend provides.
type Store interface {
	UserRepository
	FollowRepository
	ChatRepository
	NotificationRepository
	PostRepository
	LikeRepository
	CommentRepository

	Close(ctx context.Context) error
}
