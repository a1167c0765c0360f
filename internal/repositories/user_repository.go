package repositories

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// CreateUser inserts a new profile; ErrConflict if the id is taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	// GetUsers returns the users that exist among ids, in ids order.
	GetUsers(ctx context.Context, ids []string) ([]models.User, error)
	UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error)
	// AddPushToken registers a token; registering it twice is a no-op.
	AddPushToken(ctx context.Context, userID, token string) error
	// RemovePushToken unregisters a token; removing an unknown token is a no-op.
	RemovePushToken(ctx context.Context, userID, token string) error
}
