// Package pgstore implements the repositories on PostgreSQL through GORM.
package pgstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/anonto42/nano-social/backend/internal/repositories"
)

// Store implements repositories.Store for PostgreSQL
type Store struct {
	db *gorm.DB
}

var _ repositories.Store = (*Store)(nil)

// New wraps an open GORM connection. The connection should be opened with
// TranslateError so unique violations surface as gorm.ErrDuplicatedKey.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates every table the store uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userRecord{},
		&pushTokenRecord{},
		&followRecord{},
		&chatRecord{},
		&messageRecord{},
		&notificationRecord{},
		&postRecord{},
		&likeRecord{},
		&commentRecord{},
	)
}

func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// translate maps GORM errors onto the repository sentinels.
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repositories.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repositories.ErrConflict
	case errors.Is(err, repositories.ErrNotFound), errors.Is(err, repositories.ErrConflict):
		return err
	}
	return fmt.Errorf("pgstore: %s: %w", op, err)
}
