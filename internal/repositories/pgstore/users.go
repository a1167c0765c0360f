package pgstore

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
)

// CreateUser creates a new user in PostgreSQL
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	rec := &userRecord{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		Handle:      user.Handle,
		Bio:         user.Bio,
		AvatarURL:   user.AvatarURL,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(rec)
	if res.Error != nil {
		return translate(res.Error, "create user")
	}
	if res.RowsAffected == 0 {
		return repositories.ErrConflict
	}
	return nil
}

// GetUser retrieves a user by ID together with its follow, post and token lists
func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	return loadUser(s.db.WithContext(ctx), id)
}

func (s *Store) GetUsers(ctx context.Context, ids []string) ([]models.User, error) {
	users := make([]models.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	db := s.db.WithContext(ctx)
	var recs []userRecord
	if err := db.Where("id IN ?", ids).Find(&recs).Error; err != nil {
		return nil, translate(err, "get users")
	}
	byID := make(map[string]*userRecord, len(recs))
	for i := range recs {
		byID[recs[i].ID] = &recs[i]
	}
	for _, id := range ids {
		rec, ok := byID[id]
		if !ok {
			continue
		}
		u, err := hydrateUser(db, rec)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}

// UpdateProfile applies the non-nil fields of update
func (s *Store) UpdateProfile(ctx context.Context, id string, update models.ProfileUpdate) (*models.User, error) {
	var out *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec userRecord
		if err := tx.Take(&rec, "id = ?", id).Error; err != nil {
			return translate(err, "update profile")
		}
		fields := map[string]any{}
		if update.DisplayName != nil {
			fields["display_name"] = *update.DisplayName
		}
		if update.Handle != nil {
			fields["handle"] = *update.Handle
		}
		if update.Bio != nil {
			fields["bio"] = *update.Bio
		}
		if update.AvatarURL != nil {
			fields["avatar_url"] = *update.AvatarURL
		}
		if len(fields) > 0 {
			updatedAt := update.UpdatedAt
			if updatedAt.IsZero() {
				updatedAt = time.Now().UTC()
			}
			fields["updated_at"] = updatedAt
			if err := tx.Model(&userRecord{}).Where("id = ?", id).Updates(fields).Error; err != nil {
				return translate(err, "update profile")
			}
		}
		u, err := loadUser(tx, id)
		out = u
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) AddPushToken(ctx context.Context, userID, token string) error {
	db := s.db.WithContext(ctx)
	if err := requireUser(db, userID); err != nil {
		return err
	}
	rec := &pushTokenRecord{UserID: userID, Token: token, CreatedAt: time.Now().UTC()}
	err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(rec).Error
	return translate(err, "add push token")
}

func (s *Store) RemovePushToken(ctx context.Context, userID, token string) error {
	db := s.db.WithContext(ctx)
	if err := requireUser(db, userID); err != nil {
		return err
	}
	err := db.Where("user_id = ? AND token = ?", userID, token).Delete(&pushTokenRecord{}).Error
	return translate(err, "remove push token")
}

func requireUser(db *gorm.DB, id string) error {
	var count int64
	if err := db.Model(&userRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return translate(err, "lookup user")
	}
	if count == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func loadUser(db *gorm.DB, id string) (*models.User, error) {
	var rec userRecord
	if err := db.Take(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get user")
	}
	return hydrateUser(db, &rec)
}

// hydrateUser fills the mirrored id lists from the normalized tables.
func hydrateUser(db *gorm.DB, rec *userRecord) (*models.User, error) {
	u := &models.User{
		ID:          rec.ID,
		DisplayName: rec.DisplayName,
		Handle:      rec.Handle,
		Bio:         rec.Bio,
		AvatarURL:   rec.AvatarURL,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	if err := db.Model(&followRecord{}).Where("followee_id = ?", rec.ID).
		Order("created_at").Pluck("follower_id", &u.Followers).Error; err != nil {
		return nil, translate(err, "load followers")
	}
	if err := db.Model(&followRecord{}).Where("follower_id = ?", rec.ID).
		Order("created_at").Pluck("followee_id", &u.Following).Error; err != nil {
		return nil, translate(err, "load following")
	}
	if err := db.Model(&postRecord{}).Where("author_id = ?", rec.ID).
		Order("created_at").Pluck("id", &u.Posts).Error; err != nil {
		return nil, translate(err, "load posts")
	}
	if err := db.Model(&pushTokenRecord{}).Where("user_id = ?", rec.ID).
		Order("created_at").Pluck("token", &u.PushTokens).Error; err != nil {
		return nil, translate(err, "load push tokens")
	}
	return u, nil
}
