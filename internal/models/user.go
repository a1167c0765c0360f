package models

import "time"

// User is a profile keyed by the identity provider's principal id.
// Followers, Following and Posts mirror the follow edges and authored posts.
type User struct {
	ID          string    `json:"id" bson:"_id" firestore:"-"`
	DisplayName string    `json:"display_name" bson:"display_name" firestore:"displayName"`
	Handle      string    `json:"handle" bson:"handle" firestore:"handle"`
	Bio         string    `json:"bio,omitempty" bson:"bio,omitempty" firestore:"bio,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty" bson:"avatar_url,omitempty" firestore:"avatarUrl,omitempty"`
	Followers   []string  `json:"followers" bson:"followers" firestore:"followers"`
	Following   []string  `json:"following" bson:"following" firestore:"following"`
	Posts       []string  `json:"posts" bson:"posts" firestore:"posts"`
	PushTokens  []string  `json:"-" bson:"push_tokens" firestore:"pushTokens"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at" firestore:"updatedAt"`
}

// UserSummary is the compact user shape embedded in other responses.
type UserSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Handle      string `json:"handle"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// ToSummary converts a User to its compact form.
func (u *User) ToSummary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Handle:      u.Handle,
		AvatarURL:   u.AvatarURL,
	}
}

// ProfileUpdate is a partial profile change; nil fields are left untouched.
type ProfileUpdate struct {
	DisplayName *string
	Handle      *string
	Bio         *string
	AvatarURL   *string
	UpdatedAt   time.Time
}

// IsEmpty reports whether the update changes nothing.
func (p ProfileUpdate) IsEmpty() bool {
	return p.DisplayName == nil && p.Handle == nil && p.Bio == nil && p.AvatarURL == nil
}

type CreateProfileRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=2,max=50"`
	Handle      string `json:"handle" validate:"required,min=2,max=30,alphanumunicode"`
	Bio         string `json:"bio,omitempty" validate:"omitempty,max=160"`
	AvatarURL   string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,min=2,max=50"`
	Handle      *string `json:"handle,omitempty" validate:"omitempty,min=2,max=30,alphanumunicode"`
	Bio         *string `json:"bio,omitempty" validate:"omitempty,max=160"`
	AvatarURL   *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// ToUpdate converts the request body to a ProfileUpdate.
func (r UpdateProfileRequest) ToUpdate() ProfileUpdate {
	return ProfileUpdate{
		DisplayName: r.DisplayName,
		Handle:      r.Handle,
		Bio:         r.Bio,
		AvatarURL:   r.AvatarURL,
	}
}

type PushTokenRequest struct {
	Token string `json:"token" validate:"required,max=4096"`
}
