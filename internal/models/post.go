package models

import "time"

// Post is a user's post. LikesCount and CommentsCount are kept in step with
// the like and comment records.
type Post struct {
	ID            string    `json:"id" bson:"_id" firestore:"-"`
	AuthorID      string    `json:"author_id" bson:"author_id" firestore:"authorId"`
	Content       string    `json:"content" bson:"content" firestore:"content"`
	MediaURLs     []string  `json:"media_urls,omitempty" bson:"media_urls,omitempty" firestore:"mediaUrls,omitempty"`
	LikesCount    int       `json:"likes_count" bson:"likes_count" firestore:"likesCount"`
	CommentsCount int       `json:"comments_count" bson:"comments_count" firestore:"commentsCount"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" firestore:"createdAt"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at" firestore:"updatedAt"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content   string   `json:"content" validate:"max=280"`
	MediaURLs []string `json:"media_urls,omitempty" validate:"omitempty,max=10,dive,url"`
}
