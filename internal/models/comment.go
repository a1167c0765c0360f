package models

import "time"

// Comment represents a comment on a post
type Comment struct {
	ID        string    `json:"id" bson:"_id" firestore:"-"`
	PostID    string    `json:"post_id" bson:"post_id" firestore:"postId"`
	AuthorID  string    `json:"author_id" bson:"author_id" firestore:"authorId"`
	Content   string    `json:"content" bson:"content" firestore:"content"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" firestore:"createdAt"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
