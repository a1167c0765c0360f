package models

import "time"

// Like represents a like on a post
type Like struct {
	PostID    string    `json:"post_id" bson:"post_id" firestore:"postId"`
	UserID    string    `json:"user_id" bson:"user_id" firestore:"userId"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" firestore:"createdAt"`
}

// LikeKey is the storage key of a user's like on a post.
func LikeKey(postID, userID string) string {
	return postID + "_" + userID
}
