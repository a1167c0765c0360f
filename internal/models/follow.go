package models

import "time"

// Follow is the directed edge follower -> followee. It is the source of
// truth; the id lists on User mirror it.
type Follow struct {
	FollowerID string    `json:"follower_id" bson:"follower_id" firestore:"followerId"`
	FolloweeID string    `json:"followee_id" bson:"followee_id" firestore:"followeeId"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" firestore:"createdAt"`
}

// FollowKey is the storage key of the edge.
func FollowKey(followerID, followeeID string) string {
	return followerID + "_" + followeeID
}
