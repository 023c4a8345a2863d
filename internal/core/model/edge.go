package model

import "time"

// FollowEdge is a (:User)-[:FOLLOWS]->(:User) relationship.
// Loaders guarantee no self edges and at most one edge per ordered pair.
type FollowEdge struct {
	Follower  UserID    `json:"follower"`
	Followee  UserID    `json:"followee"`
	CreatedAt time.Time `json:"created_at"`
}

// Like is the only engagement event counted by the feed. At most one per (user, item).
type Like struct {
	ID        string    `json:"id"`
	ItemID    ItemID    `json:"item_id"`
	UserID    UserID    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
