package model

import "time"

// UserID is the cross-store identity: the hex form of a document-store user _id,
// mirrored as the mongoId property on graph User nodes.
type UserID string

// ItemID identifies a content item (hex ObjectID of a post).
type ItemID string

// User is the document-store user record. The graph store keeps a projection of
// it (handle + mongoId) as a :User node.
type User struct {
	ID        UserID    `json:"id"`
	Handle    string    `json:"handle"`
	Name      string    `json:"name,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ContentItem is an authored post. The feed pipeline only reads it.
type ContentItem struct {
	ID        ItemID    `json:"id"`
	AuthorID  UserID    `json:"author_id"`
	Text      string    `json:"text"`
	Hashtags  []string  `json:"hashtags"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is stored alongside posts but is not used for ranking.
type Comment struct {
	ID        string    `json:"id"`
	ItemID    ItemID    `json:"item_id"`
	AuthorID  UserID    `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
