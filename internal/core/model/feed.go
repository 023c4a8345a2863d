package model

import "time"

// ScoredItem lives for one pipeline invocation only.
type ScoredItem struct {
	Item            ContentItem
	EngagementCount int
	Score           float64
}

// FeedEntry is the presentation record. Author is empty when the handle lookup missed.
type FeedEntry struct {
	Author    string    `json:"author,omitempty"`
	Text      string    `json:"text"`
	LikeCount int       `json:"likeCount"`
	CreatedAt time.Time `json:"createdAt"`
	Score     float64   `json:"score"`
	Hashtags  []string  `json:"hashtags"`
}

type Feed struct {
	Handle        string      `json:"handle"`
	FolloweeCount int         `json:"followee_count"`
	GeneratedAt   time.Time   `json:"generated_at"`
	Entries       []FeedEntry `json:"entries"`
}

// NoFollowees reports the terminal state where the user follows nobody (or is unknown).
func (f *Feed) NoFollowees() bool {
	return f.FolloweeCount == 0
}
