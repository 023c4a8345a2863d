// Package candidate defines the read contract the ranking pipeline needs from the document store.
package candidate

import (
	"context"
	"time"

	"github.com/agenthands/homefeed/internal/core/model"
)

// Store is the document-store side of the feed read path.
//
// Implementations return empty results without touching the store when given
// an empty input set, and fail with an error naming the offending value when an
// identity cannot be converted to the store's native key type.
type Store interface {
	// FetchRecentItems returns at most limit items authored by any of authors with
	// CreatedAt >= since, newest first.
	FetchRecentItems(ctx context.Context, authors []model.UserID, since time.Time, limit int) ([]model.ContentItem, error)

	// CountEngagementsByItem returns the like count per item. Items without likes are absent.
	CountEngagementsByItem(ctx context.Context, itemIDs []model.ItemID) (map[model.ItemID]int, error)

	// LookupHandles maps user ids to handles. Unknown users are absent.
	LookupHandles(ctx context.Context, ids []model.UserID) (map[model.UserID]string, error)
}
