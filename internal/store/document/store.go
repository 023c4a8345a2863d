// Package document implements the candidate store on MongoDB.
package document

import (
	"context"
	"fmt"
	"time"

	"github.com/agenthands/homefeed/internal/core/candidate"
	"github.com/agenthands/homefeed/internal/core/model"
	"github.com/agenthands/homefeed/internal/driver"
	"github.com/agenthands/homefeed/internal/tracing"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ candidate.Store = (*Store)(nil)

type Store struct {
	db *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) FetchRecentItems(ctx context.Context, authors []model.UserID, since time.Time, limit int) (items []model.ContentItem, err error) {
	if len(authors) == 0 {
		return []model.ContentItem{}, nil
	}
	authorIDs, err := userObjectIDs(authors)
	if err != nil {
		return nil, err
	}

	ctx, end := tracing.StartStoreSpan(ctx, "mongodb", "fetch_recent_items")
	defer func() { end(err) }()

	filter := bson.D{
		{Key: "authorId", Value: bson.D{{Key: "$in", Value: authorIDs}}},
		{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: since}}},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.db.Collection(driver.PostsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}

	items = make([]model.ContentItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toModel())
	}
	return items, nil
}

func (s *Store) CountEngagementsByItem(ctx context.Context, itemIDs []model.ItemID) (counts map[model.ItemID]int, err error) {
	counts = make(map[model.ItemID]int)
	if len(itemIDs) == 0 {
		return counts, nil
	}
	oids := make([]primitive.ObjectID, 0, len(itemIDs))
	for _, id := range itemIDs {
		oid, err := primitive.ObjectIDFromHex(string(id))
		if err != nil {
			return nil, fmt.Errorf("invalid item id %q: %w", id, err)
		}
		oids = append(oids, oid)
	}

	ctx, end := tracing.StartStoreSpan(ctx, "mongodb", "count_engagements")
	defer func() { end(err) }()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "postId", Value: bson.D{{Key: "$in", Value: oids}}}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$postId"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := s.db.Collection(driver.LikesCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate likes: %w", err)
	}
	var rows []likeCount
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode like counts: %w", err)
	}
	for _, r := range rows {
		if r.Count > 0 {
			counts[model.ItemID(r.ItemID.Hex())] = r.Count
		}
	}
	return counts, nil
}

func (s *Store) LookupHandles(ctx context.Context, ids []model.UserID) (handles map[model.UserID]string, err error) {
	handles = make(map[model.UserID]string)
	if len(ids) == 0 {
		return handles, nil
	}
	oids, err := userObjectIDs(ids)
	if err != nil {
		return nil, err
	}

	ctx, end := tracing.StartStoreSpan(ctx, "mongodb", "lookup_handles")
	defer func() { end(err) }()

	opts := options.Find().SetProjection(bson.D{{Key: "handle", Value: 1}})
	cursor, err := s.db.Collection(driver.UsersCollection).Find(ctx,
		bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: oids}}}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	for _, d := range docs {
		if u := d.toModel(); u.Handle != "" {
			handles[u.ID] = u.Handle
		}
	}
	return handles, nil
}

func userObjectIDs(ids []model.UserID) ([]primitive.ObjectID, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(string(id))
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q: %w", id, err)
		}
		oids = append(oids, oid)
	}
	return oids, nil
}
