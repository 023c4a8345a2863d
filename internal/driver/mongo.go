package driver

import (
	"context"
	"fmt"

	"github.com/agenthands/homefeed/internal/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	UsersCollection    = "users"
	PostsCollection    = "posts"
	LikesCollection    = "likes"
	CommentsCollection = "comments"
)

type MongoDriver struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoDriver(ctx context.Context, uri, database string) (*MongoDriver, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	log := logging.WithComponent("mongodb")
	log.Info().Str("database", database).Msg("connected to mongodb")
	return &MongoDriver{Client: client, Database: client.Database(database)}, nil
}

func (d *MongoDriver) Ping(ctx context.Context) error {
	return d.Client.Ping(ctx, readpref.Primary())
}

func (d *MongoDriver) Close(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}

// documentIndexes mirrors the indexes the loader creates; the feed read path needs
// posts(authorId, createdAt desc), likes(postId) and the unique like constraint.
var documentIndexes = map[string][]mongo.IndexModel{
	UsersCollection: {
		{
			Keys: bson.D{{Key: "handle", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"handle": bson.M{"$type": "string"}}),
		},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	},
	PostsCollection: {
		{Keys: bson.D{{Key: "authorId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "hashtags", Value: 1}, {Key: "createdAt", Value: -1}}},
	},
	CommentsCollection: {
		{Keys: bson.D{{Key: "postId", Value: 1}, {Key: "createdAt", Value: -1}}},
	},
	LikesCollection: {
		{Keys: bson.D{{Key: "postId", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{
			Keys:    bson.D{{Key: "postId", Value: 1}, {Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	},
}

func (d *MongoDriver) BuildIndices(ctx context.Context) error {
	for _, name := range []string{UsersCollection, PostsCollection, CommentsCollection, LikesCollection} {
		if _, err := d.Database.Collection(name).Indexes().CreateMany(ctx, documentIndexes[name]); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}
