// Package app wires configuration, store drivers and the ranking pipeline.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/agenthands/homefeed/internal/config"
	"github.com/agenthands/homefeed/internal/core"
	"github.com/agenthands/homefeed/internal/core/graph"
	"github.com/agenthands/homefeed/internal/core/model"
	"github.com/agenthands/homefeed/internal/driver"
	"github.com/agenthands/homefeed/internal/logging"
	"github.com/agenthands/homefeed/internal/metrics"
	"github.com/agenthands/homefeed/internal/server"
	"github.com/agenthands/homefeed/internal/store/document"
)

type App struct {
	Config   *config.Config
	Graph    *driver.Neo4jDriver
	Mongo    *driver.MongoDriver
	Pipeline *core.Pipeline
	Metrics  *metrics.Metrics
}

// Open connects to both stores and builds the pipeline. Connection failures
// are reported as core.ErrStoreUnavailable.
func Open(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*App, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.Feed.StoreTimeout.Std())
	defer cancel()

	g, err := driver.NewNeo4jDriver(connectCtx, cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password, cfg.Neo4j.Database)
	if err != nil {
		return nil, fmt.Errorf("%w: graph store: connect: %w", core.ErrStoreUnavailable, err)
	}

	mongo, err := driver.NewMongoDriver(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.Database)
	if err != nil {
		_ = g.Close(ctx)
		return nil, fmt.Errorf("%w: document store: connect: %w", core.ErrStoreUnavailable, err)
	}

	pipeline := core.NewPipeline(
		graph.NewFolloweeResolver(g),
		document.New(mongo.Database),
		core.Options{
			Window:              cfg.Feed.Window.Std(),
			CandidateLimit:      cfg.Feed.CandidateLimit,
			TopK:                cfg.Feed.TopK,
			EngagementBatchSize: cfg.Feed.EngagementBatchSize,
			StoreTimeout:        cfg.Feed.StoreTimeout.Std(),
			Scorer:              cfg.Scoring,
			Metrics:             m,
		},
	)

	logging.Info().
		Str("neo4j", cfg.Neo4j.URI).
		Str("mongodb_db", cfg.MongoDB.Database).
		Msg("connected to stores")

	return &App{
		Config:   cfg,
		Graph:    g,
		Mongo:    mongo,
		Pipeline: pipeline,
		Metrics:  m,
	}, nil
}

func (a *App) BuildFeed(ctx context.Context, handle string, topK int) (*model.Feed, error) {
	return a.Pipeline.BuildFeed(ctx, handle, topK)
}

// HealthChecks exposes both stores for /healthz and `feed ping`.
func (a *App) HealthChecks() map[string]server.HealthChecker {
	return map[string]server.HealthChecker{
		"neo4j":   server.CheckFunc(a.Graph.VerifyConnectivity),
		"mongodb": server.CheckFunc(a.Mongo.Ping),
	}
}

// BuildIndices creates the read-path indexes on both stores. Existing indexes are left alone.
func (a *App) BuildIndices(ctx context.Context) error {
	if err := a.Graph.BuildIndices(ctx); err != nil {
		return fmt.Errorf("%w: graph store: build indices: %w", core.ErrStoreUnavailable, err)
	}
	if err := a.Mongo.BuildIndices(ctx); err != nil {
		return fmt.Errorf("%w: document store: build indices: %w", core.ErrStoreUnavailable, err)
	}
	return nil
}

func (a *App) Close(ctx context.Context) error {
	return errors.Join(a.Graph.Close(ctx), a.Mongo.Close(ctx))
}

// Bootstrap loads and validates configuration, then initializes logging.
func Bootstrap() (*config.Config, error) {
	cfg, err := config.Load(config.ResolvePath())
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	summary := logging.Debug()
	for k, v := range cfg.LogSummary() {
		summary = summary.Str(k, v)
	}
	summary.Msg("configuration loaded")
	return cfg, nil
}
