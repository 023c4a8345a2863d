// Package core ranks the home feed: followees from the graph store, recent
// items and like counts from the document store, scored and truncated.
package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agenthands/homefeed/internal/core/candidate"
	"github.com/agenthands/homefeed/internal/core/model"
	"github.com/agenthands/homefeed/internal/core/scoring"
	"github.com/agenthands/homefeed/internal/logging"
	"github.com/agenthands/homefeed/internal/metrics"
	"github.com/agenthands/homefeed/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultWindow         = 24 * time.Hour
	DefaultCandidateLimit = 200
	DefaultTopK           = 30
	DefaultStoreTimeout   = 5 * time.Second
)

type FolloweeResolver interface {
	ResolveFollowees(ctx context.Context, handle string) ([]model.UserID, error)
}

type Options struct {
	Window         time.Duration
	CandidateLimit int
	TopK           int
	// EngagementBatchSize splits like counting into concurrent calls of at most
	// this many item ids. Zero counts everything in one call.
	EngagementBatchSize int
	StoreTimeout        time.Duration
	Scorer              scoring.Scorer
	Clock               func() time.Time
	Metrics             *metrics.Metrics
}

func DefaultOptions() Options {
	return Options{
		Window:         DefaultWindow,
		CandidateLimit: DefaultCandidateLimit,
		TopK:           DefaultTopK,
		StoreTimeout:   DefaultStoreTimeout,
		Scorer:         scoring.Default(),
		Clock:          time.Now,
	}
}

type Pipeline struct {
	Graph      FolloweeResolver
	Candidates candidate.Store
	opts       Options
}

// NewPipeline fills zero-valued options from DefaultOptions. A zero Scorer means
// scoring.Default(); any other Scorer is used as given, zero weights included.
func NewPipeline(graph FolloweeResolver, candidates candidate.Store, opts Options) *Pipeline {
	def := DefaultOptions()
	if opts.Window <= 0 {
		opts.Window = def.Window
	}
	if opts.CandidateLimit <= 0 {
		opts.CandidateLimit = def.CandidateLimit
	}
	if opts.TopK <= 0 {
		opts.TopK = def.TopK
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = def.StoreTimeout
	}
	if opts.Scorer == (scoring.Scorer{}) {
		opts.Scorer = def.Scorer
	}
	if opts.Clock == nil {
		opts.Clock = def.Clock
	}
	return &Pipeline{Graph: graph, Candidates: candidates, opts: opts}
}

func (p *Pipeline) Options() Options {
	return p.opts
}

// BuildFeed returns the ranked feed for handle. topK <= 0 uses the configured default.
//
// A handle that is unknown or follows nobody yields a Feed with FolloweeCount 0
// and no entries; that is not an error.
func (p *Pipeline) BuildFeed(ctx context.Context, handle string, topK int) (feed *model.Feed, err error) {
	start := time.Now()
	outcome := metrics.OutcomeOK
	defer func() {
		switch {
		case errors.Is(err, ErrUsage):
			outcome = metrics.OutcomeUsageError
		case err != nil:
			outcome = metrics.OutcomeStoreError
		case feed.NoFollowees():
			outcome = metrics.OutcomeNoFollowees
		}
		p.opts.Metrics.ObserveBuild(outcome, time.Since(start))
	}()

	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, fmt.Errorf("%w: handle is required", ErrUsage)
	}
	if topK <= 0 {
		topK = p.opts.TopK
	}

	ctx, end := tracing.StartSpan(ctx, "feed.build",
		attribute.String("feed.handle", handle),
		attribute.Int("feed.top_k", topK))
	defer func() { end(err) }()

	log := logging.Ctx(ctx)
	now := p.opts.Clock()
	feed = &model.Feed{Handle: handle, GeneratedAt: now, Entries: []model.FeedEntry{}}

	var followees []model.UserID
	err = p.storeCall(ctx, "neo4j", "resolve_followees", func(ctx context.Context) error {
		var callErr error
		followees, callErr = p.Graph.ResolveFollowees(ctx, handle)
		return callErr
	})
	if err != nil {
		return nil, storeError("graph", "resolve followees", err)
	}
	feed.FolloweeCount = len(followees)
	if len(followees) == 0 {
		log.Debug().Str("handle", handle).Msg("no followees")
		return feed, nil
	}

	since := now.Add(-p.opts.Window)
	var items []model.ContentItem
	err = p.storeCall(ctx, "mongodb", "fetch_recent_items", func(ctx context.Context) error {
		var callErr error
		items, callErr = p.Candidates.FetchRecentItems(ctx, followees, since, p.opts.CandidateLimit)
		return callErr
	})
	if err != nil {
		return nil, storeError("document", "fetch recent items", err)
	}
	if len(items) == 0 {
		p.opts.Metrics.ObserveSizes(0, 0)
		return feed, nil
	}

	ids := make([]model.ItemID, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	counts, err := p.countEngagements(ctx, ids)
	if err != nil {
		return nil, storeError("document", "count engagements", err)
	}

	ranked := Rank(p.opts.Scorer, items, counts, now)
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	authors := distinctAuthors(ranked)
	var handles map[model.UserID]string
	err = p.storeCall(ctx, "mongodb", "lookup_handles", func(ctx context.Context) error {
		var callErr error
		handles, callErr = p.Candidates.LookupHandles(ctx, authors)
		return callErr
	})
	if err != nil {
		return nil, storeError("document", "lookup handles", err)
	}

	for _, s := range ranked {
		author, ok := handles[s.Item.AuthorID]
		if !ok {
			log.Warn().Str("author_id", string(s.Item.AuthorID)).Msg("author handle not found")
		}
		hashtags := s.Item.Hashtags
		if hashtags == nil {
			hashtags = []string{}
		}
		feed.Entries = append(feed.Entries, model.FeedEntry{
			Author:    author,
			Text:      s.Item.Text,
			LikeCount: s.EngagementCount,
			CreatedAt: s.Item.CreatedAt,
			Score:     scoring.Round4(s.Score),
			Hashtags:  hashtags,
		})
	}

	p.opts.Metrics.ObserveSizes(len(items), len(feed.Entries))
	log.Debug().
		Str("handle", handle).
		Int("followees", len(followees)).
		Int("candidates", len(items)).
		Int("entries", len(feed.Entries)).
		Msg("feed built")
	return feed, nil
}

// Rank scores every item and orders the result by score desc, createdAt desc, id asc.
// Ages are clamped at zero so items stamped slightly in the future score as brand new.
func Rank(scorer scoring.Scorer, items []model.ContentItem, counts map[model.ItemID]int, now time.Time) []model.ScoredItem {
	ranked := make([]model.ScoredItem, 0, len(items))
	for _, it := range items {
		age := now.Sub(it.CreatedAt).Minutes()
		if age < 0 {
			age = 0
		}
		likes := counts[it.ID]
		ranked = append(ranked, model.ScoredItem{
			Item:            it,
			EngagementCount: likes,
			Score:           scorer.Score(age, likes),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Item.CreatedAt.Equal(b.Item.CreatedAt) {
			return a.Item.CreatedAt.After(b.Item.CreatedAt)
		}
		return a.Item.ID < b.Item.ID
	})
	return ranked
}

func (p *Pipeline) countEngagements(ctx context.Context, ids []model.ItemID) (map[model.ItemID]int, error) {
	size := p.opts.EngagementBatchSize
	if size <= 0 || len(ids) <= size {
		var counts map[model.ItemID]int
		err := p.storeCall(ctx, "mongodb", "count_engagements", func(ctx context.Context) error {
			var callErr error
			counts, callErr = p.Candidates.CountEngagementsByItem(ctx, ids)
			return callErr
		})
		return counts, err
	}

	batches := make([][]model.ItemID, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		batches = append(batches, ids[start:min(start+size, len(ids))])
	}

	results := make([]map[model.ItemID]int, len(batches))
	g, gctx := errgroup.WithContext(ctx)
	for i, batch := range batches {
		g.Go(func() error {
			return p.storeCall(gctx, "mongodb", "count_engagements", func(ctx context.Context) error {
				counts, err := p.Candidates.CountEngagementsByItem(ctx, batch)
				results[i] = counts
				return err
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[model.ItemID]int, len(ids))
	for _, counts := range results {
		for id, n := range counts {
			merged[id] += n
		}
	}
	return merged, nil
}

// storeCall bounds one store round trip by the configured timeout and records its latency.
func (p *Pipeline) storeCall(ctx context.Context, store, operation string, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, p.opts.StoreTimeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	p.opts.Metrics.ObserveStoreCall(store, operation, time.Since(start))
	return err
}

func distinctAuthors(ranked []model.ScoredItem) []model.UserID {
	seen := make(map[model.UserID]struct{}, len(ranked))
	authors := make([]model.UserID, 0, len(ranked))
	for _, s := range ranked {
		if _, ok := seen[s.Item.AuthorID]; ok {
			continue
		}
		seen[s.Item.AuthorID] = struct{}{}
		authors = append(authors, s.Item.AuthorID)
	}
	return authors
}
