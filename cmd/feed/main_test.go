package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/agenthands/homefeed/internal/core"
	"github.com/agenthands/homefeed/internal/core/model"
	"github.com/agenthands/homefeed/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeApp struct {
	feed       *model.Feed
	err        error
	checks     map[string]server.HealthChecker
	indexErr   error
	handle     string
	topK       int
	indexCalls int
	closed     bool
}

func (f *fakeApp) BuildFeed(ctx context.Context, handle string, topK int) (*model.Feed, error) {
	f.handle = handle
	f.topK = topK
	return f.feed, f.err
}

func (f *fakeApp) HealthChecks() map[string]server.HealthChecker { return f.checks }

func (f *fakeApp) BuildIndices(ctx context.Context) error {
	f.indexCalls++
	return f.indexErr
}

func (f *fakeApp) Close(ctx context.Context) error {
	f.closed = true
	return nil
}

func openerFor(a *fakeApp, opened *bool) opener {
	return func(ctx context.Context) (feedApp, error) {
		if opened != nil {
			*opened = true
		}
		return a, nil
	}
}

func execute(t *testing.T, open opener, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr, open)
	return code, stdout.String(), stderr.String()
}

func TestFeed_MissingHandle(t *testing.T) {
	opened := false
	code, stdout, stderr := execute(t, openerFor(&fakeApp{}, &opened))

	assert.Equal(t, exitUsage, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "expected exactly one handle")
	assert.Contains(t, stderr, "Usage:")
	assert.False(t, opened, "stores must not be opened on usage errors")
}

func TestFeed_NoFollowees(t *testing.T) {
	a := &fakeApp{feed: &model.Feed{Handle: "ghost", Entries: []model.FeedEntry{}}}
	code, stdout, _ := execute(t, openerFor(a, nil), "ghost")

	assert.Equal(t, exitOK, code)
	assert.Equal(t, "No followees found for handle: ghost\n", stdout)
	assert.True(t, a.closed)
}

func TestFeed_PrintsEntries(t *testing.T) {
	created := time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC)
	a := &fakeApp{feed: &model.Feed{
		Handle:        "alice",
		FolloweeCount: 1,
		Entries: []model.FeedEntry{
			{Author: "bob", Text: "hi", LikeCount: 2, CreatedAt: created, Score: 0.7123, Hashtags: []string{}},
			{Text: "orphan", CreatedAt: created, Score: 0.5, Hashtags: []string{"x"}},
		},
	}}
	code, stdout, _ := execute(t, openerFor(a, nil), "alice", "--limit", "5")

	require.Equal(t, exitOK, code)
	assert.Equal(t, "alice", a.handle)
	assert.Equal(t, 5, a.topK)

	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "bob", entries[0]["author"])
	assert.Equal(t, 0.7123, entries[0]["score"])
	assert.Equal(t, []interface{}{}, entries[0]["hashtags"])
	_, hasAuthor := entries[1]["author"]
	assert.False(t, hasAuthor)
	assert.Contains(t, stdout, "\n  {")
}

func TestFeed_InvalidLimit(t *testing.T) {
	code, _, stderr := execute(t, openerFor(&fakeApp{}, nil), "alice", "--limit", "500")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "--limit must be between 0 and 200 (0 uses feed.top_k)")

	code, _, _ = execute(t, openerFor(&fakeApp{}, nil), "alice", "--limit", "-1")
	assert.Equal(t, exitUsage, code)

	code, _, _ = execute(t, openerFor(&fakeApp{}, nil), "alice", "--limit", "many")
	assert.Equal(t, exitUsage, code)
}

func TestFeed_StoreError(t *testing.T) {
	a := &fakeApp{err: fmt.Errorf("%w: graph store: resolve followees: %w", core.ErrStoreUnavailable, errors.New("connection refused"))}
	code, stdout, stderr := execute(t, openerFor(a, nil), "alice")

	assert.Equal(t, exitStoreError, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "graph store: resolve followees")
	assert.Contains(t, stderr, "connection refused")
}

func TestFeed_OpenError(t *testing.T) {
	open := func(ctx context.Context) (feedApp, error) {
		return nil, fmt.Errorf("%w: document store: connect: %w", core.ErrStoreUnavailable, errors.New("timeout"))
	}
	code, _, stderr := execute(t, open, "alice")
	assert.Equal(t, exitStoreError, code)
	assert.Contains(t, stderr, "document store: connect")
}

func TestPing(t *testing.T) {
	ok := server.CheckFunc(func(ctx context.Context) error { return nil })
	down := server.CheckFunc(func(ctx context.Context) error { return errors.New("refused") })

	code, stdout, _ := execute(t, openerFor(&fakeApp{checks: map[string]server.HealthChecker{"neo4j": ok, "mongodb": ok}}, nil), "ping")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "mongodb: ok\nneo4j: ok\n", stdout)

	code, stdout, stderr := execute(t, openerFor(&fakeApp{checks: map[string]server.HealthChecker{"neo4j": down, "mongodb": ok}}, nil), "ping")
	assert.Equal(t, exitStoreError, code)
	assert.Contains(t, stdout, "neo4j: refused")
	assert.Contains(t, stderr, "1 of 2 stores unreachable")
}

func TestIndexes(t *testing.T) {
	a := &fakeApp{}
	code, stdout, _ := execute(t, openerFor(a, nil), "indexes")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, 1, a.indexCalls)
	assert.Equal(t, "indexes ensured\n", stdout)

	a = &fakeApp{indexErr: errors.New("permission denied")}
	code, _, stderr := execute(t, openerFor(a, nil), "indexes")
	assert.Equal(t, exitStoreError, code)
	assert.Contains(t, stderr, "permission denied")
}

func TestFeed_ZeroLimitUsesConfiguredTopK(t *testing.T) {
	a := &fakeApp{feed: &model.Feed{Handle: "alice", FolloweeCount: 1, Entries: []model.FeedEntry{}}}
	code, stdout, _ := execute(t, openerFor(a, nil), "alice", "--limit", "0")

	assert.Equal(t, exitOK, code)
	assert.Equal(t, 0, a.topK)
	assert.Equal(t, "[]\n", stdout)
}
