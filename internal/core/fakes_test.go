package core

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/agenthands/homefeed/internal/core/model"
)

type fakeGraph struct {
	followees map[string][]model.UserID
	err       error
	calls     []string
}

func (f *fakeGraph) ResolveFollowees(ctx context.Context, handle string) ([]model.UserID, error) {
	f.calls = append(f.calls, handle)
	if f.err != nil {
		return nil, f.err
	}
	return f.followees[handle], nil
}

// fakeStore filters an in-memory item list the way the document store does.
type fakeStore struct {
	mu      sync.Mutex
	items   []model.ContentItem
	likes   map[model.ItemID]int
	handles map[model.UserID]string

	fetchErr  error
	countErr  error
	lookupErr error

	fetchCalls  int
	fetchSince  time.Time
	fetchLimit  int
	countCalls  [][]model.ItemID
	lookupCalls [][]model.UserID
}

func (f *fakeStore) FetchRecentItems(ctx context.Context, authors []model.UserID, since time.Time, limit int) ([]model.ContentItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	f.fetchSince = since
	f.fetchLimit = limit
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}

	allowed := make(map[model.UserID]bool, len(authors))
	for _, a := range authors {
		allowed[a] = true
	}
	var out []model.ContentItem
	for _, it := range f.items {
		if allowed[it.AuthorID] && !it.CreatedAt.Before(since) {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) CountEngagementsByItem(ctx context.Context, itemIDs []model.ItemID) (map[model.ItemID]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countCalls = append(f.countCalls, append([]model.ItemID(nil), itemIDs...))
	if f.countErr != nil {
		return nil, f.countErr
	}
	counts := make(map[model.ItemID]int)
	for _, id := range itemIDs {
		if n := f.likes[id]; n > 0 {
			counts[id] = n
		}
	}
	return counts, nil
}

func (f *fakeStore) LookupHandles(ctx context.Context, ids []model.UserID) (map[model.UserID]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookupCalls = append(f.lookupCalls, append([]model.UserID(nil), ids...))
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	out := make(map[model.UserID]string)
	for _, id := range ids {
		if h, ok := f.handles[id]; ok {
			out[id] = h
		}
	}
	return out, nil
}

func (f *fakeStore) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchCalls + len(f.countCalls) + len(f.lookupCalls)
}
