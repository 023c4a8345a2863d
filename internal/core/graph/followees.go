// Package graph resolves follow relationships from the graph store.
package graph

import (
	"context"
	"fmt"

	"github.com/agenthands/homefeed/internal/core/model"
	"github.com/agenthands/homefeed/internal/driver"
	"github.com/agenthands/homefeed/internal/logging"
	"github.com/agenthands/homefeed/internal/tracing"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/saulfrancisco-ruizacevedo/gocypher"
)

type FolloweeResolver struct {
	Driver driver.GraphDriver
}

func NewFolloweeResolver(d driver.GraphDriver) *FolloweeResolver {
	return &FolloweeResolver{Driver: d}
}

// followeesQuery matches (me:User {handle})-[:FOLLOWS]->(u:User) and returns u.
func followeesQuery(handle string) (string, map[string]interface{}, error) {
	return gocypher.NewQueryBuilder().
		Match(gocypher.N("me", driver.UserLabel).WithProperties(map[string]interface{}{driver.HandleProp: handle})).
		Match(
			gocypher.NRef("me"),
			gocypher.R("f", driver.FollowsRel).To(),
			gocypher.N("u", driver.UserLabel),
		).
		Return("u").
		Build()
}

// ResolveFollowees returns the cross-store identities of every account the handle follows.
// An unknown handle yields an empty slice and no error.
func (r *FolloweeResolver) ResolveFollowees(ctx context.Context, handle string) (ids []model.UserID, err error) {
	ctx, end := tracing.StartStoreSpan(ctx, "neo4j", "resolve_followees")
	defer func() { end(err) }()

	query, params, err := followeesQuery(handle)
	if err != nil {
		return nil, fmt.Errorf("failed to build followees query: %w", err)
	}

	result, err := r.Driver.ExecuteRead(ctx, query, params)
	if err != nil {
		return nil, err
	}

	return collectIdentities(result), nil
}

func collectIdentities(result neo4j.EagerResult) []model.UserID {
	seen := make(map[model.UserID]struct{}, len(result.Records))
	ids := make([]model.UserID, 0, len(result.Records))
	for _, rec := range result.Records {
		value, ok := rec.Get("u")
		if !ok {
			continue
		}
		node, ok := value.(neo4j.Node)
		if !ok {
			continue
		}
		raw, _ := node.Props[driver.CrossStoreKey].(string)
		if raw == "" {
			// loader invariant broken: a User node without its document-store id
			log := logging.WithComponent("graph")
			log.Warn().Str("element_id", node.ElementId).Msg("followee node has no mongoId, skipping")
			continue
		}
		id := model.UserID(raw)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
