package driver

import (
	"context"
	"fmt"

	"github.com/agenthands/homefeed/internal/logging"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type Neo4jDriver struct {
	Driver   neo4j.DriverWithContext
	Database string
}

func NewNeo4jDriver(ctx context.Context, uri, username, password, database string) (*Neo4jDriver, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to neo4j at %s: %w", uri, err)
	}

	log := logging.WithComponent("neo4j")
	log.Info().Str("uri", uri).Msg("connected to neo4j")
	return &Neo4jDriver{Driver: driver, Database: database}, nil
}

func (d *Neo4jDriver) Close(ctx context.Context) error {
	return d.Driver.Close(ctx)
}

// VerifyConnectivity checks the bolt connection and that a read session can run a query.
func (d *Neo4jDriver) VerifyConnectivity(ctx context.Context) error {
	if err := d.Driver.VerifyConnectivity(ctx); err != nil {
		return err
	}
	_, err := d.ExecuteRead(ctx, ConnectivityQuery, nil)
	return err
}

func (d *Neo4jDriver) ExecuteRead(ctx context.Context, query string, params map[string]interface{}) (result neo4j.EagerResult, err error) {
	session := d.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: d.Database,
	})
	defer func() {
		if closeErr := session.Close(ctx); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close session: %w", closeErr)
		}
	}()

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		keys, err := res.Keys()
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		return neo4j.EagerResult{Keys: keys, Records: records}, nil
	})
	if err != nil {
		return neo4j.EagerResult{}, fmt.Errorf("failed to execute read query: %w", err)
	}
	return out.(neo4j.EagerResult), nil
}

func (d *Neo4jDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, d.Driver, query, params, neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(d.Database))
	if err != nil {
		return neo4j.EagerResult{}, fmt.Errorf("failed to execute query: %w", err)
	}
	return *result, nil
}

// BuildIndices creates the indexes the feed read path relies on. Existing indexes are kept.
func (d *Neo4jDriver) BuildIndices(ctx context.Context) error {
	for _, q := range GraphIndexQueries {
		if _, err := d.ExecuteQuery(ctx, q, nil); err != nil {
			return fmt.Errorf("failed to create index (%s): %w", q, err)
		}
	}
	return nil
}
