package store

import (
	"context"
	"fmt"
	"log"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Record is one row of a graph query result, keyed by return alias.
type Record map[string]any

// GraphQuerier is the injected graph-store capability. The engine depends
// on this single method; a NopGraph stands in when no graph database is
// configured, so callers never special-case nil handles.
type GraphQuerier interface {
	Query(ctx context.Context, cypher string, params map[string]any) ([]Record, error)
}

// BoltGraph talks to a Neo4j/Memgraph instance over bolt.
type BoltGraph struct {
	Driver neo4j.DriverWithContext
}

func NewBoltGraph(uri, username, password string) (*BoltGraph, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(context.Background()); err != nil {
		return nil, err
	}

	log.Println("Connected to graph store")
	return &BoltGraph{Driver: driver}, nil
}

func (g *BoltGraph) Close(ctx context.Context) error {
	return g.Driver.Close(ctx)
}

func (g *BoltGraph) Query(ctx context.Context, cypher string, params map[string]any) ([]Record, error) {
	result, err := neo4j.ExecuteQuery(ctx, g.Driver, cypher, params, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	records := make([]Record, 0, len(result.Records))
	for _, rec := range result.Records {
		row := make(Record, len(rec.Keys))
		for _, key := range rec.Keys {
			val, _ := rec.Get(key)
			row[key] = val
		}
		records = append(records, row)
	}
	return records, nil
}

var indexQueries = []string{
	"CREATE INDEX ON :Phone(number);",
	"CREATE INDEX ON :Domain(name);",
	"CREATE INDEX ON :Wallet(address);",
	"CREATE INDEX ON :MessagingHandle(handle);",
}

// BuildIndices creates the lookup indices the traversal queries rely on.
// Failures are logged and skipped since the index may already exist.
func BuildIndices(ctx context.Context, g GraphQuerier) {
	for _, q := range indexQueries {
		if _, err := g.Query(ctx, q, nil); err != nil {
			log.Printf("Warning: failed to create index '%s': %v", q, err)
		}
	}
}

// NopGraph is the "graph store unavailable" implementation: every query
// returns no records and no error.
type NopGraph struct{}

func (NopGraph) Query(ctx context.Context, cypher string, params map[string]any) ([]Record, error) {
	return nil, nil
}
