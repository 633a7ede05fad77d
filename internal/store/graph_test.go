package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingGraph struct {
	queries []string
	errOn   string
}

func (g *recordingGraph) Query(ctx context.Context, cypher string, params map[string]any) ([]Record, error) {
	g.queries = append(g.queries, cypher)
	if cypher == g.errOn {
		return nil, errors.New("index exists")
	}
	return nil, nil
}

func TestBuildIndices_CreatesOnePerEntityLabel(t *testing.T) {
	g := &recordingGraph{}

	BuildIndices(context.Background(), g)

	require.Len(t, g.queries, 4)
	for _, label := range []string{":Phone(", ":Domain(", ":Wallet(", ":MessagingHandle("} {
		found := false
		for _, q := range g.queries {
			if strings.Contains(q, label) {
				found = true
			}
		}
		assert.True(t, found, label)
	}
}

func TestBuildIndices_ContinuesPastFailures(t *testing.T) {
	g := &recordingGraph{errOn: indexQueries[0]}

	BuildIndices(context.Background(), g)

	// The first index failing must not stop the rest.
	assert.Len(t, g.queries, 4)
}
