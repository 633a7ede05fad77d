package signals

import (
	"context"

	"github.com/abusehound/lattice/internal/store"
)

// fakeGraph answers wallet and cross-entity traversal queries from canned
// records. A nil map plays the "no data" role of a real empty graph.
type fakeGraph struct {
	walletEdges [][2]string                // TRANSACTED_WITH pairs
	connections map[string][]store.Record // phone number -> reachable entities
	err         error
}

func (f *fakeGraph) Query(ctx context.Context, cypher string, params map[string]any) ([]store.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	if cypher == store.WalletTransactionsQuery {
		var records []store.Record
		for _, e := range f.walletEdges {
			records = append(records, store.Record{"source": e[0], "target": e[1]})
		}
		return records, nil
	}
	if cypher == store.CrossEntityQuery {
		number, _ := params["number"].(string)
		return f.connections[number], nil
	}
	return nil, nil
}
