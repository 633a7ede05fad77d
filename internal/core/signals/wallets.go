package signals

import (
	"context"
	"fmt"
	"log"

	"github.com/abusehound/lattice/internal/core/graphutil"
	"github.com/abusehound/lattice/internal/core/model"
	"github.com/abusehound/lattice/internal/store"
)

// walletTransactionClusters recovers transaction-graph components among the
// supplied wallets. A graph-store failure degrades to no clusters.
func walletTransactionClusters(ctx context.Context, graph store.GraphQuerier, wallets []model.Entity) []model.Cluster {
	if len(wallets) < minClusterSize {
		return nil
	}

	addresses := make([]string, len(wallets))
	byAddress := make(map[string]model.Entity, len(wallets))
	for i, w := range wallets {
		addresses[i] = w.ID
		byAddress[w.ID] = w
	}

	records, err := graph.Query(ctx, store.WalletTransactionsQuery, map[string]any{
		"addresses": addresses,
	})
	if err != nil {
		log.Printf("Warning: wallet transaction query failed: %v", err)
		return nil
	}

	var edges [][2]string
	for _, rec := range records {
		src, _ := rec["source"].(string)
		dst, _ := rec["target"].(string)
		if src == "" || dst == "" || src == dst {
			continue
		}
		edges = append(edges, [2]string{src, dst})
	}

	var clusters []model.Cluster
	for _, component := range graphutil.Components(addresses, edges) {
		if len(component) < minClusterSize {
			continue
		}
		members := make([]model.Entity, 0, len(component))
		for _, addr := range component {
			members = append(members, byAddress[addr])
		}
		clusters = append(clusters, newCluster(
			model.PatternWalletGraph,
			fmt.Sprintf("Wallets linked by transaction history (%d addresses)", len(members)),
			members,
			confidence(len(members), 15, 0.9),
		))
	}
	return clusters
}
