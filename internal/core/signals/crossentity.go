package signals

import (
	"context"
	"fmt"
	"log"

	"github.com/abusehound/lattice/internal/core/model"
	"github.com/abusehound/lattice/internal/store"
)

// crossEntityClusters finds phones connected to entities of other types
// within 1-3 hops in the graph store. A phone needs at least two distinct
// connected entities to form a cluster.
func crossEntityClusters(ctx context.Context, graph store.GraphQuerier, phones []model.Entity) []model.Cluster {
	var clusters []model.Cluster

	for _, phone := range phones {
		records, err := graph.Query(ctx, store.CrossEntityQuery, map[string]any{
			"number": phone.ID,
		})
		if err != nil {
			log.Printf("Warning: cross-entity query for %s failed: %v", phone.ID, err)
			continue
		}

		seen := make(map[string]bool)
		refs := []model.EntityRef{phone.Ref()}
		for _, rec := range records {
			id, _ := rec["id"].(string)
			entityType, ok := typeFromLabels(rec["labels"])
			if id == "" || !ok {
				continue
			}
			ref := model.EntityRef{Type: entityType, ID: id}
			if seen[ref.Key()] {
				continue
			}
			seen[ref.Key()] = true
			refs = append(refs, ref)
		}

		// The phone itself plus at least two connected entities.
		if len(refs) < 3 {
			continue
		}
		clusters = append(clusters, newClusterFromRefs(
			model.PatternCrossEntity,
			fmt.Sprintf("Entities linked to phone %s via graph paths", phone.ID),
			refs,
			confidence(len(refs), 10, 0.9),
		))
	}
	return clusters
}

func typeFromLabels(raw any) (model.EntityType, bool) {
	labels, ok := raw.([]any)
	if !ok {
		return "", false
	}
	for _, l := range labels {
		switch l {
		case "Domain":
			return model.EntityDomain, true
		case "Wallet":
			return model.EntityWallet, true
		case "MessagingHandle":
			return model.EntityHandle, true
		}
	}
	return "", false
}
