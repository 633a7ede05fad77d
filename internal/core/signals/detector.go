// Package signals turns raw entity lists into candidate clusters, one
// extractor per coordination signal, then merges overlapping candidates
// into the final cluster list.
package signals

import (
	"context"

	"github.com/abusehound/lattice/internal/core/model"
	"github.com/abusehound/lattice/internal/store"
)

// DefaultConfidenceFloor drops merged clusters below this confidence.
const DefaultConfidenceFloor = 0.5

type Detector struct {
	Graph           store.GraphQuerier
	ConfidenceFloor float64
}

func NewDetector(graph store.GraphQuerier) *Detector {
	if graph == nil {
		graph = store.NopGraph{}
	}
	return &Detector{
		Graph:           graph,
		ConfidenceFloor: DefaultConfidenceFloor,
	}
}

// DetectClusters runs every signal extractor over the input entities and
// merges the results. Extractors fail soft: a missing graph store or a
// malformed record means fewer clusters, never an error.
func (d *Detector) DetectClusters(ctx context.Context, entities model.EntitiesByType) []model.Cluster {
	var candidates []model.Cluster

	candidates = append(candidates, voipProviderClusters(entities.Phones)...)
	candidates = append(candidates, phonePrefixClusters(entities.Phones)...)
	candidates = append(candidates, walletTransactionClusters(ctx, d.Graph, entities.Wallets)...)
	candidates = append(candidates, registrarClusters(entities.Domains)...)
	candidates = append(candidates, ipBlockClusters(entities.Domains)...)
	candidates = append(candidates, crossEntityClusters(ctx, d.Graph, entities.Phones)...)
	candidates = append(candidates, timeWindowClusters(entities.Phones, entities.Domains, entities.Wallets)...)

	return mergeClusters(candidates, d.ConfidenceFloor)
}
