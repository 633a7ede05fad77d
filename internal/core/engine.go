// Package core wires the correlation pipelines and the risk scorer behind
// one facade. The engine holds no mutable state between calls and is safe
// for concurrent use; its collaborators are injected and may be absent.
package core

import (
	"context"

	"github.com/abusehound/lattice/internal/core/content"
	"github.com/abusehound/lattice/internal/core/infra"
	"github.com/abusehound/lattice/internal/core/model"
	"github.com/abusehound/lattice/internal/core/risk"
	"github.com/abusehound/lattice/internal/core/signals"
	"github.com/abusehound/lattice/internal/store"
)

type Engine struct {
	Detector *signals.Detector
	Scorer   *risk.Scorer
	Store    store.RelationalStore
}

// NewEngine builds an engine around the given collaborators. Either may be
// nil, which degrades the corresponding signals to "no data".
func NewEngine(graph store.GraphQuerier, db store.RelationalStore) *Engine {
	return &Engine{
		Detector: signals.NewDetector(graph),
		Scorer:   risk.NewScorer(db),
		Store:    db,
	}
}

func (e *Engine) DetectClusters(ctx context.Context, entities model.EntitiesByType) []model.Cluster {
	return e.Detector.DetectClusters(ctx, entities)
}

func (e *Engine) DetectContentClusters(vendors []model.Vendor, opts content.Options) []model.ContentCluster {
	return content.DetectContentClusters(vendors, opts)
}

func (e *Engine) DetectVendorClusters(ctx context.Context) []model.InfrastructureCluster {
	return infra.DetectVendorClusters(ctx, e.Store)
}

func (e *Engine) AssessRisk(ctx context.Context, req risk.Request) model.RiskAssessment {
	return e.Scorer.AssessRisk(ctx, req)
}
