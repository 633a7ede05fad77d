package signals

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abusehound/lattice/internal/core/model"
	"github.com/abusehound/lattice/internal/store"
)

func boolPtr(b bool) *bool { return &b }

func voipPhone(number, provider string) model.Entity {
	return model.Entity{
		Type: model.EntityPhone,
		ID:   number,
		Enrichment: model.Enrichment{
			IsVOIP:       boolPtr(true),
			VOIPProvider: provider,
		},
	}
}

func TestDetectClusters_VOIPScenario(t *testing.T) {
	// Five phones on the same provider, distinct prefixes so no other
	// extractor fires.
	entities := model.EntitiesByType{
		Phones: []model.Entity{
			voipPhone("12025550001", "Acme VOIP"),
			voipPhone("13105550002", "Acme VOIP"),
			voipPhone("14155550003", "Acme VOIP"),
			voipPhone("16175550004", "Acme VOIP"),
			voipPhone("17025550005", "Acme VOIP"),
		},
	}

	d := NewDetector(nil)
	clusters := d.DetectClusters(context.Background(), entities)

	require.Len(t, clusters, 1)
	assert.Equal(t, model.PatternVOIPProvider, clusters[0].PatternType)
	assert.Len(t, clusters[0].Entities, 5)
	assert.InDelta(t, 0.5, clusters[0].Confidence, 1e-9)
}

func TestDetectClusters_MinimumSize(t *testing.T) {
	entities := model.EntitiesByType{
		Phones:  []model.Entity{voipPhone("12025550001", "Lone Provider")},
		Domains: []model.Entity{{Type: model.EntityDomain, ID: "only.com", Enrichment: model.Enrichment{Registrar: "Solo Registrar"}}},
	}

	d := NewDetector(nil)
	clusters := d.DetectClusters(context.Background(), entities)

	for _, c := range clusters {
		assert.GreaterOrEqual(t, len(c.Entities), 2)
	}
	assert.Empty(t, clusters)
}

func TestDetectClusters_Idempotent(t *testing.T) {
	ts := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	entities := model.EntitiesByType{
		Phones: []model.Entity{
			voipPhone("12025550001", "Acme VOIP"),
			voipPhone("13105550002", "Acme VOIP"),
			voipPhone("14155550003", "Acme VOIP"),
			voipPhone("16175550004", "Acme VOIP"),
			voipPhone("17025550005", "Acme VOIP"),
		},
		Domains: []model.Entity{
			{Type: model.EntityDomain, ID: "a.com", Enrichment: model.Enrichment{Registrar: "R1", CreatedAt: &ts}},
			{Type: model.EntityDomain, ID: "b.com", Enrichment: model.Enrichment{Registrar: "R1", CreatedAt: &ts}},
		},
	}

	d := NewDetector(nil)
	first := d.DetectClusters(context.Background(), entities)
	second := d.DetectClusters(context.Background(), entities)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, keysOf(first[i]), keysOf(second[i]))
		assert.Equal(t, first[i].Confidence, second[i].Confidence)
	}
}

func keysOf(c model.Cluster) []string {
	var keys []string
	for k := range c.EntityKeys() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestWalletTransactionClusters(t *testing.T) {
	graph := &fakeGraph{walletEdges: [][2]string{{"w1", "w2"}, {"w2", "w3"}}}
	wallets := []model.Entity{
		{Type: model.EntityWallet, ID: "w1"},
		{Type: model.EntityWallet, ID: "w2"},
		{Type: model.EntityWallet, ID: "w3"},
		{Type: model.EntityWallet, ID: "w4"},
	}

	clusters := walletTransactionClusters(context.Background(), graph, wallets)

	require.Len(t, clusters, 1)
	assert.Equal(t, model.PatternWalletGraph, clusters[0].PatternType)
	assert.Len(t, clusters[0].Entities, 3)
	assert.InDelta(t, 3.0/15.0, clusters[0].Confidence, 1e-9)
}

func TestWalletTransactionClusters_GraphUnavailable(t *testing.T) {
	wallets := []model.Entity{
		{Type: model.EntityWallet, ID: "w1"},
		{Type: model.EntityWallet, ID: "w2"},
	}

	assert.Empty(t, walletTransactionClusters(context.Background(), store.NopGraph{}, wallets))
	assert.Empty(t, walletTransactionClusters(context.Background(), &fakeGraph{err: errors.New("down")}, wallets))
}

func TestCrossEntityClusters(t *testing.T) {
	graph := &fakeGraph{connections: map[string][]store.Record{
		"12025550001": {
			{"labels": []any{"Domain"}, "id": "shop.example"},
			{"labels": []any{"Wallet"}, "id": "w9"},
		},
		"13105550002": {
			{"labels": []any{"Domain"}, "id": "only-one.example"},
		},
	}}
	phones := []model.Entity{
		{Type: model.EntityPhone, ID: "12025550001"},
		{Type: model.EntityPhone, ID: "13105550002"},
	}

	clusters := crossEntityClusters(context.Background(), graph, phones)

	// Only the first phone has two or more distinct connections.
	require.Len(t, clusters, 1)
	assert.Equal(t, model.PatternCrossEntity, clusters[0].PatternType)
	assert.Len(t, clusters[0].Entities, 3)
	assert.ElementsMatch(t,
		[]model.EntityType{model.EntityPhone, model.EntityDomain, model.EntityWallet},
		clusters[0].EntityTypes)
}

func TestRegistrarAndIPBlock_IndependentPasses(t *testing.T) {
	domains := []model.Entity{
		{Type: model.EntityDomain, ID: "a.com", Enrichment: model.Enrichment{Registrar: "Acme Registrar", IPAddress: "203.0.113.10"}},
		{Type: model.EntityDomain, ID: "b.com", Enrichment: model.Enrichment{Registrar: "Acme Registrar", IPAddress: "203.0.113.99"}},
	}

	registrar := registrarClusters(domains)
	ipBlock := ipBlockClusters(domains)

	require.Len(t, registrar, 1)
	require.Len(t, ipBlock, 1)
	assert.InDelta(t, 2.0/15.0, registrar[0].Confidence, 1e-9)
	assert.InDelta(t, 2.0/12.0, ipBlock[0].Confidence, 1e-9)
}

func TestIPBlock(t *testing.T) {
	prefix, ok := IPBlock("203.0.113.10")
	assert.True(t, ok)
	assert.Equal(t, "203.0.113", prefix)

	for _, bad := range []string{"not-an-ip", "", "a.b.c.d", "300.0.113.1", "203.0.113.-1", "203.0.113"} {
		_, ok = IPBlock(bad)
		assert.False(t, ok, bad)
	}
}
