package model

import "time"

type PatternType string

const (
	PatternVOIPProvider PatternType = "voip_provider"
	PatternPhonePrefix  PatternType = "phone_prefix"
	PatternWalletGraph  PatternType = "wallet_transactions"
	PatternRegistrar    PatternType = "shared_registrar"
	PatternIPBlock      PatternType = "shared_ip_block"
	PatternCrossEntity  PatternType = "cross_entity"
	PatternTimeWindow   PatternType = "time_window"
)

// Cluster is a set of entities believed related by a shared signal.
// Created by one extractor with a single pattern type; only the merger
// mutates it (entity-list extension, confidence max, description concat)
// and nothing touches it after the merge pass.
type Cluster struct {
	ClusterID   string       `json:"cluster_id"`
	Description string       `json:"description"`
	Entities    []EntityRef  `json:"entities"`
	EntityTypes []EntityType `json:"entity_types"`
	Confidence  float64      `json:"confidence"`
	PatternType PatternType  `json:"pattern_type"`
	CreatedAt   time.Time    `json:"created_at"`
}

// EntityKeys returns the cluster's (type,id) key set.
func (c Cluster) EntityKeys() map[string]struct{} {
	keys := make(map[string]struct{}, len(c.Entities))
	for _, e := range c.Entities {
		keys[e.Key()] = struct{}{}
	}
	return keys
}

type ContentClusterType string

const (
	ContentExactDuplicate ContentClusterType = "exact_duplicate"
	ContentSimilarity     ContentClusterType = "similarity"
)

// ContentCluster groups vendors whose descriptive text is identical or
// chained together by pairwise similarity above a threshold.
type ContentCluster struct {
	Type              ContentClusterType `json:"type"`
	VendorCount       int                `json:"vendor_count"`
	AverageSimilarity float64            `json:"average_similarity"`
	Vendors           []Vendor           `json:"vendors"`
	VendorIDs         []string           `json:"vendor_ids"`
	CommonKeywords    []string           `json:"common_keywords"`
}

type InfraClusterType string

const (
	InfraCDN        InfraClusterType = "cdn"
	InfraHost       InfraClusterType = "host"
	InfraRegistrar  InfraClusterType = "registrar"
	InfraPayment    InfraClusterType = "payment_processor"
	InfraExactMatch InfraClusterType = "exact_match"
)

// InfrastructureCluster groups domains by one shared infrastructure value,
// or by a full multi-attribute signature for exact_match clusters.
type InfrastructureCluster struct {
	ID                    string           `json:"id"`
	Type                  InfraClusterType `json:"type"`
	InfrastructureElement string           `json:"infrastructure_element"`
	Domains               []string         `json:"domains"`
	VendorTypes           []string         `json:"vendor_types"`
}
