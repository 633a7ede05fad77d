// Package infra groups domains by shared infrastructure attributes and by
// exact multi-attribute signatures.
package infra

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/abusehound/lattice/internal/core/model"
	"github.com/abusehound/lattice/internal/store"
)

// attributes lists the clusterable infrastructure fields and how to read
// each one off a domain record.
var attributes = []struct {
	clusterType model.InfraClusterType
	sigKey      string
	value       func(store.DomainRecord) string
}{
	{model.InfraCDN, "cdn", func(r store.DomainRecord) string { return r.Enrichment.CDN }},
	{model.InfraHost, "host", func(r store.DomainRecord) string { return r.Enrichment.HostName }},
	{model.InfraRegistrar, "registrar", func(r store.DomainRecord) string { return r.Enrichment.Registrar }},
	{model.InfraPayment, "payment", func(r store.DomainRecord) string { return r.Enrichment.PaymentProcessor }},
}

// DetectVendorClusters groups every domain in the store by each shared
// infrastructure value independently, so one domain can appear in a CDN
// cluster and a registrar cluster at once. Domains sharing their complete
// attribute signature additionally form an exact-match cluster. Results are
// sorted largest and most type-diverse first. A missing or failing store
// yields an empty list.
func DetectVendorClusters(ctx context.Context, db store.RelationalStore) []model.InfrastructureCluster {
	if db == nil {
		return nil
	}
	records, err := db.ListDomainEnrichment(ctx)
	if err != nil {
		log.Printf("Warning: domain enrichment query failed: %v", err)
		return nil
	}

	var clusters []model.InfrastructureCluster

	for _, attr := range attributes {
		buckets := make(map[string][]store.DomainRecord)
		for _, rec := range records {
			if v := attr.value(rec); v != "" {
				buckets[v] = append(buckets[v], rec)
			}
		}
		for _, element := range sortedBucketKeys(buckets) {
			group := buckets[element]
			if len(group) < 2 {
				continue
			}
			clusters = append(clusters, buildCluster(attr.clusterType, element, group))
		}
	}

	clusters = append(clusters, exactMatchClusters(records)...)

	sort.SliceStable(clusters, func(i, j int) bool {
		if len(clusters[i].Domains) != len(clusters[j].Domains) {
			return len(clusters[i].Domains) > len(clusters[j].Domains)
		}
		return len(clusters[i].VendorTypes) > len(clusters[j].VendorTypes)
	})

	return clusters
}

// exactMatchClusters groups domains whose full attribute signature matches.
// A signature needs more than one component to count: a single shared
// attribute is already covered by the per-attribute passes.
func exactMatchClusters(records []store.DomainRecord) []model.InfrastructureCluster {
	buckets := make(map[string][]store.DomainRecord)
	for _, rec := range records {
		sig := signature(rec)
		if sig == "" {
			continue
		}
		buckets[sig] = append(buckets[sig], rec)
	}

	var clusters []model.InfrastructureCluster
	for _, sig := range sortedBucketKeys(buckets) {
		group := buckets[sig]
		if len(group) < 2 {
			continue
		}
		clusters = append(clusters, buildCluster(model.InfraExactMatch, sig, group))
	}
	return clusters
}

// signature builds the sorted "key:value|key:value" form of a record's
// populated attributes, empty when fewer than two are present.
func signature(rec store.DomainRecord) string {
	var parts []string
	for _, attr := range attributes {
		if v := attr.value(rec); v != "" {
			parts = append(parts, attr.sigKey+":"+v)
		}
	}
	if len(parts) < 2 {
		return ""
	}
	sort.Strings(parts)
	return strings.Join(parts, "|")
}

func buildCluster(clusterType model.InfraClusterType, element string, group []store.DomainRecord) model.InfrastructureCluster {
	cluster := model.InfrastructureCluster{
		ID:                    uuid.New().String(),
		Type:                  clusterType,
		InfrastructureElement: element,
	}
	seenTypes := make(map[string]bool)
	for _, rec := range group {
		cluster.Domains = append(cluster.Domains, rec.Domain)
		if rec.VendorType != "" && !seenTypes[rec.VendorType] {
			seenTypes[rec.VendorType] = true
			cluster.VendorTypes = append(cluster.VendorTypes, rec.VendorType)
		}
	}
	return cluster
}

func sortedBucketKeys(buckets map[string][]store.DomainRecord) []string {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
