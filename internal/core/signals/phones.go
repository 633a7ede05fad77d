package signals

import (
	"fmt"
	"strings"

	"github.com/abusehound/lattice/internal/core/model"
)

// voipProviderClusters buckets VOIP phones by provider. Shared commercial
// VOIP infrastructure is one of the strongest coordination signals, so the
// confidence ceiling is 1.0.
func voipProviderClusters(phones []model.Entity) []model.Cluster {
	buckets := make(map[string][]model.Entity)
	for _, p := range phones {
		enr := p.Enrichment
		if enr.IsVOIP == nil || !*enr.IsVOIP || enr.VOIPProvider == "" {
			continue
		}
		buckets[enr.VOIPProvider] = append(buckets[enr.VOIPProvider], p)
	}

	var clusters []model.Cluster
	for _, provider := range sortedKeys(buckets) {
		members := buckets[provider]
		if len(members) < minClusterSize {
			continue
		}
		clusters = append(clusters, newCluster(
			model.PatternVOIPProvider,
			fmt.Sprintf("Phones sharing VOIP provider %s", provider),
			members,
			confidence(len(members), 10, 1.0),
		))
	}
	return clusters
}

// phonePrefixClusters buckets phones by country code plus leading digits.
// A shared prefix is a weaker signal than shared infrastructure, hence the
// lower confidence ceiling.
func phonePrefixClusters(phones []model.Entity) []model.Cluster {
	buckets := make(map[string][]model.Entity)
	for _, p := range phones {
		digits := digitsOnly(p.ID)
		prefixLen := len(digits) - 4
		if prefixLen > 6 {
			prefixLen = 6
		}
		if prefixLen < 1 {
			continue
		}
		key := p.Enrichment.CountryCode + "|" + digits[:prefixLen]
		buckets[key] = append(buckets[key], p)
	}

	var clusters []model.Cluster
	for _, key := range sortedKeys(buckets) {
		members := buckets[key]
		if len(members) < minClusterSize {
			continue
		}
		prefix := key[strings.Index(key, "|")+1:]
		clusters = append(clusters, newCluster(
			model.PatternPhonePrefix,
			fmt.Sprintf("Phones sharing number prefix %s", prefix),
			members,
			confidence(len(members), 20, 0.8),
		))
	}
	return clusters
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
