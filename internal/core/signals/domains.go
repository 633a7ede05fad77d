package signals

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abusehound/lattice/internal/core/model"
)

// registrarClusters and ipBlockClusters are two independent passes over the
// same domain list; the merger collapses them when their memberships overlap.

func registrarClusters(domains []model.Entity) []model.Cluster {
	buckets := make(map[string][]model.Entity)
	for _, d := range domains {
		if d.Enrichment.Registrar == "" {
			continue
		}
		buckets[d.Enrichment.Registrar] = append(buckets[d.Enrichment.Registrar], d)
	}

	var clusters []model.Cluster
	for _, registrar := range sortedKeys(buckets) {
		members := buckets[registrar]
		if len(members) < minClusterSize {
			continue
		}
		clusters = append(clusters, newCluster(
			model.PatternRegistrar,
			fmt.Sprintf("Domains registered through %s", registrar),
			members,
			confidence(len(members), 15, 0.85),
		))
	}
	return clusters
}

func ipBlockClusters(domains []model.Entity) []model.Cluster {
	buckets := make(map[string][]model.Entity)
	for _, d := range domains {
		prefix, ok := IPBlock(d.Enrichment.IPAddress)
		if !ok {
			continue
		}
		buckets[prefix] = append(buckets[prefix], d)
	}

	var clusters []model.Cluster
	for _, prefix := range sortedKeys(buckets) {
		members := buckets[prefix]
		if len(members) < minClusterSize {
			continue
		}
		clusters = append(clusters, newCluster(
			model.PatternIPBlock,
			fmt.Sprintf("Domains hosted in IP block %s.0/24", prefix),
			members,
			confidence(len(members), 12, 0.8),
		))
	}
	return clusters
}

// IPBlock returns the first three octets of an IPv4 address. Anything that
// is not four numeric octets is rejected so garbage enrichment values never
// become cluster keys.
func IPBlock(ip string) (string, bool) {
	parts := strings.Split(ip, ".")
	if len(parts) != 4 {
		return "", false
	}
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 {
			return "", false
		}
	}
	return strings.Join(parts[:3], "."), true
}
