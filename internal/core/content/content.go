// Package content clusters vendors by the text of their listings: exact
// duplicates first, then similarity components over the remainder.
package content

import (
	"sort"

	"github.com/abusehound/lattice/internal/core/graphutil"
	"github.com/abusehound/lattice/internal/core/model"
	"github.com/abusehound/lattice/internal/core/textsim"
)

const (
	DefaultThreshold = 0.6
	DefaultMinSize   = 2

	// Combined text shorter than this carries too little signal to compare.
	minTextLength = 20

	// Exact-duplicate signatures compare the first chunk of normalized text.
	signatureLength = 500

	keywordLimit = 10
)

type Options struct {
	Threshold float64
	MinSize   int
}

func (o Options) withDefaults() Options {
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	if o.MinSize <= 0 {
		o.MinSize = DefaultMinSize
	}
	return o
}

type vendorText struct {
	vendor model.Vendor
	text   string
	tf     map[string]int
}

// DetectContentClusters finds vendors posting identical or near-identical
// listings. Vendors claimed by an exact-duplicate cluster are excluded from
// similarity clustering so they are not reported twice.
func DetectContentClusters(vendors []model.Vendor, opts Options) []model.ContentCluster {
	opts = opts.withDefaults()

	var usable []vendorText
	for _, v := range vendors {
		text := textsim.Normalize(v.CombinedText())
		if len(text) < minTextLength {
			continue
		}
		usable = append(usable, vendorText{
			vendor: v,
			text:   text,
			tf:     textsim.TermFrequencies(textsim.Tokenize(text)),
		})
	}

	clusters, claimed := exactDuplicates(usable, opts.MinSize)

	var remaining []vendorText
	for _, vt := range usable {
		if !claimed[vt.vendor.ID] {
			remaining = append(remaining, vt)
		}
	}
	clusters = append(clusters, similarityClusters(remaining, opts)...)

	return clusters
}

func exactDuplicates(vendors []vendorText, minSize int) ([]model.ContentCluster, map[string]bool) {
	buckets := make(map[string][]vendorText)
	var order []string
	for _, vt := range vendors {
		sig := vt.text
		if len(sig) > signatureLength {
			sig = sig[:signatureLength]
		}
		if _, ok := buckets[sig]; !ok {
			order = append(order, sig)
		}
		buckets[sig] = append(buckets[sig], vt)
	}

	var clusters []model.ContentCluster
	claimed := make(map[string]bool)
	for _, sig := range order {
		group := buckets[sig]
		if len(group) < minSize {
			continue
		}
		clusters = append(clusters, buildCluster(model.ContentExactDuplicate, group, 1.0))
		for _, vt := range group {
			claimed[vt.vendor.ID] = true
		}
	}
	return clusters, claimed
}

func similarityClusters(vendors []vendorText, opts Options) []model.ContentCluster {
	if len(vendors) < opts.MinSize {
		return nil
	}

	byID := make(map[string]vendorText, len(vendors))
	ids := make([]string, len(vendors))
	for i, vt := range vendors {
		ids[i] = vt.vendor.ID
		byID[vt.vendor.ID] = vt
	}

	sim := func(a, b string) float64 {
		return textsim.Cosine(byID[a].tf, byID[b].tf)
	}

	var clusters []model.ContentCluster
	for _, component := range graphutil.ComponentsBySimilarity(ids, sim, opts.Threshold) {
		if len(component) < opts.MinSize {
			continue
		}
		sort.Strings(component)
		group := make([]vendorText, len(component))
		for i, id := range component {
			group[i] = byID[id]
		}
		clusters = append(clusters, buildCluster(model.ContentSimilarity, group, averageSimilarity(group)))
	}
	return clusters
}

// averageSimilarity is the mean pairwise cosine over the cluster members.
func averageSimilarity(group []vendorText) float64 {
	if len(group) < 2 {
		return 0
	}
	var total float64
	pairs := 0
	for i := 0; i < len(group); i++ {
		for j := i + 1; j < len(group); j++ {
			total += textsim.Cosine(group[i].tf, group[j].tf)
			pairs++
		}
	}
	return total / float64(pairs)
}

func buildCluster(clusterType model.ContentClusterType, group []vendorText, avgSim float64) model.ContentCluster {
	cluster := model.ContentCluster{
		Type:              clusterType,
		VendorCount:       len(group),
		AverageSimilarity: avgSim,
	}
	texts := make([]string, len(group))
	for i, vt := range group {
		cluster.Vendors = append(cluster.Vendors, vt.vendor)
		cluster.VendorIDs = append(cluster.VendorIDs, vt.vendor.ID)
		texts[i] = vt.text
	}
	cluster.CommonKeywords = textsim.CommonKeywords(texts, 2, keywordLimit)
	return cluster
}
