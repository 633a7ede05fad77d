package signals

import "github.com/abusehound/lattice/internal/core/model"

// mergeOverlapThreshold is the Jaccard ratio above which two clusters are
// considered the same group. Strictly greater-than: exactly 30% shared
// membership does not merge.
const mergeOverlapThreshold = 0.30

// mergeClusters collapses clusters from independent extractors that cover
// substantially the same entities. The pass is greedy first-seen-first-merged:
// each cluster joins at most one merge group, and merge order follows input
// order. Not globally optimal for three-plus mutually overlapping clusters;
// this mirrors the original pipeline's behavior.
func mergeClusters(clusters []model.Cluster, confidenceFloor float64) []model.Cluster {
	merged := make([]bool, len(clusters))
	var out []model.Cluster

	for i := range clusters {
		if merged[i] {
			continue
		}
		base := clusters[i]
		baseKeys := base.EntityKeys()

		for j := i + 1; j < len(clusters); j++ {
			if merged[j] {
				continue
			}
			if jaccard(baseKeys, clusters[j].EntityKeys()) > mergeOverlapThreshold {
				base = mergeInto(base, clusters[j])
				baseKeys = base.EntityKeys()
				merged[j] = true
			}
		}

		if base.Confidence >= confidenceFloor {
			out = append(out, base)
		}
	}

	return out
}

// mergeInto folds b into a: entity lists concatenate then dedupe by
// (type,id) key with first occurrence winning, entity types union,
// confidence takes the max, descriptions concatenate.
func mergeInto(a, b model.Cluster) model.Cluster {
	seen := make(map[string]bool, len(a.Entities)+len(b.Entities))
	var entities []model.EntityRef
	for _, ref := range append(append([]model.EntityRef{}, a.Entities...), b.Entities...) {
		if seen[ref.Key()] {
			continue
		}
		seen[ref.Key()] = true
		entities = append(entities, ref)
	}

	a.Entities = entities
	a.EntityTypes = typeSet(entities)
	if b.Confidence > a.Confidence {
		a.Confidence = b.Confidence
	}
	a.Description = a.Description + " + " + b.Description
	return a
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}
