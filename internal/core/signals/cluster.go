package signals

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/abusehound/lattice/internal/core/model"
)

// No extractor ever emits a cluster smaller than this.
const minClusterSize = 2

func newCluster(pattern model.PatternType, description string, members []model.Entity, conf float64) model.Cluster {
	refs := make([]model.EntityRef, len(members))
	for i, m := range members {
		refs[i] = m.Ref()
	}
	return newClusterFromRefs(pattern, description, refs, conf)
}

func newClusterFromRefs(pattern model.PatternType, description string, refs []model.EntityRef, conf float64) model.Cluster {
	return model.Cluster{
		ClusterID:   uuid.New().String(),
		Description: description,
		Entities:    refs,
		EntityTypes: typeSet(refs),
		Confidence:  conf,
		PatternType: pattern,
		CreatedAt:   time.Now().UTC(),
	}
}

// confidence scales with cluster size and saturates at the ceiling.
func confidence(size, divisor int, ceiling float64) float64 {
	c := float64(size) / float64(divisor)
	if c > ceiling {
		return ceiling
	}
	return c
}

// sortedKeys keeps bucket iteration deterministic so the greedy merge pass
// sees candidates in a stable order across runs.
func sortedKeys(buckets map[string][]model.Entity) []string {
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func typeSet(refs []model.EntityRef) []model.EntityType {
	seen := make(map[model.EntityType]bool)
	var types []model.EntityType
	for _, r := range refs {
		if !seen[r.Type] {
			seen[r.Type] = true
			types = append(types, r.Type)
		}
	}
	return types
}
