package signals

import (
	"fmt"
	"sort"
	"time"

	"github.com/abusehound/lattice/internal/core/model"
)

const timeWindow = 7 * 24 * time.Hour

type stampedEntity struct {
	entity model.Entity
	ts     time.Time
}

// timeWindowClusters sweeps all timestamped entities in ascending order and
// cuts a new window whenever an entity falls more than seven days after the
// window's FIRST entity. Anchoring on the first timestamp rather than the
// previous one keeps a window from drifting without bound.
func timeWindowClusters(groups ...[]model.Entity) []model.Cluster {
	var stamped []stampedEntity
	for _, group := range groups {
		for _, e := range group {
			ts, ok := e.Timestamp()
			if !ok {
				continue
			}
			stamped = append(stamped, stampedEntity{entity: e, ts: ts})
		}
	}
	if len(stamped) < minClusterSize {
		return nil
	}

	sort.Slice(stamped, func(i, j int) bool { return stamped[i].ts.Before(stamped[j].ts) })

	var clusters []model.Cluster
	emit := func(window []stampedEntity) {
		if len(window) < minClusterSize {
			return
		}
		members := make([]model.Entity, len(window))
		for i, s := range window {
			members[i] = s.entity
		}
		clusters = append(clusters, newCluster(
			model.PatternTimeWindow,
			fmt.Sprintf("Entities first seen within 7 days of %s", window[0].ts.Format("2006-01-02")),
			members,
			confidence(len(members), 15, 0.7),
		))
	}

	window := []stampedEntity{stamped[0]}
	for _, s := range stamped[1:] {
		if s.ts.Sub(window[0].ts) > timeWindow {
			emit(window)
			window = []stampedEntity{s}
			continue
		}
		window = append(window, s)
	}
	emit(window)

	return clusters
}
