// Package cache wraps a TTL cache for risk-assessment responses. The cache
// belongs to the server, never the engine: the engine stays stateless and
// callers decide what staleness they can tolerate.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/abusehound/lattice/internal/core/model"
)

type AssessmentCache struct {
	inner *gocache.Cache
}

func NewAssessmentCache(ttl, cleanup time.Duration) *AssessmentCache {
	return &AssessmentCache{inner: gocache.New(ttl, cleanup)}
}

func key(entityType model.EntityType, value string) string {
	return string(entityType) + "|" + value
}

func (c *AssessmentCache) Get(entityType model.EntityType, value string) (model.RiskAssessment, bool) {
	v, ok := c.inner.Get(key(entityType, value))
	if !ok {
		return model.RiskAssessment{}, false
	}
	assessment, ok := v.(model.RiskAssessment)
	return assessment, ok
}

func (c *AssessmentCache) Put(assessment model.RiskAssessment) {
	c.inner.SetDefault(key(assessment.EntityType, assessment.Value), assessment)
}
