// Package risk computes the multi-factor severity assessment for a single
// investigated entity. Four independent sub-scorers contribute non-negative
// scores which are summed and clamped to [0,100]; each degrades to a zero
// contribution when its data source is unavailable.
package risk

import (
	"context"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/abusehound/lattice/internal/core/model"
	"github.com/abusehound/lattice/internal/core/signals"
	"github.com/abusehound/lattice/internal/store"
)

const (
	externalFlagScore = 40

	shortlinkScore      = 20
	voipScore           = 15
	unknownCarrierScore = 5
	recentDomainScore   = 15
	recentDomainDays    = 90
	singlePlatformScore = 5
	highTxScore         = 10
	highTxThreshold     = 100
)

// Request carries everything the caller knows about the entity. History is
// optional; when nil it is fetched from the relational store if one is
// configured.
type Request struct {
	EntityType model.EntityType
	Value      string
	Enrichment model.Enrichment
	History    *model.InternalHistory
}

type Scorer struct {
	Store store.RelationalStore // nil means no internal or network data
	Now   func() time.Time
}

func NewScorer(db store.RelationalStore) *Scorer {
	return &Scorer{Store: db, Now: time.Now}
}

// AssessRisk runs all four sub-scorers unconditionally and bands the
// clamped total. It never fails: missing collaborators just lower the score.
func (s *Scorer) AssessRisk(ctx context.Context, req Request) model.RiskAssessment {
	var factors []model.RiskFactor
	total := 0

	for _, sub := range []func(context.Context, Request) (int, []model.RiskFactor){
		s.externalScore,
		s.infrastructureScore,
		s.historyScore,
		s.networkScore,
	} {
		score, subFactors := sub(ctx, req)
		if score < 0 {
			score = 0
		}
		total += score
		factors = append(factors, subFactors...)
	}

	if total > 100 {
		total = 100
	}
	level := model.ThreatLevelForScore(total)

	return model.RiskAssessment{
		EntityType:         req.EntityType,
		Value:              req.Value,
		ThreatLevel:        level,
		SeverityScore:      total,
		RiskFactors:        factors,
		ActionableInsights: buildInsights(level, req, factors),
	}
}

var suspiciousHandlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(official|support|admin|verify|recovery|giveaway)`),
	regexp.MustCompile(`\d{5,}`),
}

// externalScore adds a flat score when any threat feed flags the entity.
// Without a feed hit, suspicious handle patterns produce a low-severity
// factor with no score contribution.
func (s *Scorer) externalScore(ctx context.Context, req Request) (int, []model.RiskFactor) {
	var sources []string
	for _, flag := range req.Enrichment.ThreatFlags {
		if flag.Malicious || flag.Confidence == "medium" || flag.Confidence == "high" {
			sources = append(sources, flag.Source)
		}
	}
	if len(sources) > 0 {
		return externalFlagScore, []model.RiskFactor{{
			Type:     "external_threat",
			Severity: "high",
			Message:  "Flagged as malicious by external threat intelligence",
			Sources:  sources,
		}}
	}

	if req.EntityType == model.EntityHandle {
		for _, pattern := range suspiciousHandlePatterns {
			if pattern.MatchString(req.Value) {
				return 0, []model.RiskFactor{{
					Type:     "suspicious_pattern",
					Severity: "low",
					Message:  "Handle matches a pattern common in impersonation accounts",
				}}
			}
		}
	}

	return 0, nil
}

func (s *Scorer) infrastructureScore(ctx context.Context, req Request) (int, []model.RiskFactor) {
	enr := req.Enrichment
	score := 0
	var factors []model.RiskFactor
	add := func(points int, severity, message string) {
		score += points
		factors = append(factors, model.RiskFactor{
			Type:     "infrastructure",
			Severity: severity,
			Message:  message,
		})
	}

	switch req.EntityType {
	case model.EntityDomain:
		if enr.IsShortlink != nil && *enr.IsShortlink {
			add(shortlinkScore, "high", "Domain is a link shortener, commonly used to mask destinations")
		}
		if enr.CreatedAt != nil {
			age := s.Now().Sub(*enr.CreatedAt)
			if age >= 0 && age < recentDomainDays*24*time.Hour {
				add(recentDomainScore, "medium", "Domain was registered less than 90 days ago")
			}
		}
	case model.EntityPhone:
		if enr.IsVOIP != nil && *enr.IsVOIP {
			add(voipScore, "medium", "Number is provisioned through a VOIP provider")
		}
		if enr.Carrier == "" || strings.EqualFold(enr.Carrier, "unknown") {
			add(unknownCarrierScore, "low", "Carrier could not be identified")
		}
	case model.EntityHandle:
		if enr.Platforms != nil && len(enr.Platforms) == 0 {
			add(singlePlatformScore, "low", "Handle does not appear on any other platform")
		}
	case model.EntityWallet:
		if enr.TransactionCount != nil && *enr.TransactionCount > highTxThreshold {
			add(highTxScore, "medium", "Wallet shows unusually high transaction volume")
		}
	}

	return score, factors
}

// historyScore scales with prior investigations and co-occurring entities.
// History is fetched lazily when the caller did not supply it.
func (s *Scorer) historyScore(ctx context.Context, req Request) (int, []model.RiskFactor) {
	hist := req.History
	if hist == nil {
		if s.Store == nil {
			return 0, nil
		}
		fetched, err := s.Store.InvestigationHistory(ctx, req.EntityType, req.Value)
		if err != nil {
			log.Printf("Warning: investigation history lookup for %s failed: %v", req.Value, err)
			return 0, nil
		}
		hist = &fetched
	}

	score := 0
	var factors []model.RiskFactor
	add := func(points int, severity, message string) {
		score += points
		factors = append(factors, model.RiskFactor{
			Type:     "internal_history",
			Severity: severity,
			Message:  message,
		})
	}

	switch {
	case hist.PriorInvestigations >= 10:
		add(30, "critical", "Entity has appeared in 10 or more prior investigations")
	case hist.PriorInvestigations >= 5:
		add(20, "high", "Entity has appeared in 5 or more prior investigations")
	case hist.PriorInvestigations >= 2:
		add(10, "medium", "Entity has appeared in multiple prior investigations")
	}

	switch {
	case hist.AssociatedEntities >= 5:
		add(15, "high", "Entity co-occurs with 5 or more other investigated entities")
	case hist.AssociatedEntities >= 2:
		add(8, "medium", "Entity co-occurs with other investigated entities")
	}

	return score, factors
}

// networkScore runs live aggregate queries to measure how clustered the
// entity's infrastructure is across the whole database right now, as
// opposed to the static attributes scored above.
func (s *Scorer) networkScore(ctx context.Context, req Request) (int, []model.RiskFactor) {
	if s.Store == nil {
		return 0, nil
	}

	enr := req.Enrichment
	score := 0
	var factors []model.RiskFactor
	add := func(points int, severity, message string) {
		score += points
		factors = append(factors, model.RiskFactor{
			Type:     "network_pattern",
			Severity: severity,
			Message:  message,
		})
	}
	count := func(n int, err error) int {
		if err != nil {
			log.Printf("Warning: network pattern query for %s failed: %v", req.Value, err)
			return 0
		}
		return n
	}

	switch req.EntityType {
	case model.EntityPhone:
		if enr.VOIPProvider != "" {
			n := count(s.Store.CountPhonesSharingVOIP(ctx, enr.VOIPProvider, req.Value))
			switch {
			case n >= 10:
				add(20, "high", networkMarker+": 10+ other phones currently share this VOIP provider")
			case n >= 3:
				add(10, "medium", networkMarker+": several other phones currently share this VOIP provider")
			}
		}
	case model.EntityDomain:
		if prefix, ok := signals.IPBlock(enr.IPAddress); ok {
			n := count(s.Store.CountDomainsSharingIPBlock(ctx, prefix, req.Value))
			switch {
			case n >= 10:
				add(20, "high", networkMarker+": 10+ other domains currently share this IP block")
			case n >= 3:
				add(10, "medium", networkMarker+": several other domains currently share this IP block")
			}
		}
		if enr.Registrar != "" {
			n := count(s.Store.CountDomainsSharingRegistrar(ctx, enr.Registrar, req.Value))
			if n >= 20 {
				add(5, "low", networkMarker+": this registrar hosts many other investigated domains")
			}
		}
	case model.EntityWallet:
		if enr.Currency != "" {
			n := count(s.Store.CountWalletsSharingCurrency(ctx, enr.Currency, req.Value))
			if n >= 50 {
				add(5, "low", networkMarker+": many other investigated wallets use this currency")
			}
		}
	}

	return score, factors
}
