package model

type ThreatLevel string

const (
	ThreatLow      ThreatLevel = "low"
	ThreatMedium   ThreatLevel = "medium"
	ThreatHigh     ThreatLevel = "high"
	ThreatCritical ThreatLevel = "critical"
)

// ThreatLevelForScore maps a clamped severity score to its band.
func ThreatLevelForScore(score int) ThreatLevel {
	switch {
	case score >= 75:
		return ThreatCritical
	case score >= 50:
		return ThreatHigh
	case score >= 25:
		return ThreatMedium
	default:
		return ThreatLow
	}
}

type RiskFactor struct {
	Type     string   `json:"type"`
	Severity string   `json:"severity"` // low, medium, high, critical
	Message  string   `json:"message"`
	Sources  []string `json:"sources,omitempty"`
}

// RiskAssessment is a value object computed fresh on every call.
type RiskAssessment struct {
	EntityType         EntityType   `json:"entity_type"`
	Value              string       `json:"value"`
	ThreatLevel        ThreatLevel  `json:"threat_level"`
	SeverityScore      int          `json:"severity_score"`
	RiskFactors        []RiskFactor `json:"risk_factors"`
	ActionableInsights Insights     `json:"actionable_insights"`
}

type Insights struct {
	Summary            string   `json:"summary"`
	RecommendedActions []string `json:"recommended_actions"`
	ReportingLinks     []string `json:"reporting_links,omitempty"`
}
