package risk

import (
	"fmt"
	"strings"

	"github.com/abusehound/lattice/internal/core/model"
)

// networkMarker prefixes every network-pattern factor message; the summary
// template keys off its presence.
const networkMarker = "Network pattern"

var summaryTemplates = map[model.ThreatLevel]string{
	model.ThreatLow:      "No significant risk indicators found. Routine monitoring is sufficient.",
	model.ThreatMedium:   "Some risk indicators present. Review the listed factors before engaging further.",
	model.ThreatHigh:     "Multiple strong risk indicators. Treat this entity as likely abusive and prioritize review.",
	model.ThreatCritical: "Severe risk profile. Escalate immediately and preserve all related evidence.",
}

var recommendedActions = map[model.ThreatLevel]map[model.EntityType][]string{
	model.ThreatLow: {
		model.EntityPhone:  {"Keep the number on a watchlist"},
		model.EntityDomain: {"Re-check registration data in 30 days"},
		model.EntityWallet: {"Keep the address on a watchlist"},
		model.EntityHandle: {"Keep the handle on a watchlist"},
	},
	model.ThreatMedium: {
		model.EntityPhone:  {"Cross-reference the number against recent abuse reports", "Check carrier records for recent porting"},
		model.EntityDomain: {"Capture a snapshot of the site content", "Review WHOIS history for ownership changes"},
		model.EntityWallet: {"Trace recent transactions one hop out", "Check exchange attribution for counterparties"},
		model.EntityHandle: {"Search the handle across other platforms", "Archive the profile content"},
	},
	model.ThreatHigh: {
		model.EntityPhone:  {"Report the number to its VOIP provider's abuse desk", "Correlate with other numbers in the same cluster"},
		model.EntityDomain: {"File an abuse report with the registrar", "Request hosting takedown with captured evidence"},
		model.EntityWallet: {"Flag the address with chain-analysis providers", "Notify exchanges seen in its transaction graph"},
		model.EntityHandle: {"Report the account to the platform", "Preserve message history before takedown"},
	},
	model.ThreatCritical: {
		model.EntityPhone:  {"Escalate to law enforcement with full cluster context", "Coordinate simultaneous provider reports"},
		model.EntityDomain: {"Escalate to law enforcement before takedown requests", "Coordinate registrar and host takedowns together"},
		model.EntityWallet: {"Escalate to law enforcement with transaction graph export", "Request exchange freezes on connected accounts"},
		model.EntityHandle: {"Escalate to law enforcement with archived evidence", "Coordinate cross-platform takedowns"},
	},
}

var reportingLinks = map[model.EntityType][]string{
	model.EntityPhone:  {"https://reportfraud.ftc.gov", "https://www.fcc.gov/complaints"},
	model.EntityDomain: {"https://www.icann.org/compliance/complaint", "https://safebrowsing.google.com/safebrowsing/report_phish/"},
	model.EntityWallet: {"https://www.chainabuse.com/report"},
	model.EntityHandle: {"https://www.ic3.gov/complaint"},
}

func buildInsights(level model.ThreatLevel, req Request, factors []model.RiskFactor) model.Insights {
	summary := summaryTemplates[level]
	for _, f := range factors {
		if strings.Contains(f.Message, networkMarker) {
			summary += " Live network queries show this entity sharing infrastructure with others under investigation."
			break
		}
	}

	insights := model.Insights{
		Summary:            summary,
		RecommendedActions: recommendedActions[level][req.EntityType],
		ReportingLinks:     append([]string{}, reportingLinks[req.EntityType]...),
	}

	if req.EntityType == model.EntityDomain && req.Enrichment.Registrar != "" {
		insights.ReportingLinks = append(insights.ReportingLinks,
			fmt.Sprintf("registrar-abuse:%s", req.Enrichment.Registrar))
	}

	return insights
}
