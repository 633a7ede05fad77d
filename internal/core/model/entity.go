package model

import (
	"fmt"
	"time"
)

type EntityType string

const (
	EntityPhone  EntityType = "phone"
	EntityDomain EntityType = "domain"
	EntityWallet EntityType = "wallet"
	EntityHandle EntityType = "handle"
)

// Entity is an immutable input record. ID is the natural identifier:
// phone number, domain name, wallet address, or "handle|platform".
type Entity struct {
	Type       EntityType     `json:"type"`
	ID         string         `json:"id"`
	Enrichment Enrichment     `json:"enrichment"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// EntityRef identifies an entity inside a cluster.
type EntityRef struct {
	Type EntityType `json:"type"`
	ID   string     `json:"id"`
}

// Key is the dedupe key used by the merger: no cluster holds two
// entries with the same (type,id) after merging.
func (r EntityRef) Key() string {
	return string(r.Type) + "|" + r.ID
}

func (e Entity) Ref() EntityRef {
	return EntityRef{Type: e.Type, ID: e.ID}
}

// EntitiesByType is the input shape of cluster detection.
type EntitiesByType struct {
	Phones  []Entity `json:"phones"`
	Domains []Entity `json:"domains"`
	Wallets []Entity `json:"wallets"`
	Handles []Entity `json:"handles"`
}

// Enrichment is the typed replacement for the upstream enrichment maps.
// A zero-valued string field means the signal is not present; pointer
// fields distinguish "absent" from a legitimate zero.
type Enrichment struct {
	// Phone signals.
	VOIPProvider string `json:"voip_provider,omitempty"`
	IsVOIP       *bool  `json:"is_voip,omitempty"`
	Carrier      string `json:"carrier,omitempty"`
	CountryCode  string `json:"country_code,omitempty"`

	// Domain signals.
	Registrar        string `json:"registrar,omitempty"`
	IPAddress        string `json:"ip_address,omitempty"`
	CDN              string `json:"cdn,omitempty"`
	HostName         string `json:"host_name,omitempty"`
	PaymentProcessor string `json:"payment_processor,omitempty"`
	IsShortlink      *bool  `json:"is_shortlink,omitempty"`

	// Wallet signals.
	TransactionCount *int   `json:"transaction_count,omitempty"`
	Currency         string `json:"currency,omitempty"`

	// Handle signals.
	Platforms []string `json:"platforms,omitempty"`

	// Timestamps. FirstSeen covers phones and wallets; CreatedAt covers
	// domain registration dates.
	FirstSeen *time.Time `json:"first_seen,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`

	// External threat-feed results, already fetched by the enrichment layer.
	ThreatFlags []ThreatFlag `json:"threat_flags,omitempty"`
}

// ThreatFlag is one external feed's verdict on an entity.
type ThreatFlag struct {
	Source     string `json:"source"`
	Malicious  bool   `json:"malicious"`
	Confidence string `json:"confidence"` // low, medium, high
}

// Timestamp returns the entity's relevant time marker for window grouping:
// first_seen for phones and wallets, created_at for domains.
func (e Entity) Timestamp() (time.Time, bool) {
	switch e.Type {
	case EntityDomain:
		if e.Enrichment.CreatedAt != nil {
			return *e.Enrichment.CreatedAt, true
		}
	default:
		if e.Enrichment.FirstSeen != nil {
			return *e.Enrichment.FirstSeen, true
		}
	}
	return time.Time{}, false
}

// ParseEnrichment converts a flat key/value map (the wire shape produced by
// the enrichment layer) into the typed struct. Unknown keys are ignored and
// malformed values are skipped, never an error: a bad record degrades to
// "signal not present".
func ParseEnrichment(raw map[string]any) Enrichment {
	var enr Enrichment
	if raw == nil {
		return enr
	}
	enr.VOIPProvider = stringKey(raw, "voip_provider")
	enr.Carrier = stringKey(raw, "carrier")
	enr.CountryCode = stringKey(raw, "country_code")
	enr.Registrar = stringKey(raw, "registrar")
	enr.IPAddress = stringKey(raw, "ip_address")
	enr.CDN = stringKey(raw, "cdn")
	enr.HostName = stringKey(raw, "host_name")
	enr.PaymentProcessor = stringKey(raw, "payment_processor")
	enr.Currency = stringKey(raw, "currency")

	if v, ok := raw["is_voip"].(bool); ok {
		enr.IsVOIP = &v
	}
	if v, ok := raw["is_shortlink"].(bool); ok {
		enr.IsShortlink = &v
	}
	if n, ok := intKey(raw, "transaction_count"); ok {
		enr.TransactionCount = &n
	}
	if ts, ok := timeKey(raw, "first_seen"); ok {
		enr.FirstSeen = &ts
	}
	if ts, ok := timeKey(raw, "created_at"); ok {
		enr.CreatedAt = &ts
	} else if ts, ok := timeKey(raw, "creation_date"); ok {
		enr.CreatedAt = &ts
	}
	if ps, ok := raw["platforms"].([]any); ok {
		// An empty list is a real signal (checked, found nowhere else),
		// distinct from the key being absent.
		enr.Platforms = []string{}
		for _, p := range ps {
			if s, ok := p.(string); ok {
				enr.Platforms = append(enr.Platforms, s)
			}
		}
	}
	if fs, ok := raw["threat_flags"].([]any); ok {
		for _, f := range fs {
			m, ok := f.(map[string]any)
			if !ok {
				continue
			}
			flag := ThreatFlag{Source: stringKey(m, "source"), Confidence: stringKey(m, "confidence")}
			flag.Malicious, _ = m["malicious"].(bool)
			enr.ThreatFlags = append(enr.ThreatFlags, flag)
		}
	}
	return enr
}

func stringKey(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

func intKey(raw map[string]any, key string) (int, bool) {
	switch v := raw[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}

func timeKey(raw map[string]any, key string) (time.Time, bool) {
	switch v := raw[key].(type) {
	case time.Time:
		return v, true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if ts, err := time.Parse(layout, v); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

// Vendor is a marketplace listing with free-text descriptive fields,
// the input to content clustering.
type Vendor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	VendorType  string `json:"vendor_type,omitempty"`
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`
	Title       string `json:"title,omitempty"`
	Services    string `json:"services,omitempty"`
}

// CombinedText joins the vendor's descriptive fields for similarity work.
func (v Vendor) CombinedText() string {
	out := ""
	for _, part := range []string{v.Summary, v.Description, v.Title, v.Services} {
		if part == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += part
	}
	return out
}

// InternalHistory is the investigation record the risk scorer consumes.
type InternalHistory struct {
	PriorInvestigations int `json:"prior_investigations"`
	AssociatedEntities  int `json:"associated_entities"`
}

// ParseEntityType validates a wire-level entity type string.
func ParseEntityType(s string) (EntityType, error) {
	switch EntityType(s) {
	case EntityPhone, EntityDomain, EntityWallet, EntityHandle:
		return EntityType(s), nil
	}
	return "", fmt.Errorf("unknown entity type %q", s)
}
