package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreatLevelBoundaries(t *testing.T) {
	cases := map[int]ThreatLevel{
		0:   ThreatLow,
		24:  ThreatLow,
		25:  ThreatMedium,
		49:  ThreatMedium,
		50:  ThreatHigh,
		74:  ThreatHigh,
		75:  ThreatCritical,
		100: ThreatCritical,
	}
	for score, want := range cases {
		assert.Equal(t, want, ThreatLevelForScore(score), "score %d", score)
	}
}

func TestParseEnrichment(t *testing.T) {
	enr := ParseEnrichment(map[string]any{
		"voip_provider":     "Acme VOIP",
		"is_voip":           true,
		"registrar":         "Acme Registrar",
		"ip_address":        "203.0.113.7",
		"transaction_count": float64(42), // JSON numbers decode as float64
		"first_seen":        "2025-01-15T00:00:00Z",
		"creation_date":     "2025-02-01",
		"platforms":         []any{"telegram", "discord"},
		"threat_flags": []any{
			map[string]any{"source": "feed-a", "malicious": true, "confidence": "high"},
		},
		"unknown_key": 123,
	})

	assert.Equal(t, "Acme VOIP", enr.VOIPProvider)
	require.NotNil(t, enr.IsVOIP)
	assert.True(t, *enr.IsVOIP)
	require.NotNil(t, enr.TransactionCount)
	assert.Equal(t, 42, *enr.TransactionCount)
	require.NotNil(t, enr.FirstSeen)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), enr.FirstSeen.UTC())
	require.NotNil(t, enr.CreatedAt)
	assert.Equal(t, []string{"telegram", "discord"}, enr.Platforms)
	require.Len(t, enr.ThreatFlags, 1)
	assert.True(t, enr.ThreatFlags[0].Malicious)
}

func TestParseEnrichment_MalformedValuesSkipped(t *testing.T) {
	enr := ParseEnrichment(map[string]any{
		"is_voip":    "yes",        // wrong type
		"first_seen": "not a date", // unparsable
	})

	assert.Nil(t, enr.IsVOIP)
	assert.Nil(t, enr.FirstSeen)
}

func TestEntityTimestamp(t *testing.T) {
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	phone := Entity{Type: EntityPhone, Enrichment: Enrichment{FirstSeen: &ts}}
	got, ok := phone.Timestamp()
	assert.True(t, ok)
	assert.Equal(t, ts, got)

	domain := Entity{Type: EntityDomain, Enrichment: Enrichment{CreatedAt: &ts}}
	_, ok = domain.Timestamp()
	assert.True(t, ok)

	bare := Entity{Type: EntityWallet}
	_, ok = bare.Timestamp()
	assert.False(t, ok)
}

func TestParseEntityType(t *testing.T) {
	for _, valid := range []string{"phone", "domain", "wallet", "handle"} {
		_, err := ParseEntityType(valid)
		assert.NoError(t, err)
	}
	_, err := ParseEntityType("ip")
	assert.Error(t, err)
}

func TestEntityRefKey(t *testing.T) {
	a := EntityRef{Type: EntityPhone, ID: "123"}
	b := EntityRef{Type: EntityDomain, ID: "123"}
	assert.NotEqual(t, a.Key(), b.Key())
}
