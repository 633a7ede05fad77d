package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abusehound/lattice/internal/core/model"
)

func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	schema := []string{
		`CREATE TABLE phones (number TEXT, voip_provider TEXT)`,
		`CREATE TABLE domains (name TEXT, vendor_type TEXT, cdn TEXT, host_name TEXT,
			registrar TEXT, payment_processor TEXT, ip_address TEXT, enrichment TEXT)`,
		`CREATE TABLE wallets (address TEXT, currency TEXT)`,
		`CREATE TABLE investigations (session_id TEXT, entity_type TEXT, entity_value TEXT)`,
	}
	for _, stmt := range schema {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return &SQLiteStore{DB: db}
}

func TestCountPhonesSharingVOIP(t *testing.T) {
	s := testStore(t)
	for _, row := range [][2]string{
		{"12025550001", "Acme VOIP"},
		{"13105550002", "Acme VOIP"},
		{"14155550003", "Other VOIP"},
	} {
		_, err := s.DB.Exec(`INSERT INTO phones VALUES (?, ?)`, row[0], row[1])
		require.NoError(t, err)
	}

	n, err := s.CountPhonesSharingVOIP(context.Background(), "Acme VOIP", "12025550001")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCountDomainsSharingIPBlock(t *testing.T) {
	s := testStore(t)
	for _, row := range [][2]string{
		{"a.com", "203.0.113.10"},
		{"b.com", "203.0.113.99"},
		{"c.com", "198.51.100.1"},
	} {
		_, err := s.DB.Exec(`INSERT INTO domains (name, ip_address) VALUES (?, ?)`, row[0], row[1])
		require.NoError(t, err)
	}

	n, err := s.CountDomainsSharingIPBlock(context.Background(), "203.0.113", "a.com")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInvestigationHistory(t *testing.T) {
	s := testStore(t)
	rows := [][3]string{
		{"s1", "phone", "12025550001"},
		{"s2", "phone", "12025550001"},
		{"s1", "domain", "a.com"},
		{"s1", "wallet", "w1"},
		{"s3", "domain", "b.com"},
	}
	for _, r := range rows {
		_, err := s.DB.Exec(`INSERT INTO investigations VALUES (?, ?, ?)`, r[0], r[1], r[2])
		require.NoError(t, err)
	}

	hist, err := s.InvestigationHistory(context.Background(), model.EntityPhone, "12025550001")
	require.NoError(t, err)
	assert.Equal(t, 2, hist.PriorInvestigations)
	// a.com and w1 share session s1 with the phone.
	assert.Equal(t, 2, hist.AssociatedEntities)
}

func TestListDomainEnrichment_BlobFallback(t *testing.T) {
	s := testStore(t)
	_, err := s.DB.Exec(
		`INSERT INTO domains (name, vendor_type, cdn, enrichment) VALUES (?, ?, ?, ?)`,
		"a.com", "sms", "direct-cdn", `{"cdn": "blob-cdn", "registrar": "Blob Registrar"}`)
	require.NoError(t, err)

	records, err := s.ListDomainEnrichment(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	// Direct column wins for cdn; blob fills in the missing registrar.
	assert.Equal(t, "direct-cdn", records[0].Enrichment.CDN)
	assert.Equal(t, "Blob Registrar", records[0].Enrichment.Registrar)
}
