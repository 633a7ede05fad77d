package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/abusehound/lattice/internal/core/model"
)

// DomainRecord is one domain row with its enrichment attributes, the
// input to infrastructure clustering.
type DomainRecord struct {
	Domain     string
	VendorType string
	Enrichment model.Enrichment
}

// RelationalStore is the relational persistence contract the engine
// depends on. A nil store means "no data", never an error.
type RelationalStore interface {
	InvestigationHistory(ctx context.Context, entityType model.EntityType, value string) (model.InternalHistory, error)
	CountPhonesSharingVOIP(ctx context.Context, provider, excludeNumber string) (int, error)
	CountDomainsSharingIPBlock(ctx context.Context, ipPrefix, excludeDomain string) (int, error)
	CountDomainsSharingRegistrar(ctx context.Context, registrar, excludeDomain string) (int, error)
	CountWalletsSharingCurrency(ctx context.Context, currency, excludeAddress string) (int, error)
	ListDomainEnrichment(ctx context.Context) ([]DomainRecord, error)
}

// SQLiteStore implements RelationalStore over the investigation database.
type SQLiteStore struct {
	DB *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db '%s': %w", path, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite db '%s': %w", path, err)
	}
	return &SQLiteStore{DB: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.DB.Close()
}

func (s *SQLiteStore) InvestigationHistory(ctx context.Context, entityType model.EntityType, value string) (model.InternalHistory, error) {
	var hist model.InternalHistory

	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM investigations WHERE entity_type = ? AND entity_value = ?`,
		string(entityType), value).Scan(&hist.PriorInvestigations)
	if err != nil {
		return model.InternalHistory{}, err
	}

	// Entities co-occurring in the same investigation sessions.
	err = s.DB.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT other.entity_value)
		FROM investigations self
		JOIN investigations other ON other.session_id = self.session_id
		WHERE self.entity_type = ? AND self.entity_value = ?
		  AND NOT (other.entity_type = self.entity_type AND other.entity_value = self.entity_value)`,
		string(entityType), value).Scan(&hist.AssociatedEntities)
	if err != nil {
		return model.InternalHistory{}, err
	}

	return hist, nil
}

func (s *SQLiteStore) CountPhonesSharingVOIP(ctx context.Context, provider, excludeNumber string) (int, error) {
	return s.count(ctx,
		`SELECT COUNT(*) FROM phones WHERE voip_provider = ? AND number != ?`,
		provider, excludeNumber)
}

func (s *SQLiteStore) CountDomainsSharingIPBlock(ctx context.Context, ipPrefix, excludeDomain string) (int, error) {
	return s.count(ctx,
		`SELECT COUNT(*) FROM domains WHERE ip_address LIKE ? || '.%' AND name != ?`,
		ipPrefix, excludeDomain)
}

func (s *SQLiteStore) CountDomainsSharingRegistrar(ctx context.Context, registrar, excludeDomain string) (int, error) {
	return s.count(ctx,
		`SELECT COUNT(*) FROM domains WHERE registrar = ? AND name != ?`,
		registrar, excludeDomain)
}

func (s *SQLiteStore) CountWalletsSharingCurrency(ctx context.Context, currency, excludeAddress string) (int, error) {
	return s.count(ctx,
		`SELECT COUNT(*) FROM wallets WHERE currency = ? AND address != ?`,
		currency, excludeAddress)
}

func (s *SQLiteStore) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *SQLiteStore) ListDomainEnrichment(ctx context.Context) ([]DomainRecord, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT name, COALESCE(vendor_type, ''), COALESCE(cdn, ''), COALESCE(host_name, ''),
		       COALESCE(registrar, ''), COALESCE(payment_processor, ''), COALESCE(enrichment, '')
		FROM domains`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []DomainRecord
	for rows.Next() {
		var rec DomainRecord
		var blob string
		if err := rows.Scan(&rec.Domain, &rec.VendorType, &rec.Enrichment.CDN,
			&rec.Enrichment.HostName, &rec.Enrichment.Registrar,
			&rec.Enrichment.PaymentProcessor, &blob); err != nil {
			return nil, err
		}

		// Direct columns win; the enrichment blob fills the gaps.
		if blob != "" {
			var raw map[string]any
			if err := json.Unmarshal([]byte(blob), &raw); err == nil {
				parsed := model.ParseEnrichment(raw)
				if rec.Enrichment.CDN == "" {
					rec.Enrichment.CDN = parsed.CDN
				}
				if rec.Enrichment.HostName == "" {
					rec.Enrichment.HostName = parsed.HostName
				}
				if rec.Enrichment.Registrar == "" {
					rec.Enrichment.Registrar = parsed.Registrar
				}
				if rec.Enrichment.PaymentProcessor == "" {
					rec.Enrichment.PaymentProcessor = parsed.PaymentProcessor
				}
			}
		}

		records = append(records, rec)
	}
	return records, rows.Err()
}
