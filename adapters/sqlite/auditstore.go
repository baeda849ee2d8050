package sqlite

import (
	"context"
	"time"

	"github.com/calcstack/calcd/domain/audit"
	"github.com/calcstack/calcd/ports"
)

// AuditStore implements ports.AuditStore using SQLite.
type AuditStore struct {
	db *DB
}

// NewAuditStore creates a new SQLite audit store.
func NewAuditStore(db *DB) *AuditStore {
	return &AuditStore{db: db}
}

// RecordBatch appends multiple usage records.
func (s *AuditStore) RecordBatch(ctx context.Context, records []audit.Record) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO usage_records (
			id, api_name, endpoint, request_data, response_data,
			status_code, latency_ms, ip_address, api_key_hash, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		// Store timestamp in UTC for consistent querying
		var keyHash any
		if r.APIKeyHash != "" {
			keyHash = r.APIKeyHash
		}
		_, err := stmt.ExecContext(ctx,
			r.ID, r.APIName, r.Endpoint, string(r.RequestData), string(r.ResponseData),
			r.StatusCode, r.LatencyMs, r.IPAddress, keyHash, r.Timestamp.UTC(),
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Summary aggregates usage between start and end.
func (s *AuditStore) Summary(ctx context.Context, start, end time.Time) (audit.Summary, error) {
	summary := audit.Summary{PeriodStart: start, PeriodEnd: end}
	startUTC, endUTC := start.UTC(), end.UTC()

	row := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status_code >= 400 THEN 1 ELSE 0 END), 0)
		FROM usage_records
		WHERE timestamp >= ? AND timestamp < ?
	`, startUTC, endUTC)
	if err := row.Scan(&summary.TotalRequests, &summary.TotalErrors); err != nil {
		return audit.Summary{}, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT
			api_name,
			COUNT(*) as request_count,
			COALESCE(SUM(CASE WHEN status_code >= 400 THEN 1 ELSE 0 END), 0) as error_count,
			CAST(COALESCE(AVG(latency_ms), 0) AS INTEGER) as avg_latency
		FROM usage_records
		WHERE timestamp >= ? AND timestamp < ?
		GROUP BY api_name
		ORDER BY request_count DESC
	`, startUTC, endUTC)
	if err != nil {
		return audit.Summary{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var e audit.EndpointSummary
		if err := rows.Scan(&e.APIName, &e.RequestCount, &e.ErrorCount, &e.AvgLatencyMs); err != nil {
			return audit.Summary{}, err
		}
		summary.Endpoints = append(summary.Endpoints, e)
	}
	if err := rows.Err(); err != nil {
		return audit.Summary{}, err
	}

	clientRows, err := s.db.QueryContext(ctx, `
		SELECT ip_address, COUNT(*) as request_count
		FROM usage_records
		WHERE timestamp >= ? AND timestamp < ?
		GROUP BY ip_address
		ORDER BY request_count DESC, ip_address
		LIMIT 10
	`, startUTC, endUTC)
	if err != nil {
		return audit.Summary{}, err
	}
	defer clientRows.Close()

	for clientRows.Next() {
		var c audit.ClientSummary
		if err := clientRows.Scan(&c.IPAddress, &c.RequestCount); err != nil {
			return audit.Summary{}, err
		}
		summary.TopClients = append(summary.TopClients, c)
	}
	return summary, clientRows.Err()
}

// Ensure interface compliance.
var _ ports.AuditStore = (*AuditStore)(nil)
