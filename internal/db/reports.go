package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-screener/internal/types"
)

// ErrNotFound reports that no stored scan record matches the requested ID.
// Callers match it with errors.Is.
var ErrNotFound = errors.New("scan report not found")

func notFoundError(id uuid.UUID) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ScanRecord is a persisted scan report with its storage envelope.
type ScanRecord struct {
	ID        uuid.UUID        `json:"id"`
	Filename  string           `json:"filename"`
	IsSafe    bool             `json:"is_safe"`
	Report    types.ScanReport `json:"report"`
	CreatedAt time.Time        `json:"created_at"`
}

// SaveReport stores a scan report and returns its record ID.
func (db *DB) SaveReport(ctx context.Context, filename string, report *types.ScanReport) (uuid.UUID, error) {
	jsonBytes, err := json.Marshal(report)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO scan_reports (filename, is_safe, report)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		filename, report.IsSafe, jsonBytes,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save report: %w", err)
	}
	return id, nil
}

// GetReport retrieves a scan record by ID. Returns nil without error when no
// record exists.
func (db *DB) GetReport(ctx context.Context, id uuid.UUID) (*ScanRecord, error) {
	var rec ScanRecord
	var reportBytes []byte

	err := db.pool.QueryRow(ctx,
		`SELECT id, filename, is_safe, report, created_at
		 FROM scan_reports WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.Filename, &rec.IsSafe, &reportBytes, &rec.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	if err := json.Unmarshal(reportBytes, &rec.Report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report %s: %w", id, err)
	}
	return &rec, nil
}

// ReportFilters holds optional filters for listing scan records
type ReportFilters struct {
	Filename   string
	UnsafeOnly bool
	Limit      int
}

// buildListReportsQuery assembles the filtered list query and its arguments.
func buildListReportsQuery(filters ReportFilters) (string, []any) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	query := `SELECT id, filename, is_safe, report, created_at
		FROM scan_reports WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Filename != "" {
		query += fmt.Sprintf(" AND filename ILIKE $%d", argNum)
		args = append(args, "%"+filters.Filename+"%")
		argNum++
	}
	if filters.UnsafeOnly {
		query += " AND is_safe = FALSE"
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	return query, args
}

// ListReports retrieves scan records with optional filters
func (db *DB) ListReports(ctx context.Context, filters ReportFilters) ([]ScanRecord, error) {
	query, args := buildListReportsQuery(filters)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var records []ScanRecord
	for rows.Next() {
		var rec ScanRecord
		var reportBytes []byte
		if err := rows.Scan(&rec.ID, &rec.Filename, &rec.IsSafe, &reportBytes, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		if err := json.Unmarshal(reportBytes, &rec.Report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// DeleteReport deletes a scan record by ID.
func (db *DB) DeleteReport(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM scan_reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if result.RowsAffected() == 0 {
		return notFoundError(id)
	}
	return nil
}
