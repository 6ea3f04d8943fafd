package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type AuditRowStore struct {
	db *sqlx.DB
}

// AuditRowFilter narrows per-run row queries. Zero values mean no
// restriction.
type AuditRowFilter struct {
	Workers        []string
	UnifiedIDs     []string
	IncompleteOnly bool
}

func (ar *AuditRowStore) InsertRows(ctx context.Context, rows []AuditRowRecord) error {
	if len(rows) == 0 {
		return nil
	}

	query := `INSERT INTO audit_rows (
		run_id, worker_name, unified_id, employer_id, employer_name, audit_year,
		theoretical_hours, incapacity_hours, effective_hours,
		incapacity_days, active_days, first_active_day, last_active_day,
		full_coverage, dedication, contract_code, self_employed,
		surcharge_rate, total_rate
	) VALUES (
		:run_id, :worker_name, :unified_id, :employer_id, :employer_name, :audit_year,
		:theoretical_hours, :incapacity_hours, :effective_hours,
		:incapacity_days, :active_days, :first_active_day, :last_active_day,
		:full_coverage, :dedication, :contract_code, :self_employed,
		:surcharge_rate, :total_rate
	)`

	tx, err := ar.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin audit rows transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, query, rows); err != nil {
		return fmt.Errorf("failed to insert audit rows: %w", err)
	}
	return tx.Commit()
}

func (ar *AuditRowStore) GetRowsByRun(ctx context.Context, runID int64, filter AuditRowFilter) ([]AuditRowRecord, error) {
	query := `
	SELECT * FROM audit_rows
	WHERE run_id = $1
		AND ($2 OR worker_name = ANY($3))
		AND ($4 OR unified_id = ANY($5))
		AND ($6 = false OR full_coverage = false)
	ORDER BY worker_name;
	`

	var rows []AuditRowRecord
	err := ar.db.SelectContext(ctx, &rows, query, runID,
		len(filter.Workers) == 0, pq.Array(filter.Workers),
		len(filter.UnifiedIDs) == 0, pq.Array(filter.UnifiedIDs),
		filter.IncompleteOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit rows for run %d: %w", runID, err)
	}
	return rows, nil
}

// CoverageGap is one worker whose reconciled year fell short of the
// full engagement, with the hours lost to incapacity alongside.
type CoverageGap struct {
	WorkerName      string  `db:"worker_name" json:"worker_name"`
	UnifiedID       string  `db:"unified_id" json:"unified_id"`
	ActiveDays      int     `db:"active_days" json:"active_days"`
	IncapacityDays  int     `db:"incapacity_days" json:"incapacity_days"`
	EffectiveHours  float64 `db:"effective_hours" json:"effective_hours"`
	IncapacityHours float64 `db:"incapacity_hours" json:"incapacity_hours"`
}

// RowStatistics is the aggregate view of one run's reconciled rows.
type RowStatistics struct {
	Workers              int     `db:"workers" json:"workers"`
	IncompleteWorkers    int     `db:"incomplete_workers" json:"incomplete_workers"`
	TotalEffectiveHours  float64 `db:"total_effective_hours" json:"total_effective_hours"`
	AvgEffectiveHours    float64 `db:"avg_effective_hours" json:"avg_effective_hours"`
	StdDevEffectiveHours float64 `db:"stddev_effective_hours" json:"stddev_effective_hours"`
	TotalIncapacityDays  int     `db:"total_incapacity_days" json:"total_incapacity_days"`
	AvgTotalRate         float64 `db:"avg_total_rate" json:"avg_total_rate"`
}

func (ar *AuditRowStore) GetRunStatistics(ctx context.Context, runID int64) (RowStatistics, error) {
	query := `
	SELECT
		COUNT(*) AS workers,
		COUNT(*) FILTER (WHERE full_coverage = false) AS incomplete_workers,
		COALESCE(SUM(effective_hours), 0) AS total_effective_hours,
		COALESCE(ROUND(AVG(effective_hours)::numeric, 2), 0) AS avg_effective_hours,
		COALESCE(ROUND(STDDEV_SAMP(effective_hours)::numeric, 2), 0) AS stddev_effective_hours,
		COALESCE(SUM(incapacity_days), 0) AS total_incapacity_days,
		COALESCE(ROUND(AVG(total_rate)::numeric, 2), 0) AS avg_total_rate
	FROM audit_rows
	WHERE run_id = $1;
	`

	var stats RowStatistics
	if err := ar.db.GetContext(ctx, &stats, query, runID); err != nil {
		return RowStatistics{}, fmt.Errorf("failed to query run statistics for run %d: %w", runID, err)
	}
	return stats, nil
}

func (ar *AuditRowStore) GetCoverageGaps(ctx context.Context, runID int64) ([]CoverageGap, error) {
	query := `
	SELECT
		worker_name,
		unified_id,
		active_days,
		incapacity_days,
		effective_hours,
		incapacity_hours
	FROM audit_rows
	WHERE run_id = $1 AND full_coverage = false
	ORDER BY active_days ASC, worker_name;
	`

	var gaps []CoverageGap
	if err := ar.db.SelectContext(ctx, &gaps, query, runID); err != nil {
		return nil, fmt.Errorf("failed to query coverage gaps for run %d: %w", runID, err)
	}
	return gaps, nil
}
