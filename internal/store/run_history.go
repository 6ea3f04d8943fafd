package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type RunHistoryStore struct {
	db *sqlx.DB
}

var (
	TriggerTypeManual    = "manual"
	TriggerTypeScheduled = "scheduled"
)

var (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusPartial = "partial"
)

func (rh *RunHistoryStore) InsertRun(ctx context.Context, run *AuditRun) error {
	query := `INSERT INTO audit_runs (
		audit_year,
		annual_hours,
		general_rate,
		source_files,
		trigger_type,
		status,
		worker_count,
		consolidated_count,
		error_message
	) VALUES (
		:audit_year,
		:annual_hours,
		:general_rate,
		:source_files,
		:trigger_type,
		:status,
		:worker_count,
		:consolidated_count,
		:error_message
	) RETURNING id, processed_at`

	rows, err := rh.db.NamedQueryContext(ctx, query, run)
	if err != nil {
		return fmt.Errorf("failed to insert audit run: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&run.ID, &run.ProcessedAt); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (rh *RunHistoryStore) UpdateRunStatus(ctx context.Context, id int64, status string, workerCount, consolidatedCount int, errorMessage string) error {
	query := `UPDATE audit_runs
		SET status = $2, worker_count = $3, consolidated_count = $4, error_message = $5
		WHERE id = $1`

	_, err := rh.db.ExecContext(ctx, query, id, status, workerCount, consolidatedCount, errorMessage)
	if err != nil {
		return fmt.Errorf("failed to update audit run %d: %w", id, err)
	}
	return nil
}

func (rh *RunHistoryStore) GetRun(ctx context.Context, id int64) (*AuditRun, error) {
	query := `SELECT * FROM audit_runs WHERE id = $1`

	var run AuditRun
	if err := rh.db.GetContext(ctx, &run, query, id); err != nil {
		return nil, fmt.Errorf("failed to get audit run %d: %w", id, err)
	}
	return &run, nil
}

func (rh *RunHistoryStore) GetLatest(ctx context.Context, limit int) ([]AuditRun, error) {
	query := `SELECT * FROM audit_runs ORDER BY processed_at DESC LIMIT $1`

	var runs []AuditRun
	if err := rh.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get latest audit runs: %w", err)
	}
	return runs, nil
}
