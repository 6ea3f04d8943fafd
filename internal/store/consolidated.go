package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type ConsolidatedStore struct {
	db *sqlx.DB
}

func (cs *ConsolidatedStore) InsertRecords(ctx context.Context, runID int64, rows []map[string]interface{}, idColumn string) error {
	if len(rows) == 0 {
		return nil
	}

	query := `INSERT INTO consolidated_rows (run_id, unified_id, payload)
		VALUES (:run_id, :unified_id, :payload)`

	records := make([]ConsolidatedRecord, 0, len(rows))
	for _, row := range rows {
		payload, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("failed to encode consolidated row: %w", err)
		}
		unifiedID, _ := row[idColumn].(string)
		records = append(records, ConsolidatedRecord{
			RunID:     runID,
			UnifiedID: unifiedID,
			Payload:   payload,
		})
	}

	tx, err := cs.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin consolidated transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, query, records); err != nil {
		return fmt.Errorf("failed to insert consolidated rows: %w", err)
	}
	return tx.Commit()
}

func (cs *ConsolidatedStore) GetByRun(ctx context.Context, runID int64) ([]ConsolidatedRecord, error) {
	query := `SELECT * FROM consolidated_rows WHERE run_id = $1 ORDER BY unified_id`

	var records []ConsolidatedRecord
	if err := cs.db.SelectContext(ctx, &records, query, runID); err != nil {
		return nil, fmt.Errorf("failed to query consolidated rows for run %d: %w", runID, err)
	}
	return records, nil
}

func (cs *ConsolidatedStore) GetByUnifiedID(ctx context.Context, unifiedID string, limit int) ([]ConsolidatedRecord, error) {
	query := `SELECT * FROM consolidated_rows
		WHERE unified_id = $1
		ORDER BY inserted_at DESC
		LIMIT $2`

	var records []ConsolidatedRecord
	if err := cs.db.SelectContext(ctx, &records, query, unifiedID, limit); err != nil {
		return nil, fmt.Errorf("failed to query consolidated rows for %s: %w", unifiedID, err)
	}
	return records, nil
}
