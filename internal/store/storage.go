package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Storage struct {
	RunHistory interface {
		InsertRun(ctx context.Context, run *AuditRun) error
		UpdateRunStatus(ctx context.Context, id int64, status string, workerCount, consolidatedCount int, errorMessage string) error
		GetRun(ctx context.Context, id int64) (*AuditRun, error)
		GetLatest(ctx context.Context, limit int) ([]AuditRun, error)
	}

	AuditRows interface {
		InsertRows(ctx context.Context, rows []AuditRowRecord) error
		GetRowsByRun(ctx context.Context, runID int64, filter AuditRowFilter) ([]AuditRowRecord, error)
		GetCoverageGaps(ctx context.Context, runID int64) ([]CoverageGap, error)
		GetRunStatistics(ctx context.Context, runID int64) (RowStatistics, error)
	}

	Consolidated interface {
		InsertRecords(ctx context.Context, runID int64, rows []map[string]interface{}, idColumn string) error
		GetByRun(ctx context.Context, runID int64) ([]ConsolidatedRecord, error)
		GetByUnifiedID(ctx context.Context, unifiedID string, limit int) ([]ConsolidatedRecord, error)
	}
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{
		RunHistory:   &RunHistoryStore{db: db},
		AuditRows:    &AuditRowStore{db: db},
		Consolidated: &ConsolidatedStore{db: db},
	}
}
