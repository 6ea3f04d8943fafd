package store

import (
	"encoding/json"
	"time"

	"github.com/lib/pq"
)

// AuditRun represents the 'audit_runs' table, one row per pipeline
// execution.
type AuditRun struct {
	ID                int64          `db:"id" json:"id"`
	AuditYear         int            `db:"audit_year" json:"audit_year"`
	AnnualHours       float64        `db:"annual_hours" json:"annual_hours"`
	GeneralRate       float64        `db:"general_rate" json:"general_rate"`
	SourceFiles       pq.StringArray `db:"source_files" json:"source_files"`
	TriggerType       string         `db:"trigger_type" json:"trigger_type"`
	Status            string         `db:"status" json:"status"`
	WorkerCount       int            `db:"worker_count" json:"worker_count"`
	ConsolidatedCount int            `db:"consolidated_count" json:"consolidated_count"`
	ErrorMessage      string         `db:"error_message" json:"error_message,omitempty"`
	ProcessedAt       time.Time      `db:"processed_at" json:"processed_at"`
}

// AuditRowRecord represents the 'audit_rows' table: one reconciled
// worker-year per run.
type AuditRowRecord struct {
	ID               int64     `db:"id" json:"id"`
	RunID            int64     `db:"run_id" json:"run_id"`
	WorkerName       string    `db:"worker_name" json:"worker_name"`
	UnifiedID        string    `db:"unified_id" json:"unified_id"`
	EmployerID       string    `db:"employer_id" json:"employer_id"`
	EmployerName     string    `db:"employer_name" json:"employer_name"`
	AuditYear        int       `db:"audit_year" json:"audit_year"`
	TheoreticalHours float64   `db:"theoretical_hours" json:"theoretical_hours"`
	IncapacityHours  float64   `db:"incapacity_hours" json:"incapacity_hours"`
	EffectiveHours   float64   `db:"effective_hours" json:"effective_hours"`
	IncapacityDays   int       `db:"incapacity_days" json:"incapacity_days"`
	ActiveDays       int       `db:"active_days" json:"active_days"`
	FirstActiveDay   string    `db:"first_active_day" json:"first_active_day"`
	LastActiveDay    string    `db:"last_active_day" json:"last_active_day"`
	FullCoverage     bool      `db:"full_coverage" json:"full_coverage"`
	Dedication       float64   `db:"dedication" json:"dedication"`
	ContractCode     string    `db:"contract_code" json:"contract_code"`
	SelfEmployed     bool      `db:"self_employed" json:"self_employed"`
	SurchargeRate    float64   `db:"surcharge_rate" json:"surcharge_rate"`
	TotalRate        float64   `db:"total_rate" json:"total_rate"`
	InsertedAt       time.Time `db:"inserted_at" json:"inserted_at"`
}

// ConsolidatedRecord represents the 'consolidated_rows' table. The
// consolidated report has a run-dependent column set, so the full row
// is kept as a JSONB payload keyed by the unified identifier.
type ConsolidatedRecord struct {
	ID         int64           `db:"id" json:"id"`
	RunID      int64           `db:"run_id" json:"run_id"`
	UnifiedID  string          `db:"unified_id" json:"unified_id"`
	Payload    json.RawMessage `db:"payload" json:"payload"`
	InsertedAt time.Time       `db:"inserted_at" json:"inserted_at"`
}
