package main

import (
	"context"

	"github.com/oscarvines/unificacionsistemas/internal/audit"
	"github.com/oscarvines/unificacionsistemas/internal/audit/consolidate"
	"github.com/oscarvines/unificacionsistemas/internal/audit/ingest"
	"github.com/oscarvines/unificacionsistemas/internal/logger"
	"github.com/oscarvines/unificacionsistemas/internal/store"
)

// persistRun records the run, its reconciled rows and the consolidated
// report. The run row goes in first so the detail tables can reference
// it; the status is updated once the detail inserts settle.
func persistRun(ctx context.Context, cfg audit.Config, files ingest.SourceFiles, result *audit.Result, trigger string, storage *store.Storage, appLogger *logger.Logger) error {
	const component = "Loader"

	var sourcePaths []string
	for _, path := range files {
		sourcePaths = append(sourcePaths, path)
	}

	run := &store.AuditRun{
		AuditYear:   cfg.Year,
		AnnualHours: cfg.AnnualHours,
		GeneralRate: cfg.GeneralRate,
		SourceFiles: sourcePaths,
		TriggerType: trigger,
		Status:      store.StatusRunning,
	}
	if err := storage.RunHistory.InsertRun(ctx, run); err != nil {
		return err
	}
	appLogger.Info(component, "Audit run recorded: id=%d", run.ID)

	status := store.StatusSuccess
	errorMessage := ""

	rows := make([]store.AuditRowRecord, 0, len(result.Rows))
	for _, r := range result.Rows {
		rows = append(rows, store.AuditRowRecord{
			RunID:            run.ID,
			WorkerName:       r.WorkerName,
			UnifiedID:        r.WorkerKey,
			EmployerID:       r.EmployerID,
			EmployerName:     r.EmployerName,
			AuditYear:        r.Year,
			TheoreticalHours: r.TheoreticalHours,
			IncapacityHours:  r.IncapacityHours,
			EffectiveHours:   r.EffectiveHours,
			IncapacityDays:   r.IncapacityDays,
			ActiveDays:       r.ActiveDays,
			FirstActiveDay:   r.FirstActiveDay,
			LastActiveDay:    r.LastActiveDay,
			FullCoverage:     r.Complete,
			Dedication:       r.DedicationPct,
			ContractCode:     r.ContractCode,
			SelfEmployed:     r.SelfEmployed,
			SurchargeRate:    r.UnemploymentRate,
			TotalRate:        r.TotalRate,
		})
	}
	if err := storage.AuditRows.InsertRows(ctx, rows); err != nil {
		appLogger.Error(component, "Failed to insert audit rows: run=%d error=%v", run.ID, err)
		status = store.StatusPartial
		errorMessage = err.Error()
	}

	consolidatedCount := 0
	if result.Consolidated.Nrow() > 0 {
		maps := result.Consolidated.Maps()
		if err := storage.Consolidated.InsertRecords(ctx, run.ID, maps, consolidate.ColUnifiedID); err != nil {
			appLogger.Error(component, "Failed to insert consolidated rows: run=%d error=%v", run.ID, err)
			status = store.StatusPartial
			errorMessage = err.Error()
		} else {
			consolidatedCount = len(maps)
		}
	}

	if err := storage.RunHistory.UpdateRunStatus(ctx, run.ID, status, len(rows), consolidatedCount, errorMessage); err != nil {
		appLogger.Error(component, "Failed to update run status: run=%d error=%v", run.ID, err)
		return err
	}

	appLogger.Info(component, "Run persisted: id=%d status=%s rows=%d consolidated=%d", run.ID, status, len(rows), consolidatedCount)
	return nil
}
