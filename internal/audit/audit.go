package audit

import (
	"errors"
	"sort"
	"sync"

	"github.com/go-gota/gota/dataframe"

	"github.com/oscarvines/unificacionsistemas/internal/audit/consolidate"
	"github.com/oscarvines/unificacionsistemas/internal/audit/ingest"
	"github.com/oscarvines/unificacionsistemas/internal/audit/rates"
	"github.com/oscarvines/unificacionsistemas/internal/audit/timeline"
	"github.com/oscarvines/unificacionsistemas/internal/audit/types"
	"github.com/oscarvines/unificacionsistemas/internal/logger"
)

const defaultConcurrency = 4

// Config collects every user-tunable knob of one run.
type Config struct {
	Year        int
	AnnualHours float64
	// GeneralRate is the employer social security contribution rate in
	// percent, before the unemployment surcharge.
	GeneralRate float64

	// Self-employed rows carry no employer of their own; these fill the
	// gap.
	ManualEmployerName string
	ManualEmployerID   string

	Claves  []string
	Workers []string
	Columns []string

	MaxConcurrency int
}

// Result is everything a run produces: the per-worker reconciliation
// rows, the source tables as loaded, the consolidated report and its
// statistical summary.
type Result struct {
	Rows         []types.AuditRow
	Audit        dataframe.DataFrame
	Withholding  dataframe.DataFrame
	Payroll      dataframe.DataFrame
	Bases        dataframe.DataFrame
	Consolidated dataframe.DataFrame
	Summary      consolidate.ReportSummary
}

// Run executes the full pipeline: load the extracts, reconcile every
// worker timeline against the calendar year, enrich with contribution
// rates, then consolidate across sources and summarize.
func Run(cfg Config, files ingest.SourceFiles, appLogger *logger.Logger) (*Result, error) {
	const component = "AuditRunner"

	periodsDF, hasPeriods := ingest.LoadSource(files, types.SourcePeriods, appLogger)
	withholdingDF, _ := ingest.LoadSource(files, types.SourceWithholding, appLogger)
	payrollDF, _ := ingest.LoadSource(files, types.SourcePayroll, appLogger)
	basesDF, _ := ingest.LoadSource(files, types.SourceBases, appLogger)

	result := &Result{
		Withholding: withholdingDF,
		Payroll:     payrollDF,
		Bases:       basesDF,
	}

	if hasPeriods {
		result.Rows = reconcileAll(cfg, ingest.TimelinesFromFrame(periodsDF), appLogger)
		appLogger.Info(component, "Reconciliation completed: workers=%d", len(result.Rows))
	} else {
		appLogger.Warn(component, "No period extract provided, skipping reconciliation")
	}

	if len(result.Rows) > 0 {
		result.Audit = dataframe.LoadStructs(result.Rows)
		if result.Audit.Error() != nil {
			return nil, result.Audit.Error()
		}
	}

	consolidated, err := consolidate.Consolidate(consolidate.Datasets{
		Audit:       result.Audit,
		Withholding: withholdingDF,
		Payroll:     payrollDF,
		Bases:       basesDF,
	}, consolidate.Options{
		Claves:  cfg.Claves,
		Workers: cfg.Workers,
		Columns: cfg.Columns,
	}, appLogger)
	if err != nil {
		if errors.Is(err, consolidate.ErrNothingToReport) {
			appLogger.Warn(component, "Consolidation skipped: %v", err)
			return result, nil
		}
		return nil, err
	}

	result.Consolidated = consolidated
	result.Summary = consolidate.Summarize(consolidated, nil)
	return result, nil
}

// reconcileAll runs the per-worker reconciliation across a bounded pool
// of goroutines. Rows come back sorted by worker name so reruns over
// the same extracts produce identical tables.
func reconcileAll(cfg Config, timelines map[string]types.WorkerTimeline, appLogger *logger.Logger) []types.AuditRow {
	const component = "AuditRunner"

	concurrency := cfg.MaxConcurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	params := timeline.Params{
		Year:               cfg.Year,
		AnnualHours:        cfg.AnnualHours,
		ManualEmployerName: cfg.ManualEmployerName,
		ManualEmployerID:   cfg.ManualEmployerID,
	}

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		rows []types.AuditRow
	)
	sem := make(chan struct{}, concurrency)

	for name, tl := range timelines {
		wg.Add(1)
		sem <- struct{}{}
		go func(name string, tl types.WorkerTimeline) {
			defer wg.Done()
			defer func() { <-sem }()

			row, ok := timeline.Reconcile(tl, params)
			if !ok {
				appLogger.Debug(component, "Worker excluded, no active days in year: worker=%s year=%d", name, cfg.Year)
				return
			}
			rates.Enrich(&row, cfg.GeneralRate)

			mu.Lock()
			rows = append(rows, row)
			mu.Unlock()
		}(name, tl)
	}
	wg.Wait()

	sort.Slice(rows, func(i, j int) bool { return rows[i].WorkerName < rows[j].WorkerName })
	return rows
}
