package consolidate

import (
	"errors"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/oscarvines/unificacionsistemas/internal/audit/identity"
	"github.com/oscarvines/unificacionsistemas/internal/audit/rates"
	"github.com/oscarvines/unificacionsistemas/internal/audit/types"
	"github.com/oscarvines/unificacionsistemas/internal/audit/utils"
	"github.com/oscarvines/unificacionsistemas/internal/logger"
)

const (
	// ColJoinKey is the internal normalized-identifier column added to
	// every source before joining.
	ColJoinKey = "DNI_JOIN"
	// ColUnifiedID is the public name of the join key in the final
	// report.
	ColUnifiedID = "DNI_UNIFICADO"
)

// Derived-metric column names.
const (
	ColGrossPerceptions = "Percepciones Totales"
	ColSSCost           = "Coste SS Teorico"
	ColHourlyCost       = "Coste Hora"
	ColRealHourlyCost   = "Coste Hora Real"
)

// ErrNothingToReport is returned when no source contributes a single
// usable row. Per-row data problems never surface as errors; this is
// the only condition the consolidator reports to its caller.
var ErrNothingToReport = errors.New("nothing to report: all input datasets are empty")

// Datasets carries the four independently produced tables. Any of them
// may be empty; an empty source simply contributes nothing.
type Datasets struct {
	Audit       dataframe.DataFrame
	Withholding dataframe.DataFrame
	Payroll     dataframe.DataFrame
	Bases       dataframe.DataFrame
}

// Options are the user-selected consolidation controls.
type Options struct {
	// Claves restricts the withholding dataset to these perception
	// keys before joining. Empty means no restriction.
	Claves []string
	// Workers restricts the withholding dataset to these worker names
	// before joining. Empty means no restriction.
	Workers []string
	// Columns optionally restricts the final column set.
	Columns []string
}

// joinRule is one entry of the collision rule table: enrichment
// sources joined in order, each with the suffix its colliding columns
// receive. The withholding driver always keeps the canonical names.
type joinRule struct {
	name   string
	suffix string
}

var joinOrder = []joinRule{
	{name: "audit", suffix: "_IDC"},
	{name: "bases", suffix: "_RNT"},
	{name: "payroll", suffix: "_NOM"},
}

// redundantIDColumns are per-source identifier columns that become
// noise once the unified key exists.
var redundantIDColumns = []string{
	"DNI", "NIF",
	"DNI_IDC", "NIF_IDC",
	"DNI_RNT", "NIF_RNT",
	"DNI_NOM", "NIF_NOM",
}

func isEmpty(df dataframe.DataFrame) bool {
	return df.Nrow() == 0 || df.Ncol() == 0
}

// withJoinKey adds the normalized join-key column derived from the
// source's identifier column.
func withJoinKey(df dataframe.DataFrame, idColumn string) dataframe.DataFrame {
	n := df.Nrow()
	keys := make([]string, n)
	if utils.HasColumn(&df, idColumn) {
		for i, raw := range df.Col(idColumn).Records() {
			keys[i] = identity.Normalize(raw)
		}
	} else {
		for i := range keys {
			keys[i] = identity.NoKey
		}
	}
	return df.Mutate(series.New(keys, series.String, ColJoinKey))
}

// dropNoKey removes rows whose identifier normalized to the no-key
// sentinel. Applied to enrichment sources only, so keyless driver rows
// still surface (unmatched) in the output.
func dropNoKey(df dataframe.DataFrame) dataframe.DataFrame {
	return df.Filter(dataframe.F{
		Colname:    ColJoinKey,
		Comparator: series.Neq,
		Comparando: identity.NoKey,
	})
}

func filterIn(df dataframe.DataFrame, column string, values []string) dataframe.DataFrame {
	if len(values) == 0 || !utils.HasColumn(&df, column) {
		return df
	}
	return df.Filter(dataframe.F{
		Colname:    column,
		Comparator: series.In,
		Comparando: values,
	})
}

// renameCollisions applies the collision rule: any enrichment column
// already present in the accumulated result gets the source suffix, so
// the earlier-joined source keeps the canonical name.
func renameCollisions(left, right dataframe.DataFrame, suffix string) dataframe.DataFrame {
	for _, name := range right.Names() {
		if name == ColJoinKey {
			continue
		}
		if utils.HasColumn(&left, name) {
			right = right.Rename(name+suffix, name)
		}
	}
	return right
}

// Consolidate merges the four sources into one row per unified
// identifier. The filtered withholding dataset drives the join: a
// worker absent from it is dropped even if present elsewhere, and the
// output never has more rows than the filtered driver.
func Consolidate(data Datasets, opts Options, appLogger *logger.Logger) (dataframe.DataFrame, error) {
	const component = "Consolidator"

	if isEmpty(data.Withholding) {
		return dataframe.DataFrame{}, ErrNothingToReport
	}

	driver := withJoinKey(data.Withholding, types.IDColumnForSource[types.SourceWithholding])
	driver = filterIn(driver, "Clave", opts.Claves)
	driver = filterIn(driver, "Nombre", opts.Workers)
	if driver.Nrow() == 0 {
		appLogger.Warn(component, "Withholding dataset fully excluded by filters: claves=%v workers=%d", opts.Claves, len(opts.Workers))
		return dataframe.DataFrame{}, ErrNothingToReport
	}
	driver = aggregateByKey(driver)
	appLogger.Info(component, "Join driver prepared: rows=%d", driver.Nrow())

	enrichments := map[string]dataframe.DataFrame{}
	if !isEmpty(data.Audit) {
		enrichments["audit"] = dropNoKey(withJoinKey(data.Audit, types.IDColumnForSource[types.SourcePeriods]))
	}
	if !isEmpty(data.Bases) {
		enrichments["bases"] = dropNoKey(withJoinKey(data.Bases, types.IDColumnForSource[types.SourceBases]))
	}
	if !isEmpty(data.Payroll) {
		enrichments["payroll"] = dropNoKey(withJoinKey(data.Payroll, types.IDColumnForSource[types.SourcePayroll]))
	}

	result := driver
	for _, rule := range joinOrder {
		right, ok := enrichments[rule.name]
		if !ok || right.Nrow() == 0 {
			continue
		}
		right = aggregateByKey(right)
		right = renameCollisions(result, right, rule.suffix)
		result = result.LeftJoin(right, ColJoinKey)
		if result.Error() != nil {
			appLogger.Error(component, "Join failed: source=%s error=%v", rule.name, result.Error())
			return dataframe.DataFrame{}, result.Error()
		}
		appLogger.Debug(component, "Source joined: source=%s columns=%d", rule.name, result.Ncol())
	}

	var toDrop []string
	for _, col := range redundantIDColumns {
		if utils.HasColumn(&result, col) {
			toDrop = append(toDrop, col)
		}
	}
	if len(toDrop) > 0 {
		result = result.Drop(toDrop)
	}
	result = result.Rename(ColUnifiedID, ColJoinKey)

	result = deriveMetrics(result, appLogger)

	if len(opts.Columns) > 0 {
		selected := []string{ColUnifiedID}
		for _, col := range opts.Columns {
			if col != ColUnifiedID && utils.HasColumn(&result, col) {
				selected = append(selected, col)
			}
		}
		result = result.Select(selected)
	}

	appLogger.Info(component, "Consolidation completed: rows=%d columns=%d", result.Nrow(), result.Ncol())
	return result, nil
}

// deriveMetrics appends the cost columns whose prerequisite columns
// made it into the consolidated table. Missing prerequisites silently
// skip the metric; a zero effective-hours divisor leaves NaN in that
// row, the table's undefined marker.
func deriveMetrics(df dataframe.DataFrame, appLogger *logger.Logger) dataframe.DataFrame {
	const component = "Consolidator"

	grossCols := []string{"Dinerarias No IL", "Especie No IL", "Dinerarias IL", "Especie IL"}
	cashCols := []string{"Dinerarias No IL", "Dinerarias IL"}

	hasAll := func(cols []string) bool {
		for _, c := range cols {
			if !utils.HasColumn(&df, c) {
				return false
			}
		}
		return true
	}

	n := df.Nrow()

	if hasAll(grossCols) {
		gross := make([]float64, n)
		for _, c := range grossCols {
			for i, v := range df.Col(c).Float() {
				if !math.IsNaN(v) {
					gross[i] += v
				}
			}
		}
		df = df.Mutate(series.New(gross, series.Float, ColGrossPerceptions))
	}

	if hasAll([]string{"Base CC Anual", "Tipo Total"}) {
		bases := df.Col("Base CC Anual").Float()
		totals := df.Col("Tipo Total").Float()
		costs := make([]float64, n)
		for i := range costs {
			if math.IsNaN(bases[i]) || math.IsNaN(totals[i]) {
				costs[i] = math.NaN()
				continue
			}
			costs[i] = rates.TheoreticalSSCost(bases[i], totals[i])
		}
		df = df.Mutate(series.New(costs, series.Float, ColSSCost))
	} else {
		appLogger.Debug(component, "Skipping derived column: column=%s (missing prerequisites)", ColSSCost)
	}

	if hasAll([]string{ColGrossPerceptions, "Horas Efectivas"}) {
		gross := df.Col(ColGrossPerceptions).Float()
		hours := df.Col("Horas Efectivas").Float()
		costs := make([]float64, n)
		for i := range costs {
			costs[i] = math.NaN()
			if math.IsNaN(gross[i]) || math.IsNaN(hours[i]) {
				continue
			}
			if v, ok := rates.HourlyCost(gross[i], hours[i]); ok {
				costs[i] = v
			}
		}
		df = df.Mutate(series.New(costs, series.Float, ColHourlyCost))
	} else {
		appLogger.Debug(component, "Skipping derived column: column=%s (missing prerequisites)", ColHourlyCost)
	}

	if hasAll(cashCols) && hasAll([]string{ColSSCost, "Horas Efectivas"}) {
		cash := make([]float64, n)
		for _, c := range cashCols {
			for i, v := range df.Col(c).Float() {
				if !math.IsNaN(v) {
					cash[i] += v
				}
			}
		}
		ssCosts := df.Col(ColSSCost).Float()
		hours := df.Col("Horas Efectivas").Float()
		costs := make([]float64, n)
		for i := range costs {
			costs[i] = math.NaN()
			if math.IsNaN(ssCosts[i]) || math.IsNaN(hours[i]) {
				continue
			}
			if v, ok := rates.RealHourlyCost(cash[i], ssCosts[i], hours[i]); ok {
				costs[i] = v
			}
		}
		df = df.Mutate(series.New(costs, series.Float, ColRealHourlyCost))
	} else {
		appLogger.Debug(component, "Skipping derived column: column=%s (missing prerequisites)", ColRealHourlyCost)
	}

	return df
}
