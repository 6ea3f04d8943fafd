package consolidate

import (
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/oscarvines/unificacionsistemas/internal/audit/utils"
)

// SummaryColumns are the numeric report columns worth a statistical
// overview at the end of a run.
var SummaryColumns = []string{
	"Horas Efectivas",
	"Dias IT",
	ColGrossPerceptions,
	ColSSCost,
	ColHourlyCost,
	ColRealHourlyCost,
}

type ColumnSummary struct {
	Name   string  `json:"name"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

type ReportSummary struct {
	Rows    int             `json:"rows"`
	Columns []ColumnSummary `json:"columns"`
}

// Summarize computes descriptive statistics over the consolidated
// report's numeric columns. NaN cells (unmatched joins, undefined
// metrics) are excluded from every statistic.
func Summarize(df dataframe.DataFrame, columns []string) ReportSummary {
	summary := ReportSummary{Rows: df.Nrow()}
	if len(columns) == 0 {
		columns = SummaryColumns
	}

	for _, name := range columns {
		if !utils.HasColumn(&df, name) {
			continue
		}
		var values []float64
		for _, v := range df.Col(name).Float() {
			if !math.IsNaN(v) {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			summary.Columns = append(summary.Columns, ColumnSummary{Name: name})
			continue
		}
		sort.Float64s(values)
		stdDev := 0.0
		if len(values) > 1 {
			stdDev = stat.StdDev(values, nil)
		}
		summary.Columns = append(summary.Columns, ColumnSummary{
			Name:   name,
			Count:  len(values),
			Mean:   stat.Mean(values, nil),
			StdDev: stdDev,
			Median: stat.Quantile(0.5, stat.Empirical, values, nil),
			Min:    floats.Min(values),
			Max:    floats.Max(values),
		})
	}
	return summary
}
