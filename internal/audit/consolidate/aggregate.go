package consolidate

import (
	"math"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// aggregateByKey collapses a keyed source to one row per join key:
// numeric columns are summed, everything else keeps the first value
// seen. Group order follows first appearance, keeping runs
// deterministic.
func aggregateByKey(df dataframe.DataFrame) dataframe.DataFrame {
	if df.Nrow() <= 1 {
		return df
	}

	keyRecords := df.Col(ColJoinKey).Records()
	groupIndex := make(map[string]int, len(keyRecords))
	var order []string
	for _, k := range keyRecords {
		if _, ok := groupIndex[k]; !ok {
			groupIndex[k] = len(order)
			order = append(order, k)
		}
	}
	if len(order) == df.Nrow() {
		return df
	}

	names := df.Names()
	colTypes := df.Types()
	out := make([]series.Series, 0, len(names))

	for ci, name := range names {
		records := df.Col(name).Records()
		switch colTypes[ci] {
		case series.Float:
			sums := make([]float64, len(order))
			for ri, rec := range records {
				v, err := strconv.ParseFloat(rec, 64)
				if err != nil || math.IsNaN(v) {
					continue
				}
				sums[groupIndex[keyRecords[ri]]] += v
			}
			out = append(out, series.New(sums, series.Float, name))
		case series.Int:
			sums := make([]int, len(order))
			for ri, rec := range records {
				v, err := strconv.Atoi(rec)
				if err != nil {
					continue
				}
				sums[groupIndex[keyRecords[ri]]] += v
			}
			out = append(out, series.New(sums, series.Int, name))
		default:
			firsts := make([]string, len(order))
			seen := make([]bool, len(order))
			for ri, rec := range records {
				gi := groupIndex[keyRecords[ri]]
				if !seen[gi] {
					firsts[gi] = rec
					seen[gi] = true
				}
			}
			out = append(out, series.New(firsts, colTypes[ci], name))
		}
	}

	return dataframe.New(out...)
}
