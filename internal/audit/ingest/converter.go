package ingest

import (
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/oscarvines/unificacionsistemas/internal/audit/types"
	"github.com/oscarvines/unificacionsistemas/internal/audit/utils"
)

// DfRowToPeriod converts one row of the period extract into a
// CoveragePeriod. Alta/Baja stay raw strings; the resolver parses them
// per day so one malformed date never discards the whole period.
func DfRowToPeriod(df dataframe.DataFrame, rowIdx int) types.CoveragePeriod {
	validTo := utils.ParseDate(utils.GetStr("Hasta Info", rowIdx, &df))
	if validTo.IsZero() {
		validTo = types.OpenEnd()
	}

	alta := utils.GetStr("Alta", rowIdx, &df)
	baja := utils.GetStr("Baja", rowIdx, &df)
	if baja == "" {
		baja = types.RegistrationActive
	}

	contractStart := utils.ParseDate(utils.GetStr("Inicio Contrato", rowIdx, &df))
	if contractStart.IsZero() {
		contractStart = utils.ParseDate(alta)
	}

	return types.CoveragePeriod{
		WorkerName:   utils.GetStr("Nombre", rowIdx, &df),
		WorkerID:     utils.GetStr("DNI", rowIdx, &df),
		EmployerID:   utils.GetStr("NIF Empresa", rowIdx, &df),
		EmployerName: utils.GetStr("Empresa", rowIdx, &df),
		ContractCode: utils.GetStr("Codigo Contrato", rowIdx, &df),

		PartTimeFactor: utils.GetInt("CTP", rowIdx, &df),
		SelfEmployed:   utils.ParseBool(utils.GetStr("Autonomo", rowIdx, &df)),

		ValidFrom:     utils.ParseDate(utils.GetStr("Desde Info", rowIdx, &df)),
		ValidTo:       validTo,
		ContractStart: contractStart,

		RegistrationStart: alta,
		RegistrationEnd:   baja,

		Incapacity: utils.ParseIncapacity(utils.GetStr("Tramos IT", rowIdx, &df)),
	}
}

// TimelinesFromFrame groups the period extract into one timeline per
// worker name, ordered ascending by validity start. The earliest
// contract inception across a worker's periods is propagated to every
// period, since gap detection judges against the whole engagement.
func TimelinesFromFrame(df dataframe.DataFrame) map[string]types.WorkerTimeline {
	timelines := make(map[string]types.WorkerTimeline)
	for i := 0; i < df.Nrow(); i++ {
		p := DfRowToPeriod(df, i)
		if p.WorkerName == "" {
			continue
		}
		timelines[p.WorkerName] = append(timelines[p.WorkerName], p)
	}

	for name, tl := range timelines {
		sort.SliceStable(tl, func(i, j int) bool {
			return tl[i].ValidFrom.Before(tl[j].ValidFrom)
		})

		var earliest = tl[0].ContractStart
		for _, p := range tl[1:] {
			if p.ContractStart.IsZero() {
				continue
			}
			if earliest.IsZero() || p.ContractStart.Before(earliest) {
				earliest = p.ContractStart
			}
		}
		for i := range tl {
			tl[i].ContractStart = earliest
		}
		timelines[name] = tl
	}
	return timelines
}

// CleanMoneyColumns replaces decimal-comma text columns with float
// series. Unparseable cells become 0.0, per the absorb-and-default
// policy for single bad rows.
func CleanMoneyColumns(df dataframe.DataFrame, cols []string) dataframe.DataFrame {
	for _, col := range cols {
		if !utils.HasColumn(&df, col) {
			continue
		}
		// Already-numeric columns (dot-decimal exports) are left alone;
		// stripping their dots would multiply values by powers of ten.
		if df.Col(col).Type() != series.String {
			continue
		}
		records := df.Col(col).Records()
		values := make([]float64, len(records))
		for i, rec := range records {
			values[i] = utils.ParseFloat(rec)
		}
		df = df.Mutate(series.New(values, series.Float, col))
	}
	return df
}
