package timeline

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oscarvines/unificacionsistemas/internal/audit/identity"
	"github.com/oscarvines/unificacionsistemas/internal/audit/types"
)

// Params configures one reconciliation run. ManualEmployerName/ID
// replace the employer fields for self-employed workers, whose
// documents carry no employer of their own.
type Params struct {
	Year        int
	AnnualHours float64

	ManualEmployerName string
	ManualEmployerID   string
}

var thousand = decimal.NewFromInt(1000)

func dedicationFactor(p *types.CoveragePeriod) decimal.Decimal {
	if p.SelfEmployed || p.PartTimeFactor == 0 || p.PartTimeFactor == 1000 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(int64(p.PartTimeFactor)).Div(thousand)
}

func earliestContractStart(tl types.WorkerTimeline) time.Time {
	var earliest time.Time
	for _, p := range tl {
		if p.ContractStart.IsZero() {
			continue
		}
		if earliest.IsZero() || p.ContractStart.Before(earliest) {
			earliest = p.ContractStart
		}
	}
	return earliest
}

// Reconcile walks every calendar day of the audit year for one worker
// and produces the per-year audit row. The daily rate is the annual
// convention hours spread over the audit year's own day count. Workers
// with zero registration-active days produce no row (ok=false).
//
// Pure computation: no I/O happens here, so callers may reconcile many
// workers concurrently.
func Reconcile(tl types.WorkerTimeline, params Params) (types.AuditRow, bool) {
	if len(tl) == 0 {
		return types.AuditRow{}, false
	}

	periods := make(types.WorkerTimeline, len(tl))
	copy(periods, tl)
	sort.SliceStable(periods, func(i, j int) bool {
		return periods[i].ValidFrom.Before(periods[j].ValidFrom)
	})

	days := DaysInYear(params.Year)
	dailyRate := decimal.NewFromFloat(params.AnnualHours).Div(decimal.NewFromInt(int64(days)))
	contractStart := earliestContractStart(periods)

	theoretical := decimal.Zero
	incapacity := decimal.Zero
	activeDays := 0
	incapacityDays := 0
	complete := true
	var firstActive, lastActive time.Time

	start := StartOfYear(params.Year)
	for d := 0; d < days; d++ {
		day := start.AddDate(0, 0, d)

		governed := false
		p, ok := Governing(periods, day)
		if ok {
			active, err := RegistrationActive(p, day)
			if err == nil {
				governed = true
				if active {
					activeDays++
					if firstActive.IsZero() {
						firstActive = day
					}
					lastActive = day

					hours := dailyRate.Mul(dedicationFactor(p))
					theoretical = theoretical.Add(hours)
					if IncapacityActive(p, day) {
						incapacityDays++
						incapacity = incapacity.Add(hours)
					}
				}
			}
		}

		// A day nobody governs after contract inception is a true
		// coverage gap.
		if !governed && !contractStart.IsZero() && !day.Before(contractStart) {
			complete = false
		}
	}

	if activeDays == 0 {
		return types.AuditRow{}, false
	}

	first := periods[0]
	last := periods[len(periods)-1]

	row := types.AuditRow{
		WorkerName:   first.WorkerName,
		WorkerKey:    identity.Normalize(first.WorkerID),
		EmployerID:   first.EmployerID,
		EmployerName: first.EmployerName,
		Year:         params.Year,

		IncapacityDays: incapacityDays,
		ActiveDays:     activeDays,
		FirstActiveDay: firstActive.Format(time.DateOnly),
		LastActiveDay:  lastActive.Format(time.DateOnly),
		Complete:       complete,

		ContractCode: first.ContractCode,
		SelfEmployed: first.SelfEmployed,
	}

	theoreticalRounded := theoretical.Round(2)
	incapacityRounded := incapacity.Round(2)
	row.TheoreticalHours = theoreticalRounded.InexactFloat64()
	row.IncapacityHours = incapacityRounded.InexactFloat64()
	row.EffectiveHours = theoreticalRounded.Sub(incapacityRounded).InexactFloat64()

	if last.SelfEmployed || last.PartTimeFactor == 0 || last.PartTimeFactor == 1000 {
		row.DedicationPct = 100.0
	} else {
		row.DedicationPct = decimal.NewFromInt(int64(last.PartTimeFactor)).
			Div(decimal.NewFromInt(10)).Round(2).InexactFloat64()
	}

	if first.SelfEmployed {
		if params.ManualEmployerName != "" {
			row.EmployerName = params.ManualEmployerName
		}
		if params.ManualEmployerID != "" {
			row.EmployerID = params.ManualEmployerID
		}
	}

	return row, true
}
