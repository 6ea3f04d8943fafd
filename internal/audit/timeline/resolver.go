package timeline

import (
	"time"

	"github.com/oscarvines/unificacionsistemas/internal/audit/types"
	"github.com/oscarvines/unificacionsistemas/internal/audit/utils"
)

// Governing selects the period that governs the given day: scanning
// from the latest ValidFrom backward, the first period whose validity
// window contains the day wins. When corrected documents overlap, the
// later-supplied information overrides the stale record for that day.
// Returns false when no period covers the day.
func Governing(tl types.WorkerTimeline, day time.Time) (*types.CoveragePeriod, bool) {
	for i := len(tl) - 1; i >= 0; i-- {
		p := &tl[i]
		if !day.Before(p.ValidFrom) && !day.After(p.ValidTo) {
			return p, true
		}
	}
	return nil, false
}

// RegistrationActive reports whether the worker is actually registered
// on the day under the governing period. The raw Alta/Baja strings are
// parsed here so that a malformed date costs only the days resolved
// against it, not the whole run; the ACTIVO sentinel means the
// registration is still open.
func RegistrationActive(p *types.CoveragePeriod, day time.Time) (bool, error) {
	start, err := utils.ParseStrictDate(p.RegistrationStart)
	if err != nil {
		return false, err
	}
	end := types.OpenEnd()
	if p.RegistrationEnd != types.RegistrationActive {
		end, err = utils.ParseStrictDate(p.RegistrationEnd)
		if err != nil {
			return false, err
		}
	}
	return !day.Before(start) && !day.After(end), nil
}

// IncapacityActive reports whether the day falls inside any of the
// period's incapacity intervals. Self-employed periods are never
// incapacity-active regardless of what the document carried.
func IncapacityActive(p *types.CoveragePeriod, day time.Time) bool {
	if p.SelfEmployed {
		return false
	}
	for _, r := range p.Incapacity {
		if r.Contains(day) {
			return true
		}
	}
	return false
}
