package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oscarvines/unificacionsistemas/internal/audit/types"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGoverningLaterDocumentWins(t *testing.T) {
	// A corrected document overlaps the stale one; for overlapped days
	// the later-supplied record must govern.
	tl := types.WorkerTimeline{
		{
			EmployerName:      "ACME SL",
			ValidFrom:         day(2024, time.January, 1),
			ValidTo:           types.OpenEnd(),
			RegistrationStart: "01-01-2024",
			RegistrationEnd:   "15-02-2024",
		},
		{
			EmployerName:      "ACME SL",
			ValidFrom:         day(2024, time.February, 10),
			ValidTo:           types.OpenEnd(),
			RegistrationStart: "01-01-2024",
			RegistrationEnd:   types.RegistrationActive,
		},
	}

	p, ok := Governing(tl, day(2024, time.February, 12))
	require.True(t, ok)
	assert.Equal(t, types.RegistrationActive, p.RegistrationEnd)

	p, ok = Governing(tl, day(2024, time.February, 1))
	require.True(t, ok)
	assert.Equal(t, "15-02-2024", p.RegistrationEnd)
}

func TestGoverningNoCoverage(t *testing.T) {
	tl := types.WorkerTimeline{
		{
			ValidFrom: day(2024, time.March, 1),
			ValidTo:   day(2024, time.May, 31),
		},
	}

	_, ok := Governing(tl, day(2024, time.February, 1))
	assert.False(t, ok)
	_, ok = Governing(tl, day(2024, time.June, 1))
	assert.False(t, ok)
	_, ok = Governing(tl, day(2024, time.March, 1))
	assert.True(t, ok)
}

func TestRegistrationActive(t *testing.T) {
	p := &types.CoveragePeriod{
		RegistrationStart: "15-03-2024",
		RegistrationEnd:   "20-06-2024",
	}

	for _, tt := range []struct {
		day    time.Time
		active bool
	}{
		{day(2024, time.March, 14), false},
		{day(2024, time.March, 15), true},
		{day(2024, time.June, 20), true},
		{day(2024, time.June, 21), false},
	} {
		got, err := RegistrationActive(p, tt.day)
		require.NoError(t, err)
		assert.Equal(t, tt.active, got, "day %s", tt.day)
	}
}

func TestRegistrationActiveOpenEnded(t *testing.T) {
	p := &types.CoveragePeriod{
		RegistrationStart: "01-01-2020",
		RegistrationEnd:   types.RegistrationActive,
	}

	got, err := RegistrationActive(p, day(2024, time.December, 31))
	require.NoError(t, err)
	assert.True(t, got)
}

func TestRegistrationActiveMalformedDates(t *testing.T) {
	_, err := RegistrationActive(&types.CoveragePeriod{
		RegistrationStart: "pendiente",
		RegistrationEnd:   types.RegistrationActive,
	}, day(2024, time.June, 1))
	assert.Error(t, err)

	_, err = RegistrationActive(&types.CoveragePeriod{
		RegistrationStart: "01-01-2024",
		RegistrationEnd:   "??",
	}, day(2024, time.June, 1))
	assert.Error(t, err)
}

func TestIncapacityActive(t *testing.T) {
	p := &types.CoveragePeriod{
		Incapacity: []types.DateRange{
			{Start: day(2024, time.March, 1), End: day(2024, time.March, 10)},
		},
	}

	assert.True(t, IncapacityActive(p, day(2024, time.March, 1)))
	assert.True(t, IncapacityActive(p, day(2024, time.March, 10)))
	assert.False(t, IncapacityActive(p, day(2024, time.March, 11)))

	t.Run("self-employed never counts incapacity", func(t *testing.T) {
		selfEmployed := &types.CoveragePeriod{
			SelfEmployed: true,
			Incapacity:   p.Incapacity,
		}
		assert.False(t, IncapacityActive(selfEmployed, day(2024, time.March, 5)))
	})
}
