package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"dashed spanish order", "15-02-2024", time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC)},
		{"slashed spanish order", "15/02/2024", time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC)},
		{"iso", "2024-02-15", time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC)},
		{"padded", " 01-01-2024 ", time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"empty", "", time.Time{}},
		{"garbage", "pending", time.Time{}},
		{"impossible day", "32-01-2024", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDate(tt.raw))
		})
	}
}

func TestParseStrictDate(t *testing.T) {
	got, err := ParseStrictDate("01-03-2024")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseStrictDate("")
	assert.Error(t, err)

	_, err = ParseStrictDate("99-99-9999")
	assert.Error(t, err)
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"decimal comma", "1234,56", 1234.56},
		{"thousands and comma", "1.234,56", 1234.56},
		{"plain integer", "1500", 1500},
		{"empty", "", 0},
		{"not available", "N/A", 0},
		{"garbage", "sin datos", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseFloat(tt.raw), 0.0001)
		})
	}
}

func TestParseBool(t *testing.T) {
	assert.True(t, ParseBool("Si"))
	assert.True(t, ParseBool("sí"))
	assert.True(t, ParseBool("true"))
	assert.True(t, ParseBool("1"))
	assert.False(t, ParseBool("No"))
	assert.False(t, ParseBool(""))
}

func TestParseIncapacity(t *testing.T) {
	ranges := ParseIncapacity("01-03-2024/10-03-2024|01-06-2024/05-06-2024")
	require.Len(t, ranges, 2)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), ranges[0].Start)
	assert.Equal(t, time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC), ranges[0].End)
	assert.Equal(t, time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC), ranges[1].End)

	t.Run("malformed pairs are dropped", func(t *testing.T) {
		ranges := ParseIncapacity("garbage|01-03-2024/10-03-2024|10-04-2024/01-04-2024")
		require.Len(t, ranges, 1)
		assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), ranges[0].Start)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, ParseIncapacity(""))
	})
}
