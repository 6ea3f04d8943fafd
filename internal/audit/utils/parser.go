package utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/oscarvines/unificacionsistemas/internal/audit/types"
)

var dateLayouts = []string{
	"02-01-2006",
	"02/01/2006",
	"2006-01-02",
}

// ParseDate accepts the date formats the extractors emit (dd-mm-yyyy
// first, since that is what Spanish social-security documents carry).
// Returns the zero time on anything unparseable.
func ParseDate(dateStr string) time.Time {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, dateStr)
		if err == nil {
			return t
		}
	}
	return time.Time{}
}

// ParseStrictDate is ParseDate with the error kept, for callers that
// must distinguish "malformed" from "zero value".
func ParseStrictDate(dateStr string) (time.Time, error) {
	var firstErr error
	dateStr = strings.TrimSpace(dateStr)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, dateStr)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// ParseFloat converts decimal-comma money text ("1.234,56") to a
// float64. Bad or empty input yields 0.0 rather than an error.
func ParseFloat(valStr string) float64 {
	valStr = strings.TrimSpace(valStr)
	if valStr == "" || valStr == "N/A" {
		return 0.0
	}
	cleanStr := strings.ReplaceAll(valStr, ".", "")
	cleanStr = strings.ReplaceAll(cleanStr, ",", ".")
	val, err := strconv.ParseFloat(cleanStr, 64)
	if err != nil {
		return 0.0
	}
	return val
}

func ParseInt(valStr string) int {
	valStr = strings.TrimSpace(valStr)
	if valStr == "" {
		return 0
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0
	}
	return val
}

func ParseBool(valStr string) bool {
	return strings.EqualFold(valStr, "Si") || strings.EqualFold(valStr, "Sí") ||
		strings.EqualFold(valStr, "true") || valStr == "1"
}

// ParseIncapacity decodes the incapacity-interval encoding used by the
// period extracts: "dd-mm-yyyy/dd-mm-yyyy" pairs joined with "|".
// Malformed pairs are dropped; the remaining intervals keep their order.
func ParseIncapacity(encoded string) []types.DateRange {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil
	}
	var ranges []types.DateRange
	for _, pair := range strings.Split(encoded, "|") {
		parts := strings.SplitN(pair, "/", 2)
		if len(parts) != 2 {
			continue
		}
		start := ParseDate(parts[0])
		end := ParseDate(parts[1])
		if start.IsZero() || end.IsZero() || end.Before(start) {
			continue
		}
		ranges = append(ranges, types.DateRange{Start: start, End: end})
	}
	return ranges
}
