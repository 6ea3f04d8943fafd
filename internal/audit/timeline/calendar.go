package timeline

import "time"

// IsLeapYear applies the full Gregorian rule: divisible by 4, except
// centuries not divisible by 400. 1900 is not a leap year; 2000 is.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

func StartOfYear(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}
