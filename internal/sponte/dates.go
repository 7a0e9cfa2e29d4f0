package sponte

import (
	"strings"
	"time"
)

// Date handling policy: upstream timestamps are ISO 8601; operator-supplied
// dates follow the Brazilian dayfirst convention, with ISO accepted as well.

var apiDateLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
}

var inputDateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
}

// ParseAPIDate parses a timestamp as shipped by the Sponte API. Returns
// false for empty or malformed input; callers skip such rows.
func ParseAPIDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range apiDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseInputDate parses an operator-supplied date, dayfirst form preferred.
func ParseInputDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range inputDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatAPIDate renders a date the way Sponte query parameters expect it.
func FormatAPIDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// MonthRange returns the first and last day of a month.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}
