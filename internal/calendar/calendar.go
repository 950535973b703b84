package calendar

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/AngelCh415/verification-stats/internal/models"
)

const (
	MonthLayout = "2006-01"
	DayLayout   = "2006-01-02"
)

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"1/2/2006",
	"01/02/2006",
	"1/2/2006 15:04",
	"1/2/2006 3:04:05 PM",
	"01-02-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"Mon, 02 Jan 2006 15:04:05 MST",
	"Mon Jan 2 2006",
}

// excelEpoch is day 0 of the 1900 date system once the phantom 1900-02-29 is skipped.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseDate turns a cell into a UTC calendar day. Native dates are used as-is,
// numbers are spreadsheet serials (time of day dropped), text goes through a
// list of common layouts. Anything else yields ok=false.
func ParseDate(v models.Value) (time.Time, bool) {
	switch v.Kind {
	case models.KindDate:
		if v.Time.IsZero() {
			return time.Time{}, false
		}
		return Day(v.Time), true
	case models.KindNumber:
		return FromSerial(v.Num)
	case models.KindText:
		return parseText(v.Text)
	}
	return time.Time{}, false
}

// FromSerial converts a 1900-system spreadsheet serial to its calendar day.
// Serials 1..59 predate the phantom leap day and sit one day later than the epoch math.
func FromSerial(serial float64) (time.Time, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 1 || serial > 2958465 {
		return time.Time{}, false
	}
	days := int(math.Floor(serial))
	if days < 60 {
		return excelEpoch.AddDate(0, 0, days+1), true
	}
	if days == 60 {
		return time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC), true
	}
	return excelEpoch.AddDate(0, 0, days), true
}

func parseText(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), true
		}
	}
	return time.Time{}, false
}

// Day truncates t to midnight of its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthKey is YYYY-MM of the UTC day.
func MonthKey(t time.Time) string { return t.UTC().Format(MonthLayout) }

// WeekKey is the YYYY-MM-DD of the Sunday on or before the UTC day.
func WeekKey(t time.Time) string {
	d := Day(t)
	return d.AddDate(0, 0, -int(d.Weekday())).Format(DayLayout)
}

// Series builds a key-ordered series from a count map. YYYY-MM and
// YYYY-MM-DD keys sort chronologically as strings.
func Series(counts map[string]int) []models.Point {
	keys := lo.Keys(counts)
	slices.Sort(keys)
	return lo.Map(keys, func(k string, _ int) models.Point {
		return models.Point{Key: k, Count: counts[k]}
	})
}

// TrimLeading drops the run of zero-count points before the first non-zero
// one. An all-zero series comes back unchanged.
func TrimLeading(series []models.Point) []models.Point {
	_, idx, ok := lo.FindIndexOf(series, func(p models.Point) bool { return p.Count > 0 })
	if !ok {
		return series
	}
	return series[idx:]
}

// DurationDays is the inclusive day span of r, at least 1. A zero range is 1 day.
func DurationDays(r models.DateRange) int {
	if r.IsZero() {
		return 1
	}
	// Unix seconds, not Sub: a Duration saturates past ~292 years.
	days := int(math.Round(float64(r.Max.Unix()-r.Min.Unix())/86400)) + 1
	return max(1, days)
}

// DurationWeeks is ceil(days/7), at least 1.
func DurationWeeks(days int) int {
	return max(1, int(math.Ceil(float64(days)/7)))
}

// ParseMonth parses a YYYY-MM key.
func ParseMonth(key string) (time.Time, bool) {
	t, err := time.Parse(MonthLayout, key)
	return t, err == nil
}
