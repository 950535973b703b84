package period

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/AngelCh415/verification-stats/internal/calendar"
	"github.com/AngelCh415/verification-stats/internal/campaign"
	"github.com/AngelCh415/verification-stats/internal/models"
)

var (
	ErrInvalidStatus = errors.New("invalid status filter")
	ErrInvalidMonth  = errors.New("invalid month filter")
)

// ParseFilter validates raw month/status selections. Blank values mean All.
// The status must be one of the four buckets exactly; the month must be All
// or a YYYY-MM key, observed or not.
func ParseFilter(month, status string) (models.Filter, error) {
	f := models.Filter{Month: strings.TrimSpace(month), Status: strings.TrimSpace(status)}
	if f.Month == "" {
		f.Month = models.All
	}
	if f.Status == "" {
		f.Status = models.All
	}
	if f.Status != models.All && !lo.Contains(models.Buckets, f.Status) {
		return models.Filter{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if f.Month != models.All && !isMonthKey(f.Month) {
		return models.Filter{}, fmt.Errorf("%w: %q", ErrInvalidMonth, month)
	}
	return f, nil
}

func isMonthKey(s string) bool {
	if len(s) != len(calendar.MonthLayout) {
		return false
	}
	_, ok := calendar.ParseMonth(s)
	return ok
}

// Options lists the selectable months (All + the overall monthly keys) and statuses.
func Options(agg models.OverallAggregate) (months []string, statuses []string) {
	months = append([]string{models.All}, lo.Map(agg.Monthly, func(p models.Point, _ int) string { return p.Key })...)
	statuses = append([]string{models.All}, models.Buckets...)
	return months, statuses
}

type totals struct {
	counts   models.StatusCounts
	span     models.DateRange
	stewards []models.StewardCount
}

func periodTotals(agg models.OverallAggregate, month string) totals {
	if month == models.All {
		t := totals{counts: agg.Counts, stewards: agg.NamedStewards}
		if agg.MinDate != nil && agg.MaxDate != nil {
			t.span = models.DateRange{Min: *agg.MinDate, Max: *agg.MaxDate}
		}
		return t
	}
	mb, ok := agg.Months[month]
	if !ok {
		return totals{stewards: []models.StewardCount{}}
	}
	return totals{counts: mb.Counts, span: mb.Range, stewards: campaign.RankStewards(mb.Stewards)}
}

// Resolve derives the Period View for f. It only reads agg and never fails:
// a month without a breakdown produces zero counts and a nil range.
func Resolve(agg models.OverallAggregate, f models.Filter) models.PeriodView {
	t := periodTotals(agg, f.Month)
	total := t.counts.Total

	v := models.PeriodView{
		Filter:   f,
		Total:    total,
		Counts:   t.counts,
		Stewards: t.stewards,
	}

	if f.Status == models.All {
		v.SelectedCount = total
		rate := ratio(t.counts.Verified, total)
		v.VerifiedRate = &rate
		v.StatusMix = lo.Map(models.Buckets, func(b string, _ int) models.BucketCount {
			return models.BucketCount{Bucket: b, Count: t.counts.Get(b)}
		})
	} else {
		v.SelectedCount = t.counts.Get(f.Status)
		share := ratio(v.SelectedCount, total)
		v.SelectedShare = &share
		v.StatusMix = []models.BucketCount{
			{Bucket: f.Status, Count: v.SelectedCount},
			{Bucket: "Other statuses", Count: total - v.SelectedCount},
		}
	}

	if !t.span.IsZero() {
		r := t.span
		v.Range = &r
	}
	v.DurationDays = calendar.DurationDays(t.span)
	v.DurationWeeks = calendar.DurationWeeks(v.DurationDays)
	v.AvgPerWeek = float64(total) / float64(v.DurationWeeks)
	v.Pace = float64(total) / float64(v.DurationDays)

	v.ActiveStewards = len(t.stewards)
	if v.ActiveStewards > 0 {
		v.AvgPerStewardPerWeek = float64(total) / float64(v.DurationWeeks*v.ActiveStewards)
	}
	v.TopShare = campaign.TopShare(t.stewards, total)
	v.Median = campaign.Median(t.stewards)

	v.Monthly, v.Weekly = agg.Monthly, agg.Weekly
	if f.Month != models.All {
		v.Monthly = lo.Filter(agg.Monthly, func(p models.Point, _ int) bool { return p.Key == f.Month })
		v.Weekly = lo.Filter(agg.Weekly, func(p models.Point, _ int) bool { return strings.HasPrefix(p.Key, f.Month) })
	}
	v.Volatility = campaign.StdDev(v.Monthly, true)
	v.PeakMonth = campaign.Peak(v.Monthly)
	v.PeakWeek = campaign.Peak(v.Weekly)
	return v
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
