package campaign

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/AngelCh415/verification-stats/internal/calendar"
	"github.com/AngelCh415/verification-stats/internal/columns"
	"github.com/AngelCh415/verification-stats/internal/models"
)

// Aggregate builds the summary of one campaign from its selected table.
// It is pure: the same table always yields an equal summary.
func Aggregate(id string, table models.Table, aliases columns.RoleAliases) (*models.CampaignSummary, error) {
	if len(table.Rows) == 0 {
		return nil, &EmptyCampaignError{Campaign: id}
	}
	res := columns.Resolve(table.Headers, aliases)
	if missing := res.Missing(); len(missing) > 0 {
		return nil, &MissingColumnsError{Campaign: id, Missing: missing}
	}
	entries := Dedupe(Extract(table.Rows, res))
	return summarize(id, entries, res.Has(models.RoleSteward)), nil
}

func summarize(id string, entries []Entry, hasSteward bool) *models.CampaignSummary {
	var (
		counts    models.StatusCounts
		span      models.DateRange
		monthly   = map[string]int{}
		weekly    = map[string]int{}
		stewards  = map[string]int{}
		breakdown = map[string]models.MonthBreakdown{}
	)
	for _, e := range entries {
		counts.Add(e.Status)
		if hasSteward {
			stewards[e.Steward]++
		}
		if !e.Dated {
			continue
		}
		span = span.Extend(e.Date)
		ym := calendar.MonthKey(e.Date)
		monthly[ym]++
		weekly[calendar.WeekKey(e.Date)]++

		mb, ok := breakdown[ym]
		if !ok {
			mb.Stewards = map[string]int{}
		}
		mb.Counts.Add(e.Status)
		mb.Range = mb.Range.Extend(e.Date)
		if hasSteward {
			mb.Stewards[e.Steward]++
		}
		breakdown[ym] = mb
	}

	total := len(entries)
	s := &models.CampaignSummary{
		ID:            id,
		Title:         Title(id),
		Total:         total,
		Counts:        counts,
		VerifiedRate:  ratio(counts.Verified, total),
		Monthly:       calendar.TrimLeading(calendar.Series(monthly)),
		Weekly:        calendar.TrimLeading(calendar.Series(weekly)),
		StewardCounts: stewards,
		NamedStewards: RankStewards(stewards),
		HasSteward:    hasSteward,
		Months:        breakdown,
	}
	if !span.IsZero() {
		s.MinDate, s.MaxDate = timePtr(span.Min), timePtr(span.Max)
	}

	s.DurationDays = calendar.DurationDays(span)
	s.DurationWeeks = calendar.DurationWeeks(s.DurationDays)
	s.AvgPerWeek = float64(total) / float64(s.DurationWeeks)

	active := len(s.NamedStewards)
	if active == 0 && hasSteward {
		active = 1
	}
	if active > 0 {
		s.AvgPerStewardPerWeek = float64(total) / float64(s.DurationWeeks*active)
	}

	s.Insights = models.Insights{
		TopShare:       TopShare(s.NamedStewards, total),
		Median:         Median(s.NamedStewards),
		Std:            StdDev(s.Monthly, false),
		ActiveStewards: active,
		Pace:           float64(total) / float64(s.DurationDays),
	}
	if p := Peak(s.Monthly); p != nil {
		s.Insights.PeakMonth, s.Insights.PeakVal = p.Key, p.Count
	}
	return s
}

var separators = regexp.MustCompile(`[_-]+`)

// Title turns a campaign file name into a display title.
func Title(file string) string {
	name := file
	switch strings.ToLower(filepath.Ext(file)) {
	case ".xlsx", ".csv", ".json":
		name = strings.TrimSuffix(file, filepath.Ext(file))
	}
	name = separators.ReplaceAllString(name, " ")
	return strings.Join(strings.Fields(name), " ")
}

func timePtr(t time.Time) *time.Time { return &t }
