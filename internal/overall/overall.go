package overall

import (
	"time"

	"github.com/samber/lo"

	"github.com/AngelCh415/verification-stats/internal/calendar"
	"github.com/AngelCh415/verification-stats/internal/campaign"
	"github.com/AngelCh415/verification-stats/internal/models"
)

// Aggregate rebuilds the overall view from every loaded summary. Nothing is
// carried over from a previous call; summaries are read, never modified.
func Aggregate(loaded []*models.CampaignSummary) models.OverallAggregate {
	var (
		counts   models.StatusCounts
		span     models.DateRange
		monthly  = map[string]int{}
		weekly   = map[string]int{}
		stewards = map[string]int{}
		months   = map[string]models.MonthBreakdown{}
	)
	for _, c := range loaded {
		counts = counts.Plus(c.Counts)
		if c.MinDate != nil && c.MaxDate != nil {
			span = span.Union(models.DateRange{Min: *c.MinDate, Max: *c.MaxDate})
		}
		addSeries(monthly, c.Monthly)
		addSeries(weekly, c.Weekly)
		addCounts(stewards, c.StewardCounts)
		for ym, mb := range c.Months {
			months[ym] = mergeMonth(months[ym], mb)
		}
	}

	agg := models.OverallAggregate{
		Campaigns:     len(loaded),
		Total:         lo.SumBy(loaded, func(c *models.CampaignSummary) int { return c.Total }),
		Counts:        counts,
		Monthly:       calendar.TrimLeading(calendar.Series(monthly)),
		Weekly:        calendar.TrimLeading(calendar.Series(weekly)),
		StewardCounts: stewards,
		NamedStewards: campaign.RankStewards(stewards),
		Months:        months,
	}
	if !span.IsZero() {
		agg.MinDate, agg.MaxDate = timePtr(span.Min), timePtr(span.Max)
	}
	return agg
}

// mergeMonth returns a new breakdown; neither input map is written to.
func mergeMonth(acc, mb models.MonthBreakdown) models.MonthBreakdown {
	stewards := make(map[string]int, len(acc.Stewards)+len(mb.Stewards))
	addCounts(stewards, acc.Stewards)
	addCounts(stewards, mb.Stewards)
	return models.MonthBreakdown{
		Counts:   acc.Counts.Plus(mb.Counts),
		Stewards: stewards,
		Range:    acc.Range.Union(mb.Range),
	}
}

func addSeries(dst map[string]int, series []models.Point) {
	for _, p := range series {
		dst[p.Key] += p.Count
	}
}

func addCounts(dst, src map[string]int) {
	for k, n := range src {
		dst[k] += n
	}
}

func timePtr(t time.Time) *time.Time { return &t }
