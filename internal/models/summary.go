package models

import "time"

// StatusCounts holds a total plus one counter per status bucket.
type StatusCounts struct {
	Total          int `json:"total"`
	Verified       int `json:"verified"`
	Reviewed       int `json:"reviewed"`
	CouldNotVerify int `json:"could_not_verify"`
	Other          int `json:"other"`
}

// Add counts one row in bucket.
func (c *StatusCounts) Add(bucket string) {
	c.Total++
	switch bucket {
	case StatusVerified:
		c.Verified++
	case StatusReviewed:
		c.Reviewed++
	case StatusCouldNotVerify:
		c.CouldNotVerify++
	default:
		c.Other++
	}
}

// Get returns the counter for bucket, or 0 for an unknown bucket name.
func (c StatusCounts) Get(bucket string) int {
	switch bucket {
	case StatusVerified:
		return c.Verified
	case StatusReviewed:
		return c.Reviewed
	case StatusCouldNotVerify:
		return c.CouldNotVerify
	case StatusOther:
		return c.Other
	}
	return 0
}

func (c StatusCounts) Plus(o StatusCounts) StatusCounts {
	return StatusCounts{
		Total:          c.Total + o.Total,
		Verified:       c.Verified + o.Verified,
		Reviewed:       c.Reviewed + o.Reviewed,
		CouldNotVerify: c.CouldNotVerify + o.CouldNotVerify,
		Other:          c.Other + o.Other,
	}
}

// Point is one entry of a month- or week-keyed series.
type Point struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// DateRange is an inclusive range of UTC calendar days.
type DateRange struct {
	Min time.Time `json:"min"`
	Max time.Time `json:"max"`
}

// Extend widens the range to cover d. A zero range becomes [d, d].
func (r DateRange) Extend(d time.Time) DateRange {
	if r.Min.IsZero() || d.Before(r.Min) {
		r.Min = d
	}
	if r.Max.IsZero() || d.After(r.Max) {
		r.Max = d
	}
	return r
}

// Union takes the min of mins and the max of maxes.
func (r DateRange) Union(o DateRange) DateRange {
	if o.IsZero() {
		return r
	}
	return r.Extend(o.Min).Extend(o.Max)
}

func (r DateRange) IsZero() bool { return r.Min.IsZero() || r.Max.IsZero() }

// MonthBreakdown is the per-month status, steward and date-range record.
type MonthBreakdown struct {
	Counts   StatusCounts   `json:"counts"`
	Stewards map[string]int `json:"stewards"`
	Range    DateRange      `json:"range"`
}

// StewardCount is one entry of a steward ranking.
type StewardCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// BucketCount is one slice of a status mix.
type BucketCount struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

type Insights struct {
	TopShare       float64 `json:"top_share"`
	Median         int     `json:"median"`
	Std            float64 `json:"std"`
	ActiveStewards int     `json:"active_stewards"`
	PeakMonth      string  `json:"peak_month,omitempty"`
	PeakVal        int     `json:"peak_val"`
	Pace           float64 `json:"pace"`
}

// CampaignSummary is the immutable aggregate of one campaign's deduplicated rows.
type CampaignSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`

	Total        int          `json:"total"`
	Counts       StatusCounts `json:"counts"`
	VerifiedRate float64      `json:"verified_rate"`
	MinDate      *time.Time   `json:"min_date"`
	MaxDate      *time.Time   `json:"max_date"`

	Monthly []Point `json:"monthly"`
	Weekly  []Point `json:"weekly"`

	// StewardCounts includes Unknown; NamedStewards is the ranking without it.
	StewardCounts map[string]int `json:"steward_counts"`
	NamedStewards []StewardCount `json:"named_stewards"`
	HasSteward    bool           `json:"has_steward"`

	Months map[string]MonthBreakdown `json:"months"`

	DurationDays         int     `json:"duration_days"`
	DurationWeeks        int     `json:"duration_weeks"`
	AvgPerWeek           float64 `json:"avg_per_week"`
	AvgPerStewardPerWeek float64 `json:"avg_per_steward_per_week"`

	Insights Insights `json:"insights"`
}

// OverallAggregate is the sum of every currently loaded CampaignSummary.
type OverallAggregate struct {
	Campaigns     int                       `json:"campaigns"`
	Total         int                       `json:"total"`
	Counts        StatusCounts              `json:"counts"`
	MinDate       *time.Time                `json:"min_date"`
	MaxDate       *time.Time                `json:"max_date"`
	Monthly       []Point                   `json:"monthly"`
	Weekly        []Point                   `json:"weekly"`
	StewardCounts map[string]int            `json:"steward_counts"`
	NamedStewards []StewardCount            `json:"named_stewards"`
	Months        map[string]MonthBreakdown `json:"months"`
}

// All is the wildcard value for both filter dimensions.
const All = "ALL"

// Filter selects a month key (or All) and a status bucket (or All).
type Filter struct {
	Month  string `json:"month"`
	Status string `json:"status"`
}

// PeriodView is the Overall Aggregate re-derived under a Filter.
type PeriodView struct {
	Filter        Filter       `json:"filter"`
	Total         int          `json:"total"`
	Counts        StatusCounts `json:"counts"`
	SelectedCount int          `json:"selected_count"`
	// Exactly one of VerifiedRate and SelectedShare is set.
	VerifiedRate  *float64 `json:"verified_rate,omitempty"`
	SelectedShare *float64 `json:"selected_share,omitempty"`
	// StatusMix is [selected, rest] when a status is selected, the four buckets otherwise.
	StatusMix []BucketCount `json:"status_mix"`

	Range         *DateRange `json:"range"`
	DurationDays  int        `json:"duration_days"`
	DurationWeeks int        `json:"duration_weeks"`
	AvgPerWeek    float64    `json:"avg_per_week"`
	Pace          float64    `json:"pace"`

	Stewards             []StewardCount `json:"stewards"`
	ActiveStewards       int            `json:"active_stewards"`
	AvgPerStewardPerWeek float64        `json:"avg_per_steward_per_week"`
	TopShare             float64        `json:"top_share"`
	Median               int            `json:"median"`

	Monthly    []Point `json:"monthly"`
	Weekly     []Point `json:"weekly"`
	Volatility float64 `json:"volatility"`
	PeakMonth  *Point  `json:"peak_month"`
	PeakWeek   *Point  `json:"peak_week"`
}
