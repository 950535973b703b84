package campaign

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/AngelCh415/verification-stats/internal/columns"
	"github.com/AngelCh415/verification-stats/internal/models"
)

var headers = []string{"Account ID", "Data Verification Status", "Data Verification Date", "Steward"}

func row(id, status, date, steward string) models.Record {
	return models.Record{
		"Account ID":               models.ParseCell(id),
		"Data Verification Status": models.ParseCell(status),
		"Data Verification Date":   models.ParseCell(date),
		"Steward":                  models.ParseCell(steward),
	}
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func sampleTable() models.Table {
	return models.Table{Headers: headers, Rows: []models.Record{
		row("A1", "Reviewed", "2024-02-10", "Ann"),
		row("A1", "Verified", "2024-03-05", "Bob"),
		row("A2", "Verified", "2024-01-17", "Ann"),
		row("A3", "verified", "", ""),
		row("", "Verified", "2024-03-01", "Bob"),
		row("A4", "Could Not Verify", "2024-03-20", "Bob"),
	}}
}

func TestAggregateSummary(t *testing.T) {
	s, err := Aggregate("Q1_batch-two.xlsx", sampleTable(), columns.DefaultAliases().Resolve)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if s.Title != "Q1 batch two" {
		t.Fatalf("title: %q", s.Title)
	}
	wantCounts := models.StatusCounts{Total: 4, Verified: 2, CouldNotVerify: 1, Other: 1}
	if diff := cmp.Diff(wantCounts, s.Counts); diff != "" {
		t.Fatalf("counts mismatch (-want +got):\n%s", diff)
	}
	if s.Total != 4 || s.VerifiedRate != 0.5 {
		t.Fatalf("total=%d rate=%v", s.Total, s.VerifiedRate)
	}
	if !s.MinDate.Equal(day(2024, 1, 17)) || !s.MaxDate.Equal(day(2024, 3, 20)) {
		t.Fatalf("range %v..%v", s.MinDate, s.MaxDate)
	}

	wantMonthly := []models.Point{{Key: "2024-01", Count: 1}, {Key: "2024-03", Count: 2}}
	if diff := cmp.Diff(wantMonthly, s.Monthly); diff != "" {
		t.Fatalf("monthly mismatch (-want +got):\n%s", diff)
	}
	wantWeekly := []models.Point{{Key: "2024-01-14", Count: 1}, {Key: "2024-03-03", Count: 1}, {Key: "2024-03-17", Count: 1}}
	if diff := cmp.Diff(wantWeekly, s.Weekly); diff != "" {
		t.Fatalf("weekly mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(map[string]int{"Ann": 1, "Bob": 2, "Unknown": 1}, s.StewardCounts); diff != "" {
		t.Fatalf("steward counts mismatch (-want +got):\n%s", diff)
	}
	wantNamed := []models.StewardCount{{Name: "Bob", Count: 2}, {Name: "Ann", Count: 1}}
	if diff := cmp.Diff(wantNamed, s.NamedStewards); diff != "" {
		t.Fatalf("ranking mismatch (-want +got):\n%s", diff)
	}

	mar := s.Months["2024-03"]
	if mar.Counts.Total != 2 || mar.Counts.Verified != 1 || mar.Counts.CouldNotVerify != 1 {
		t.Fatalf("march counts %+v", mar.Counts)
	}
	if mar.Stewards["Bob"] != 2 || !mar.Range.Min.Equal(day(2024, 3, 5)) || !mar.Range.Max.Equal(day(2024, 3, 20)) {
		t.Fatalf("march breakdown %+v", mar)
	}
	if _, ok := s.Months["2024-02"]; ok {
		t.Fatal("superseded February row must not leave a month behind")
	}

	if s.DurationDays != 64 || s.DurationWeeks != 10 {
		t.Fatalf("duration %d days / %d weeks", s.DurationDays, s.DurationWeeks)
	}
	if s.AvgPerWeek != 0.4 || s.AvgPerStewardPerWeek != 0.2 {
		t.Fatalf("avg %v / per steward %v", s.AvgPerWeek, s.AvgPerStewardPerWeek)
	}
	wantIns := models.Insights{
		TopShare:       0.5,
		Median:         1,
		Std:            0.5,
		ActiveStewards: 2,
		PeakMonth:      "2024-03",
		PeakVal:        2,
		Pace:           4.0 / 64,
	}
	if diff := cmp.Diff(wantIns, s.Insights); diff != "" {
		t.Fatalf("insights mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateIsDeterministic(t *testing.T) {
	al := columns.DefaultAliases().Resolve
	a, err := Aggregate("c.xlsx", sampleTable(), al)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Aggregate("c.xlsx", sampleTable(), al)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("two runs differ:\n%s", diff)
	}
}

func TestDedupe(t *testing.T) {
	jan, feb := day(2024, 1, 1), day(2024, 2, 1)
	cases := []struct {
		name string
		in   []Entry
		want []Entry
	}{
		{
			name: "later date wins",
			in: []Entry{
				{AccountID: "A", Status: models.StatusReviewed, Date: feb, Dated: true},
				{AccountID: "A", Status: models.StatusVerified, Date: jan, Dated: true},
			},
			want: []Entry{{AccountID: "A", Status: models.StatusReviewed, Date: feb, Dated: true}},
		},
		{
			name: "dated beats undated in either order",
			in: []Entry{
				{AccountID: "A", Status: models.StatusOther},
				{AccountID: "A", Status: models.StatusVerified, Date: jan, Dated: true},
				{AccountID: "A", Status: models.StatusReviewed},
			},
			want: []Entry{{AccountID: "A", Status: models.StatusVerified, Date: jan, Dated: true}},
		},
		{
			name: "first undated stays",
			in: []Entry{
				{AccountID: "A", Status: models.StatusReviewed},
				{AccountID: "A", Status: models.StatusVerified},
			},
			want: []Entry{{AccountID: "A", Status: models.StatusReviewed}},
		},
		{
			name: "same date keeps first",
			in: []Entry{
				{AccountID: "A", Status: models.StatusReviewed, Date: jan, Dated: true},
				{AccountID: "A", Status: models.StatusVerified, Date: jan, Dated: true},
			},
			want: []Entry{{AccountID: "A", Status: models.StatusReviewed, Date: jan, Dated: true}},
		},
		{
			name: "first appearance order",
			in: []Entry{
				{AccountID: "B"},
				{AccountID: "A"},
				{AccountID: "B", Date: jan, Dated: true},
			},
			want: []Entry{{AccountID: "B", Date: jan, Dated: true}, {AccountID: "A"}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, Dedupe(tc.in)); diff != "" {
				t.Fatalf("dedupe mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractNumericAndTextIDsCollide(t *testing.T) {
	res := columns.Resolve(headers, columns.DefaultAliases().Resolve)
	rows := []models.Record{
		{"Account ID": models.Number(123), "Data Verification Status": models.Text("Reviewed")},
		{"Account ID": models.Text("123"), "Data Verification Status": models.Text("Verified")},
		{"Account ID": models.Text("00123"), "Data Verification Status": models.Empty()},
	}
	got := Dedupe(Extract(rows, res))
	if len(got) != 2 {
		t.Fatalf("expected 2 identities, got %+v", got)
	}
	if got[0].Status != models.StatusReviewed || got[1].Status != models.StatusOther {
		t.Fatalf("unexpected statuses %+v", got)
	}
	if got[1].Steward != models.UnknownSteward {
		t.Fatalf("blank steward should be Unknown, got %q", got[1].Steward)
	}
}

func TestClassifyIsExact(t *testing.T) {
	cases := map[string]string{
		"Verified":         models.StatusVerified,
		"Reviewed":         models.StatusReviewed,
		"Could Not Verify": models.StatusCouldNotVerify,
		"verified":         models.StatusOther,
		" Verified":        models.StatusOther,
		"Could not verify": models.StatusOther,
		"Pending":          models.StatusOther,
		"":                 models.StatusOther,
	}
	for in, want := range cases {
		if got := Classify(in); got != want {
			t.Fatalf("Classify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAggregateWithoutStewardColumn(t *testing.T) {
	table := models.Table{
		Headers: []string{"acctid", "status", "date"},
		Rows: []models.Record{
			{"acctid": models.Text("X"), "status": models.Text("Verified"), "date": models.Number(45292)},
		},
	}
	s, err := Aggregate("x.csv", table, columns.DefaultAliases().Resolve)
	if err != nil {
		t.Fatal(err)
	}
	if s.HasSteward || len(s.StewardCounts) != 0 || s.Insights.ActiveStewards != 0 || s.AvgPerStewardPerWeek != 0 {
		t.Fatalf("steward fields should be empty: %+v", s)
	}
	if s.DurationDays != 1 || s.AvgPerWeek != 1 || s.Insights.Std != 0 {
		t.Fatalf("single-day campaign: %+v", s)
	}
	if s.Monthly[0].Key != "2024-01" {
		t.Fatalf("serial date not parsed: %+v", s.Monthly)
	}
}

func TestAggregateOnlyUnknownStewards(t *testing.T) {
	table := models.Table{Headers: headers, Rows: []models.Record{
		row("A", "Verified", "2024-01-01", ""),
		row("B", "Verified", "2024-01-02", "  "),
	}}
	s, err := Aggregate("u.xlsx", table, columns.DefaultAliases().Resolve)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.NamedStewards) != 0 || s.StewardCounts[models.UnknownSteward] != 2 {
		t.Fatalf("stewards: %+v / %+v", s.NamedStewards, s.StewardCounts)
	}
	if s.Insights.ActiveStewards != 1 || s.Insights.TopShare != 0 || s.Insights.Median != 0 {
		t.Fatalf("insights: %+v", s.Insights)
	}
}

func TestAggregateUndatedCampaign(t *testing.T) {
	table := models.Table{Headers: headers, Rows: []models.Record{
		row("A", "Verified", "n/a", "Ann"),
	}}
	s, err := Aggregate("nodates.xlsx", table, columns.DefaultAliases().Resolve)
	if err != nil {
		t.Fatal(err)
	}
	if s.MinDate != nil || s.MaxDate != nil || len(s.Monthly) != 0 || len(s.Months) != 0 {
		t.Fatalf("expected no dated data: %+v", s)
	}
	if s.DurationDays != 1 || s.Insights.PeakMonth != "" || s.Insights.PeakVal != 0 {
		t.Fatalf("defaults: %+v", s)
	}
}

func TestAggregatePlaceholderDateSpan(t *testing.T) {
	table := models.Table{Headers: headers, Rows: []models.Record{
		row("A", "Verified", "2024-01-01", "Ann"),
		row("B", "Verified", "9999-12-31", "Ann"),
	}}
	s, err := Aggregate("far.xlsx", table, columns.DefaultAliases().Resolve)
	if err != nil {
		t.Fatal(err)
	}
	if s.DurationDays != 2913174 || s.DurationWeeks != 416168 {
		t.Fatalf("duration %d days / %d weeks", s.DurationDays, s.DurationWeeks)
	}
}

func TestAggregateErrors(t *testing.T) {
	al := columns.DefaultAliases().Resolve

	_, err := Aggregate("empty.xlsx", models.Table{Headers: headers}, al)
	var empty *EmptyCampaignError
	if !errors.As(err, &empty) || empty.Campaign != "empty.xlsx" {
		t.Fatalf("expected EmptyCampaignError, got %v", err)
	}

	table := models.Table{
		Headers: []string{"Account ID", "Status"},
		Rows:    []models.Record{{"Account ID": models.Text("A"), "Status": models.Text("Verified")}},
	}
	_, err = Aggregate("nodate.xlsx", table, al)
	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnsError, got %v", err)
	}
	if diff := cmp.Diff([]models.Role{models.RoleDate}, missing.Missing); diff != "" {
		t.Fatalf("missing roles (-want +got):\n%s", diff)
	}
}

func TestInsightHelpers(t *testing.T) {
	ranked := RankStewards(map[string]int{"c": 5, "a": 5, "b": 1, "d": 9, models.UnknownSteward: 50})
	want := []models.StewardCount{{Name: "d", Count: 9}, {Name: "a", Count: 5}, {Name: "c", Count: 5}, {Name: "b", Count: 1}}
	if diff := cmp.Diff(want, ranked); diff != "" {
		t.Fatalf("ranking (-want +got):\n%s", diff)
	}
	// ascending volumes 1,5,5,9: lower middle is index 1
	if got := Median(ranked); got != 5 {
		t.Fatalf("median %d", got)
	}
	if got := Median(ranked[:3]); got != 5 {
		t.Fatalf("odd median %d", got)
	}
	if got := Median(ranked[2:]); got != 1 {
		t.Fatalf("pair median %d", got)
	}

	series := []models.Point{{Key: "a", Count: 2}, {Key: "b", Count: 4}, {Key: "c", Count: 4}, {Key: "d", Count: 6}}
	if got := StdDev(series, false); got != 1.4142135623730951 {
		t.Fatalf("population std %v", got)
	}
	if got := StdDev(series[:1], true); got != 0 {
		t.Fatalf("sample std of one point %v", got)
	}
	if p := Peak(series); p == nil || p.Key != "d" {
		t.Fatalf("peak %+v", p)
	}
	if p := Peak([]models.Point{{Key: "a", Count: 3}, {Key: "b", Count: 3}}); p.Key != "a" {
		t.Fatalf("tie should keep first, got %+v", p)
	}
	if p := Peak([]models.Point{{Key: "a"}}); p != nil {
		t.Fatalf("all-zero series has no peak, got %+v", p)
	}
}

func TestTitle(t *testing.T) {
	cases := map[string]string{
		"Q1_batch-two.xlsx":   "Q1 batch two",
		"plain.csv":           "plain",
		"__edge--case__.json": "edge case",
		"no extension":        "no extension",
		"archive.tar":         "archive.tar",
	}
	for in, want := range cases {
		if got := Title(in); got != want {
			t.Fatalf("Title(%q) = %q, want %q", in, got, want)
		}
	}
}
