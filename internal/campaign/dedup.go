package campaign

import (
	"time"

	"github.com/AngelCh415/verification-stats/internal/calendar"
	"github.com/AngelCh415/verification-stats/internal/columns"
	"github.com/AngelCh415/verification-stats/internal/models"
)

// Entry is a row reduced to the typed fields the aggregator needs.
type Entry struct {
	AccountID string
	Status    string
	Date      time.Time
	Dated     bool
	Steward   string
}

// Extract types every row against the resolved columns. Rows with an empty
// account identity are dropped. Steward is "" when the campaign has no
// steward column, Unknown when the row's value is blank.
func Extract(rows []models.Record, res columns.Resolution) []Entry {
	out := make([]Entry, 0, len(rows))
	stewardCol, hasSteward := res[models.RoleSteward]
	for _, r := range rows {
		id := r.Lookup(res[models.RoleAccountID]).String()
		if id == "" {
			continue
		}
		e := Entry{
			AccountID: id,
			Status:    statusOf(r.Lookup(res[models.RoleStatus])),
		}
		e.Date, e.Dated = calendar.ParseDate(r.Lookup(res[models.RoleDate]))
		if hasSteward {
			e.Steward = stewardOf(r.Lookup(stewardCol))
		}
		out = append(out, e)
	}
	return out
}

// Dedupe keeps one entry per account identity, ordered by first appearance.
// A dated entry beats an undated one, a later date beats an earlier one, and
// between two undated entries the first one seen stays.
func Dedupe(entries []Entry) []Entry {
	idx := make(map[string]int, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		i, ok := idx[e.AccountID]
		if !ok {
			idx[e.AccountID] = len(out)
			out = append(out, e)
			continue
		}
		if supersedes(e, out[i]) {
			out[i] = e
		}
	}
	return out
}

func supersedes(next, prev Entry) bool {
	switch {
	case next.Dated && !prev.Dated:
		return true
	case next.Dated && prev.Dated:
		return next.Date.After(prev.Date)
	}
	return false
}
