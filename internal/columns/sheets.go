package columns

import "github.com/AngelCh415/verification-stats/internal/models"

// SelectSheets picks the rows a workbook contributes to its campaign.
//
// Every sheet whose headers hold an alias for AccountId, Status and Date is
// included and the rows are concatenated in sheet order. When none qualifies,
// the single highest scoring sheet is used instead. Sheets without data rows
// never contribute. The returned headers are those of the first contributing
// sheet.
func SelectSheets(sheets []models.Sheet, aliases RoleAliases) models.Table {
	var (
		out       models.Table
		best      *models.Sheet
		bestScore = -1
	)
	for i := range sheets {
		sh := &sheets[i]
		if len(sh.Rows) == 0 {
			continue
		}
		if s := Score(sh.Headers, aliases); s > bestScore {
			best, bestScore = sh, s
		}
		if qualifies(sh.Headers, aliases) {
			if out.Headers == nil {
				out.Headers = sh.Headers
			}
			out.Rows = append(out.Rows, sh.Rows...)
		}
	}
	if len(out.Rows) > 0 || best == nil {
		return out
	}
	return models.Table{Headers: best.Headers, Rows: best.Rows}
}

// Score weighs how much a header row looks like campaign data:
// AccountId 5, Status 4, Date 4, Steward 2, plus one per eight headers up to 3.
func Score(headers []string, aliases RoleAliases) int {
	score := 0
	weights := map[models.Role]int{
		models.RoleAccountID: 5,
		models.RoleStatus:    4,
		models.RoleDate:      4,
		models.RoleSteward:   2,
	}
	for role, w := range weights {
		if hasAny(headers, aliases[role]) {
			score += w
		}
	}
	return score + min(3, len(headers)/8)
}

func qualifies(headers []string, aliases RoleAliases) bool {
	return hasAny(headers, aliases[models.RoleAccountID]) &&
		hasAny(headers, aliases[models.RoleStatus]) &&
		hasAny(headers, aliases[models.RoleDate])
}

func hasAny(headers []string, aliases []string) bool {
	_, ok := Find(headers, aliases)
	return ok
}
