package columns

import (
	"github.com/samber/lo"

	"github.com/AngelCh415/verification-stats/internal/models"
)

// RoleAliases maps each role to lower-cased aliases in priority order.
type RoleAliases map[models.Role][]string

// Aliases holds the two alias tables in use: Resolve picks the column for each
// role inside a campaign, Sheets decides which workbook sheets carry data.
type Aliases struct {
	Resolve RoleAliases
	Sheets  RoleAliases
}

// DefaultAliases returns a fresh copy of the built-in alias tables.
func DefaultAliases() Aliases {
	return Aliases{
		Resolve: RoleAliases{
			models.RoleAccountID: {"account id", "accountid", "acct id", "acctid"},
			models.RoleStatus:    {"data verification status", "verification status", "status"},
			models.RoleDate:      {"data verification date", "verification date", "date"},
			models.RoleSteward:   {"steward", "data steward", "agent", "owner"},
		},
		Sheets: RoleAliases{
			models.RoleAccountID: {"account id", "accountid", "account", "acct id", "acctid", "acct"},
			models.RoleStatus:    {"data verification status", "verification status", "status", "verified status"},
			models.RoleDate:      {"data verification date", "verification date", "date", "completed date", "processed date"},
			models.RoleSteward:   {"steward", "data steward", "assigned to", "owner", "agent"},
		},
	}
}

// Resolution maps each role to the raw header label chosen for it.
// A missing key means the role did not resolve.
type Resolution map[models.Role]string

func (r Resolution) Has(role models.Role) bool {
	_, ok := r[role]
	return ok
}

// Missing lists the required roles that did not resolve.
func (r Resolution) Missing() []models.Role {
	return lo.Filter([]models.Role{models.RoleAccountID, models.RoleStatus, models.RoleDate}, func(role models.Role, _ int) bool {
		return !r.Has(role)
	})
}

// Find returns the first raw header whose normalized form equals an alias,
// trying aliases in order.
func Find(headers []string, aliases []string) (string, bool) {
	norm := lo.Map(headers, func(h string, _ int) string { return models.NormalizeLabel(h) })
	for _, a := range aliases {
		if i := lo.IndexOf(norm, a); i >= 0 {
			return headers[i], true
		}
	}
	return "", false
}

// Resolve runs Find for every role over one campaign's headers.
func Resolve(headers []string, aliases RoleAliases) Resolution {
	res := Resolution{}
	for _, role := range models.Roles {
		if raw, ok := Find(headers, aliases[role]); ok {
			res[role] = raw
		}
	}
	return res
}
