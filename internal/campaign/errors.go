package campaign

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/AngelCh415/verification-stats/internal/models"
)

// MissingColumnsError reports required roles that no header resolved to.
type MissingColumnsError struct {
	Campaign string
	Missing  []models.Role
}

func (e *MissingColumnsError) Error() string {
	names := lo.Map(e.Missing, func(r models.Role, _ int) string { return string(r) })
	return fmt.Sprintf("missing required columns in %s (%s): expected Account ID + Data Verification Status + Data Verification Date",
		e.Campaign, strings.Join(names, ", "))
}

// EmptyCampaignError reports a campaign with no rows after sheet selection.
type EmptyCampaignError struct {
	Campaign string
}

func (e *EmptyCampaignError) Error() string {
	return fmt.Sprintf("no rows found in %s", e.Campaign)
}
