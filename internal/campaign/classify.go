package campaign

import "github.com/AngelCh415/verification-stats/internal/models"

// Classify maps a raw status to its bucket by exact match. No trimming or
// case folding is applied.
func Classify(raw string) string {
	switch raw {
	case models.StatusVerified, models.StatusReviewed, models.StatusCouldNotVerify:
		return raw
	}
	return models.StatusOther
}

// statusOf reads the status cell, defaulting an empty cell to Other.
func statusOf(v models.Value) string {
	if v.IsEmpty() {
		return Classify(models.StatusOther)
	}
	return Classify(v.String())
}
