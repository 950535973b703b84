package campaign

import (
	"math"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/AngelCh415/verification-stats/internal/models"
)

func stewardOf(v models.Value) string {
	if s := strings.TrimSpace(v.String()); s != "" {
		return s
	}
	return models.UnknownSteward
}

// RankStewards orders named stewards by count desc, name asc. Unknown is left out.
func RankStewards(counts map[string]int) []models.StewardCount {
	out := make([]models.StewardCount, 0, len(counts))
	for name, n := range counts {
		if name == models.UnknownSteward {
			continue
		}
		out = append(out, models.StewardCount{Name: name, Count: n})
	}
	slices.SortFunc(out, func(a, b models.StewardCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// TopShare is the busiest steward's share of total; 0 without stewards or rows.
func TopShare(ranked []models.StewardCount, total int) float64 {
	if len(ranked) == 0 || total == 0 {
		return 0
	}
	return float64(ranked[0].Count) / float64(total)
}

// Median is the lower-middle element of the ascending volumes.
func Median(ranked []models.StewardCount) int {
	if len(ranked) == 0 {
		return 0
	}
	vols := lo.Map(ranked, func(s models.StewardCount, _ int) int { return s.Count })
	slices.Sort(vols)
	return vols[(len(vols)-1)/2]
}

// StdDev of the series counts. Population divides by n; sample divides by
// n-1 and is 0 below two points.
func StdDev(series []models.Point, sample bool) float64 {
	n := len(series)
	if n == 0 || (sample && n < 2) {
		return 0
	}
	mean := float64(lo.SumBy(series, func(p models.Point) int { return p.Count })) / float64(n)
	ss := lo.SumBy(series, func(p models.Point) float64 {
		d := float64(p.Count) - mean
		return d * d
	})
	div := float64(n)
	if sample {
		div = float64(n - 1)
	}
	return math.Sqrt(ss / div)
}

// Peak returns the first point with the strictly greatest count, or nil when
// no point is above zero.
func Peak(series []models.Point) *models.Point {
	var best *models.Point
	for i := range series {
		if series[i].Count > 0 && (best == nil || series[i].Count > best.Count) {
			p := series[i]
			best = &p
		}
	}
	return best
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
