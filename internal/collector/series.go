package collector

import (
	"sort"

	"PortfolioPulse/internal/model"
)

// normalizePoints sorts points by date, collapses each calendar day to its
// last observation, drops non-positive closes, and keeps only the points
// within days of the most recent one.
func normalizePoints(points []model.PricePoint, days int) []model.PricePoint {
	if len(points) == 0 {
		return nil
	}
	sorted := make([]model.PricePoint, 0, len(points))
	for _, p := range points {
		if p.Close <= 0 {
			continue
		}
		sorted = append(sorted, model.PricePoint{Date: model.DateOf(p.Date), Close: p.Close})
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	out := sorted[:0]
	for _, p := range sorted {
		if n := len(out); n > 0 && out[n-1].Date.Equal(p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 || days <= 0 {
		return out
	}

	cutoff := out[len(out)-1].Date.AddDate(0, 0, -days)
	start := sort.Search(len(out), func(i int) bool { return out[i].Date.After(cutoff) })
	return out[start:]
}
