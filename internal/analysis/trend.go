package analysis

import (
	"math"
	"time"

	"github.com/crimelens/crimelens/internal/models"
)

// linearTrend fits an ordinary least-squares line over an equally spaced
// count series (x = 0..n-1) and returns the slope (counts per step) together
// with the fit's R². A series shorter than 2 points or with zero variance in
// y yields (0, 0).
func linearTrend(counts []float64) (slope, r2 float64) {
	n := float64(len(counts))
	if n < 2 {
		return 0, 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range counts {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssTot, ssRes float64
	for i, y := range counts {
		fit := intercept + slope*float64(i)
		ssTot += (y - meanY) * (y - meanY)
		ssRes += (y - fit) * (y - fit)
	}
	if ssTot == 0 {
		return slope, 0
	}
	return slope, 1 - ssRes/ssTot
}

// trendConfidence scores an upward trend in [0,1): half from the fit
// quality, half from the growth rate (saturating at one extra incident per
// day). Flat or falling trends score zero.
func trendConfidence(slope, r2 float64) float64 {
	if slope <= 0 {
		return 0
	}
	return math.Min(0.95, 0.5*r2+0.5*math.Min(1, slope))
}

// dailyCounts buckets incidents into per-day counts across a window of the
// given length starting at from. Incidents outside the window are ignored.
func dailyCounts(incidents []models.Incident, from time.Time, days int) []float64 {
	counts := make([]float64, days)
	for _, inc := range incidents {
		day := int(inc.OccurredAt.Sub(from).Hours() / 24)
		if day < 0 || day >= days {
			continue
		}
		counts[day]++
	}
	return counts
}
