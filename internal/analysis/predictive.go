package analysis

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/crimelens/crimelens/internal/models"
)

// PredictiveDetector projects short-term hotspots from recent momentum: it
// restricts the filtered set to the last 14 days, fits a linear trend over
// each location's daily incident counts, and flags locations whose volume
// is rising with a trustworthy fit.
type PredictiveDetector struct{}

// Name implements Detector.
func (PredictiveDetector) Name() string { return "predictive" }

const (
	predictiveWindowDays   = 14
	predictiveMinGroupSize = 2
	minTrendConfidence     = 0.6

	// predictionDiscount scales a trend's own confidence down to the emitted
	// pattern confidence; a projection is never as certain as the signal
	// behind it.
	predictionDiscount = 0.8
)

// Detect implements Detector.
func (PredictiveDetector) Detect(ds *Dataset) []models.Pattern {
	windowStart := ds.Now.AddDate(0, 0, -predictiveWindowDays)
	recent := within(ds.Incidents, windowStart)

	var patterns []models.Pattern
	for _, g := range groupByLocation(recent) {
		if len(g.Incidents) < predictiveMinGroupSize {
			continue
		}

		counts := dailyCounts(g.Incidents, windowStart, predictiveWindowDays)
		slope, r2 := linearTrend(counts)
		trendConf := trendConfidence(slope, r2)
		if slope <= 0 || trendConf < minTrendConfidence {
			continue
		}

		confidence := trendConf * predictionDiscount
		count := len(g.Incidents)
		dominant := dominantType(g.Incidents)

		var coords *models.Point
		if c, ok := ds.centroid(g.Incidents); ok {
			coords = &c
		}

		patterns = append(patterns, models.NewPattern(models.Pattern{
			ID:          uuid.New().String(),
			Kind:        models.KindPredictiveHotspot,
			Subtype:     string(dominant),
			Description: fmt.Sprintf("Rising activity at %s: %d incidents in %d days, trending up", g.Incidents[0].Location, count, predictiveWindowDays),
			Confidence:  confidence,
			Location:    g.Incidents[0].Location,
			Coordinates: coords,
			Statistics: map[string]any{
				"projectionWindow": "7-14 days",
				"recentCount":      count,
				"growthRatePerDay": slope,
				"trendConfidence":  trendConf,
				"fitQuality":       r2,
			},
			TimePattern:      fmt.Sprintf("incident volume rising since %s", windowStart.Format("2006-01-02")),
			RelatedIncidents: incidentIDs(g.Incidents),
			Recommendations: []string{
				"Allocate preventive patrols over the next 7-14 days",
				"Re-evaluate after the projection window closes",
			},
			RiskLevel:  deriveRisk(confidence, averageSeverity(g.Incidents), count),
			DetectedAt: ds.Now,
		}))
	}
	return patterns
}
