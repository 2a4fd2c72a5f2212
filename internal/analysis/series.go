package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/crimelens/crimelens/internal/models"
)

// SeriesDetector looks for linked-crime series: runs of same-type incidents
// close to each other in both time and space, suggesting one offender or
// group. Candidates come from deterministic single-link clustering within
// each crime-type group.
type SeriesDetector struct {
	LinkDistance float64 // spatial linkage threshold, grid units
	LinkDays     float64 // temporal linkage threshold, days
}

// Name implements Detector.
func (SeriesDetector) Name() string { return "crime-series" }

// seriesMinConfidence is the emission gate for series patterns.
const seriesMinConfidence = 0.5

// Detect implements Detector.
func (d SeriesDetector) Detect(ds *Dataset) []models.Pattern {
	linked := ds.seriesLink(d.LinkDistance, d.LinkDays)

	var patterns []models.Pattern
	for _, g := range ds.ByType {
		if len(g.Incidents) < minGroupSize {
			continue
		}

		for _, cluster := range clusterIncidents(g.Incidents, linked) {
			if len(cluster) < minGroupSize {
				continue
			}
			size := len(cluster)
			confidence := math.Min(0.9, float64(size)/5*0.8)
			if confidence < seriesMinConfidence {
				continue
			}

			span := timeSpan(cluster)
			spanDays := span.Hours() / 24
			avgSev := averageSeverity(cluster)

			var coords *models.Point
			spread := 0.0
			if c, ok := ds.centroid(cluster); ok {
				coords = &c
				spread = ds.clusterRadius(cluster, c)
			}

			crimeType := models.CrimeType(g.Key)
			patterns = append(patterns, models.NewPattern(models.Pattern{
				ID:          uuid.New().String(),
				Kind:        models.KindCrimeSeries,
				Subtype:     g.Key,
				Description: fmt.Sprintf("Linked %s series: %d incidents within %.0f days", crimeType, size, math.Max(1, spanDays)),
				Confidence:  confidence,
				Location:    patternLocation(cluster),
				Coordinates: coords,
				Statistics: map[string]any{
					"count":            size,
					"timeSpanDays":     spanDays,
					"geographicSpread": spread,
					"escalation":       escalation(cluster),
				},
				TimePattern:      fmt.Sprintf("%s to %s", earliestOf(cluster).Format("2006-01-02"), latestOf(cluster).Format("2006-01-02")),
				RelatedIncidents: incidentIDs(cluster),
				Recommendations: []string{
					fmt.Sprintf("Cross-reference %s reports for a common offender profile", crimeType),
					"Brief investigators on the series timeline",
				},
				RiskLevel:  deriveRisk(confidence, avgSev, size),
				DetectedAt: ds.Now,
			}))
		}
	}
	return patterns
}

// escalation classifies how severity develops across a cluster ordered by
// time: "escalating", "stable", or "de-escalating" from the slope of the
// severity scale over the chronological sequence.
func escalation(cluster []models.Incident) string {
	ordered := make([]models.Incident, len(cluster))
	copy(ordered, cluster)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OccurredAt.Before(ordered[j].OccurredAt)
	})

	series := make([]float64, len(ordered))
	for i, inc := range ordered {
		series[i] = float64(inc.Severity.Scale())
	}

	slope, _ := linearTrend(series)
	switch {
	case slope > 0.1:
		return "escalating"
	case slope < -0.1:
		return "de-escalating"
	default:
		return "stable"
	}
}
