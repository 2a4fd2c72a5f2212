package analysis

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/crimelens/crimelens/internal/models"
)

// HotspotDetector flags locations with a concentration of incidents. A
// location qualifies on volume, incident density over the observed span,
// severity, and how long the activity has persisted.
type HotspotDetector struct{}

// Name implements Detector.
func (HotspotDetector) Name() string { return "hotspot" }

// hotspotMinConfidence is the emission gate for hotspot patterns.
const hotspotMinConfidence = 0.4

// Detect implements Detector.
func (HotspotDetector) Detect(ds *Dataset) []models.Pattern {
	var patterns []models.Pattern

	for _, g := range ds.ByLocation {
		if len(g.Incidents) < minGroupSize {
			continue
		}

		count := len(g.Incidents)
		spread := timeSpan(g.Incidents)
		days := math.Max(1, spread.Hours()/24)
		density := float64(count) / days
		avgSev := averageSeverity(g.Incidents)

		confidence := 0.4*math.Min(1, float64(count)/10) +
			0.3*math.Min(1, density/2) +
			0.2*(avgSev/4) +
			0.1*math.Min(1, float64(spread)/float64(30*24*time.Hour))
		if confidence < hotspotMinConfidence {
			continue
		}

		dominant := dominantType(g.Incidents)
		composite := 0.4*confidence + 0.4*(avgSev/4) + 0.2*math.Min(1, float64(count)/10)

		var coords *models.Point
		if c, ok := ds.centroid(g.Incidents); ok {
			coords = &c
		}

		patterns = append(patterns, models.NewPattern(models.Pattern{
			ID:          uuid.New().String(),
			Kind:        models.KindHotspot,
			Subtype:     string(dominant),
			Description: fmt.Sprintf("%d incidents at %s over %.0f days, predominantly %s", count, g.Incidents[0].Location, days, dominant),
			Confidence:  confidence,
			Location:    g.Incidents[0].Location,
			Coordinates: coords,
			Statistics: map[string]any{
				"count":        count,
				"density":      density,
				"avgSeverity":  avgSev,
				"dominantType": string(dominant),
				"firstSeen":    earliestOf(g.Incidents),
				"lastSeen":     latestOf(g.Incidents),
			},
			TimePattern:      fmt.Sprintf("activity spanning %.0f days", days),
			RelatedIncidents: incidentIDs(g.Incidents),
			Recommendations: []string{
				"Increase patrol frequency at this location",
				fmt.Sprintf("Review %s prevention measures with local stakeholders", dominant),
			},
			RiskLevel:  riskFromScore(composite),
			DetectedAt: ds.Now,
		}))
	}

	return patterns
}
