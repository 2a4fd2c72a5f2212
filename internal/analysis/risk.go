package analysis

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/crimelens/crimelens/internal/models"
)

// RiskDetector rates every location group, regardless of size, on a
// composite of severity, volume, and recent activity. Only areas clearing
// the risk floor produce a pattern.
type RiskDetector struct{}

// Name implements Detector.
func (RiskDetector) Name() string { return "risk" }

const (
	riskScoreFloor = 0.5
	recentRiskDays = 7
)

// Detect implements Detector.
func (RiskDetector) Detect(ds *Dataset) []models.Pattern {
	recentCutoff := ds.Now.AddDate(0, 0, -recentRiskDays)

	var patterns []models.Pattern
	for _, g := range ds.ByLocation {
		count := len(g.Incidents)
		avgSev := averageSeverity(g.Incidents)
		recentCount := len(within(g.Incidents, recentCutoff))
		recentRatio := float64(recentCount) / float64(count)

		score := 0.4*(avgSev/4) +
			0.4*math.Min(1, float64(count)/10) +
			0.2*math.Min(1, recentRatio*2)
		if score < riskScoreFloor {
			continue
		}
		confidence := math.Min(0.9, score+0.1)
		risk := riskFromScore(score)

		var coords *models.Point
		if c, ok := ds.centroid(g.Incidents); ok {
			coords = &c
		}

		patterns = append(patterns, models.NewPattern(models.Pattern{
			ID:          uuid.New().String(),
			Kind:        models.KindRiskAssessment,
			Subtype:     "area-risk",
			Description: fmt.Sprintf("%s assessed as %s risk: %d incidents, %d in the last %d days", g.Incidents[0].Location, risk, count, recentCount, recentRiskDays),
			Confidence:  confidence,
			Location:    g.Incidents[0].Location,
			Coordinates: coords,
			Statistics: map[string]any{
				"riskScore":   score,
				"count":       count,
				"recentCount": recentCount,
				"avgSeverity": avgSev,
			},
			TimePattern:      fmt.Sprintf("%d of %d incidents within the last %d days", recentCount, count, recentRiskDays),
			RelatedIncidents: incidentIDs(g.Incidents),
			Recommendations: []string{
				"Review resource allocation for this area",
				"Monitor for changes in recent activity",
			},
			RiskLevel:  risk,
			DetectedAt: ds.Now,
		}))
	}
	return patterns
}
