package analysis

import (
	"github.com/crimelens/crimelens/internal/models"
)

// basicStats summarizes the filtered incident set. Computed on every run,
// including failed ones.
func basicStats(incidents []models.Incident) models.BasicStatistics {
	stats := models.BasicStatistics{
		TotalIncidents: len(incidents),
	}
	if len(incidents) == 0 {
		return stats
	}

	stats.EarliestAt = earliestOf(incidents)
	stats.LatestAt = latestOf(incidents)
	stats.ByType = make(map[models.CrimeType]int)
	stats.BySeverity = make(map[models.Severity]int)
	for _, inc := range incidents {
		stats.ByType[inc.Type]++
		stats.BySeverity[inc.Severity]++
	}
	return stats
}

// advancedStats summarizes the detection output of a successful run:
// per-detector emission counts plus confidence and risk histograms at the
// shared 0.7/0.5 tier thresholds.
func advancedStats(perDetector map[string]int, patterns []models.Pattern) *models.AdvancedStatistics {
	stats := &models.AdvancedStatistics{
		PatternsByDetector: perDetector,
	}

	for _, p := range patterns {
		switch {
		case p.Confidence >= highTierThreshold:
			stats.ConfidenceTiers.High++
		case p.Confidence >= mediumTierThreshold:
			stats.ConfidenceTiers.Medium++
		default:
			stats.ConfidenceTiers.Low++
		}

		switch p.RiskLevel {
		case models.RiskHigh:
			stats.RiskTiers.High++
		case models.RiskMedium:
			stats.RiskTiers.Medium++
		default:
			stats.RiskTiers.Low++
		}
	}
	return stats
}
