package analysis

import (
	"math"
	"sort"

	"github.com/crimelens/crimelens/internal/models"
)

// Shared risk/confidence tier thresholds used by every detector.
const (
	highTierThreshold   = 0.7
	mediumTierThreshold = 0.5
)

// riskFromScore maps a composite score onto the three-tier risk scale.
func riskFromScore(score float64) models.RiskLevel {
	switch {
	case score >= highTierThreshold:
		return models.RiskHigh
	case score >= mediumTierThreshold:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// deriveRisk computes the standard composite risk of a pattern from its
// confidence, the average severity of its incidents (1–4 scale), and the
// incident count: 0.4·confidence + 0.4·(avgSeverity/4) + 0.2·min(1, count/10).
func deriveRisk(confidence, avgSeverity float64, count int) models.RiskLevel {
	composite := 0.4*confidence + 0.4*(avgSeverity/4) + 0.2*math.Min(1, float64(count)/10)
	return riskFromScore(composite)
}

// averageSeverity returns the mean incident severity on the 1–4 ordinal
// scale, 0 for an empty set.
func averageSeverity(incidents []models.Incident) float64 {
	if len(incidents) == 0 {
		return 0
	}
	sum := 0
	for _, inc := range incidents {
		sum += inc.Severity.Scale()
	}
	return float64(sum) / float64(len(incidents))
}

// dominantType returns the most frequent crime type of the incidents,
// breaking count ties in favor of the type encountered first.
func dominantType(incidents []models.Incident) models.CrimeType {
	counts := make(map[models.CrimeType]int)
	var dominant models.CrimeType
	best := 0
	for _, inc := range incidents {
		counts[inc.Type]++
		if counts[inc.Type] > best {
			best = counts[inc.Type]
			dominant = inc.Type
		}
	}
	return dominant
}

// FilterAndRank drops patterns below minConfidence and totally orders the
// rest: confidence descending, ties broken by related-incident count
// descending. The sort is stable, so equal keys keep their original
// detector-emission order. Returns a non-nil slice.
func FilterAndRank(patterns []models.Pattern, minConfidence float64) []models.Pattern {
	kept := make([]models.Pattern, 0, len(patterns))
	for _, p := range patterns {
		if p.Confidence >= minConfidence {
			kept = append(kept, p)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Confidence != kept[j].Confidence {
			return kept[i].Confidence > kept[j].Confidence
		}
		return len(kept[i].RelatedIncidents) > len(kept[j].RelatedIncidents)
	})
	return kept
}
