package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/crimelens/crimelens/internal/models"
)

// TemporalDetector runs three independent sub-analyses over the full
// filtered set: hour-of-day concentration, day-of-week concentration, and a
// single seasonal (month-of-year) peak.
type TemporalDetector struct{}

// Name implements Detector.
func (TemporalDetector) Name() string { return "temporal" }

// Detect implements Detector.
func (TemporalDetector) Detect(ds *Dataset) []models.Pattern {
	var patterns []models.Pattern
	patterns = append(patterns, hourlyPatterns(ds)...)
	patterns = append(patterns, dailyPatterns(ds)...)
	patterns = append(patterns, seasonalPatterns(ds)...)
	return patterns
}

// timeBucket is one cell of a temporal histogram.
type timeBucket struct {
	index     int // hour 0–23, weekday 0–6, or month 1–12
	incidents []models.Incident
}

// bucketize builds a histogram over the given index function and returns the
// non-empty buckets sorted by count descending, index ascending on ties.
func bucketize(incidents []models.Incident, size int, index func(*models.Incident) int) []timeBucket {
	cells := make([][]models.Incident, size)
	for _, inc := range incidents {
		i := index(&inc)
		cells[i] = append(cells[i], inc)
	}

	var buckets []timeBucket
	for i, members := range cells {
		if len(members) > 0 {
			buckets = append(buckets, timeBucket{index: i, incidents: members})
		}
	}
	sort.SliceStable(buckets, func(a, b int) bool {
		if len(buckets[a].incidents) != len(buckets[b].incidents) {
			return len(buckets[a].incidents) > len(buckets[b].incidents)
		}
		return buckets[a].index < buckets[b].index
	})
	return buckets
}

// percentage formats a bucket share the way the statistics payload exposes
// it: one decimal place, as a string.
func percentage(count, total int) string {
	return fmt.Sprintf("%.1f", float64(count)/float64(total)*100)
}

// hourlyPatterns emits up to three patterns for the busiest hours of day,
// each needing at least 3 incidents.
func hourlyPatterns(ds *Dataset) []models.Pattern {
	total := len(ds.Incidents)
	buckets := bucketize(ds.Incidents, 24, func(inc *models.Incident) int { return inc.OccurredAt.Hour() })
	if len(buckets) > 3 {
		buckets = buckets[:3]
	}

	var patterns []models.Pattern
	for _, b := range buckets {
		count := len(b.incidents)
		if count < 3 {
			continue
		}
		confidence := math.Min(0.9, float64(count)/float64(total)*4)

		patterns = append(patterns, models.NewPattern(models.Pattern{
			ID:          uuid.New().String(),
			Kind:        models.KindTemporal,
			Subtype:     "hourly",
			Description: fmt.Sprintf("%d of %d incidents occur around %02d:00", count, total, b.index),
			Confidence:  confidence,
			Location:    patternLocation(b.incidents),
			Statistics: map[string]any{
				"peakHour":   b.index,
				"count":      count,
				"percentage": percentage(count, total),
			},
			TimePattern:      fmt.Sprintf("peak window %02d:00-%02d:00", b.index, (b.index+1)%24),
			RelatedIncidents: incidentIDs(b.incidents),
			Recommendations: []string{
				"Increase patrol presence during the peak hour window",
			},
			RiskLevel:  deriveRisk(confidence, averageSeverity(b.incidents), count),
			DetectedAt: ds.Now,
		}))
	}
	return patterns
}

// dailyPatterns emits up to two patterns for the busiest days of week,
// each needing at least 3 incidents.
func dailyPatterns(ds *Dataset) []models.Pattern {
	total := len(ds.Incidents)
	buckets := bucketize(ds.Incidents, 7, func(inc *models.Incident) int { return int(inc.OccurredAt.Weekday()) })
	if len(buckets) > 2 {
		buckets = buckets[:2]
	}

	var patterns []models.Pattern
	for _, b := range buckets {
		count := len(b.incidents)
		if count < 3 {
			continue
		}
		confidence := math.Min(0.85, float64(count)/float64(total)*3)
		day := time.Weekday(b.index)

		patterns = append(patterns, models.NewPattern(models.Pattern{
			ID:          uuid.New().String(),
			Kind:        models.KindTemporal,
			Subtype:     "daily",
			Description: fmt.Sprintf("%d of %d incidents occur on %ss", count, total, day),
			Confidence:  confidence,
			Location:    patternLocation(b.incidents),
			Statistics: map[string]any{
				"peakDay":    b.index,
				"dayName":    day.String(),
				"count":      count,
				"percentage": percentage(count, total),
			},
			TimePattern:      fmt.Sprintf("recurring %s concentration", day),
			RelatedIncidents: incidentIDs(b.incidents),
			Recommendations: []string{
				fmt.Sprintf("Adjust shift coverage for %ss", day),
			},
			RiskLevel:  deriveRisk(confidence, averageSeverity(b.incidents), count),
			DetectedAt: ds.Now,
		}))
	}
	return patterns
}

// seasonalPatterns emits at most one pattern for the single busiest month,
// needing at least 4 incidents.
func seasonalPatterns(ds *Dataset) []models.Pattern {
	total := len(ds.Incidents)
	buckets := bucketize(ds.Incidents, 13, func(inc *models.Incident) int { return int(inc.OccurredAt.Month()) })
	if len(buckets) == 0 {
		return nil
	}

	b := buckets[0]
	count := len(b.incidents)
	if count < 4 {
		return nil
	}
	confidence := math.Min(0.8, float64(count)/float64(total)*2)
	month := time.Month(b.index)

	return []models.Pattern{models.NewPattern(models.Pattern{
		ID:          uuid.New().String(),
		Kind:        models.KindTemporal,
		Subtype:     "seasonal",
		Description: fmt.Sprintf("%d of %d incidents occur in %s", count, total, month),
		Confidence:  confidence,
		Location:    patternLocation(b.incidents),
		Statistics: map[string]any{
			"peakMonth":  b.index,
			"monthName":  month.String(),
			"count":      count,
			"percentage": percentage(count, total),
		},
		TimePattern:      fmt.Sprintf("seasonal concentration in %s", month),
		RelatedIncidents: incidentIDs(b.incidents),
		Recommendations: []string{
			fmt.Sprintf("Plan seasonal resource allocation ahead of %s", month),
		},
		RiskLevel:  deriveRisk(confidence, averageSeverity(b.incidents), count),
		DetectedAt: ds.Now,
	})}
}
