package models

import (
	"time"
)

// Recognized time-range tags for incident filtering.
const (
	Range7Days  = "7days"
	Range30Days = "30days"
	Range90Days = "90days"
	Range1Year  = "1year"

	// DefaultTimeRange is used when the caller supplies no tag or an
	// unrecognized one.
	DefaultTimeRange = Range30Days

	// DefaultMinConfidence filters ranked patterns when the caller does
	// not supply a minimum.
	DefaultMinConfidence = 0.5
)

// ResolveTimeRange maps a time-range tag onto the cutoff instant "now minus
// N days". Unrecognized tags fall back to the 30-day default. The second
// return value is the tag that was actually applied.
func ResolveTimeRange(tag string, now time.Time) (time.Time, string) {
	days := 30
	resolved := DefaultTimeRange
	switch tag {
	case Range7Days:
		days, resolved = 7, Range7Days
	case Range30Days:
		days, resolved = 30, Range30Days
	case Range90Days:
		days, resolved = 90, Range90Days
	case Range1Year:
		days, resolved = 365, Range1Year
	}
	return now.AddDate(0, 0, -days), resolved
}

// AnalysisOptions carries the caller-supplied parameters of one analysis run.
// The zero value analyzes the last 30 days at minimum confidence 0.5.
type AnalysisOptions struct {
	TimeRange     string      `json:"time_range"`               // 7days|30days|90days|1year
	Location      string      `json:"location,omitempty"`       // optional substring match
	CrimeTypes    []CrimeType `json:"crime_types,omitempty"`    // optional type restriction
	MinConfidence float64     `json:"min_confidence,omitempty"` // <=0 means DefaultMinConfidence
}

// EffectiveMinConfidence returns the minimum confidence to apply, defaulting
// when the caller left it unset.
func (o AnalysisOptions) EffectiveMinConfidence() float64 {
	if o.MinConfidence <= 0 {
		return DefaultMinConfidence
	}
	return o.MinConfidence
}

// BasicStatistics summarizes the filtered incident set. Computed on every
// run, including failed ones.
type BasicStatistics struct {
	TotalIncidents int               `json:"total_incidents"`
	EarliestAt     time.Time         `json:"earliest_at,omitempty"`
	LatestAt       time.Time         `json:"latest_at,omitempty"`
	ByType         map[CrimeType]int `json:"by_type,omitempty"`
	BySeverity     map[Severity]int  `json:"by_severity,omitempty"`
}

// TierCounts is a three-bucket histogram at the shared 0.7/0.5 thresholds.
type TierCounts struct {
	High   int `json:"high"`   // >= 0.7
	Medium int `json:"medium"` // >= 0.5
	Low    int `json:"low"`    // < 0.5
}

// AdvancedStatistics summarizes the detection output. Only present on
// successful runs.
type AdvancedStatistics struct {
	PatternsByDetector map[string]int `json:"patterns_by_detector"`
	ConfidenceTiers    TierCounts     `json:"confidence_tiers"`
	RiskTiers          TierCounts     `json:"risk_tiers"`
}

// RunMetadata describes one orchestrator invocation.
type RunMetadata struct {
	RunID          string    `json:"run_id"`
	RunAt          time.Time `json:"run_at"`
	TotalIncidents int       `json:"total_incidents"`
	TimeRange      string    `json:"time_range"` // resolved tag after fallback
	Detectors      []string  `json:"detectors"`  // names of detectors that executed
}

// AnalysisResult is the complete output of one analysis run.
// Success is false both for the insufficient-data condition (fewer than 3
// incidents after filtering) and for retrieval failures; in the latter case
// the orchestrator additionally returns a non-nil error.
type AnalysisResult struct {
	Success   bool                `json:"success"`
	Patterns  []Pattern           `json:"patterns"`
	Basic     BasicStatistics     `json:"basic_statistics"`
	Advanced  *AdvancedStatistics `json:"advanced_statistics,omitempty"`
	Metadata  RunMetadata         `json:"metadata"`
}
