package models

import (
	"errors"
	"fmt"
	"time"
)

// PatternKind identifies which detector family produced a pattern.
type PatternKind string

const (
	KindHotspot           PatternKind = "hotspot"
	KindTemporal          PatternKind = "temporal-pattern"
	KindCrimeSeries       PatternKind = "crime-series"
	KindGeographicCluster PatternKind = "geographic-cluster"
	KindPredictiveHotspot PatternKind = "predictive-hotspot"
	KindRiskAssessment    PatternKind = "risk-assessment"
)

// Valid reports whether k is a known pattern kind.
func (k PatternKind) Valid() bool {
	switch k {
	case KindHotspot, KindTemporal, KindCrimeSeries,
		KindGeographicCluster, KindPredictiveHotspot, KindRiskAssessment:
		return true
	}
	return false
}

// RiskLevel is the three-tier categorical risk summary derived from
// confidence, severity, and volume. It is never caller input.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// MultipleLocations is the location value used when a pattern's supporting
// incidents span more than one normalized location key.
const MultipleLocations = "Multiple locations"

// Pattern represents a derived, confidence-scored finding. Patterns are
// constructed by detectors via NewPattern, which enforces the construction
// invariants; an invalid pattern reaching a caller is a programming defect.
type Pattern struct {
	ID               string         `json:"id"`
	Kind             PatternKind    `json:"kind"`
	Subtype          string         `json:"subtype,omitempty"` // detector-specific refinement, e.g. "hourly"
	Description      string         `json:"description"`
	Confidence       float64        `json:"confidence"` // always in [0,1]
	Location         string         `json:"location"`
	Coordinates      *Point         `json:"coordinates,omitempty"`
	Statistics       map[string]any `json:"statistics,omitempty"`   // detector-specific payload
	TimePattern      string         `json:"time_pattern,omitempty"` // temporal summary
	RelatedIncidents []string       `json:"related_incidents"`      // ordered, non-empty
	Recommendations  []string       `json:"recommendations,omitempty"`
	RiskLevel        RiskLevel      `json:"risk_level"`
	DetectedAt       time.Time      `json:"detected_at"`
}

// NewPattern validates and returns a pattern, panicking on invariant
// violations. Detectors construct every emitted pattern through this
// function; a panic here means a detector produced an impossible value
// and must be fixed, not handled.
func NewPattern(p Pattern) Pattern {
	if err := p.Validate(); err != nil {
		panic(fmt.Sprintf("invalid pattern from detector: %v", err))
	}
	return p
}

// Validate checks the pattern construction invariants.
func (p *Pattern) Validate() error {
	if !p.Kind.Valid() {
		return fmt.Errorf("unknown pattern kind %q", p.Kind)
	}
	if p.Description == "" {
		return errors.New("pattern description must not be empty")
	}
	if p.Confidence < 0.0 || p.Confidence > 1.0 {
		return fmt.Errorf("confidence %v must be between 0.0 and 1.0", p.Confidence)
	}
	if p.Location == "" {
		return errors.New("pattern location must not be empty")
	}
	if len(p.RelatedIncidents) == 0 {
		return errors.New("pattern must reference at least one incident")
	}
	switch p.RiskLevel {
	case RiskLow, RiskMedium, RiskHigh:
	default:
		return fmt.Errorf("unknown risk level %q", p.RiskLevel)
	}
	return nil
}
