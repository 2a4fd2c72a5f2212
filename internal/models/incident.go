// Package models defines the core domain entities for the crimelens engine.
// These models represent reported incidents, the patterns derived from them,
// and the result of one analysis run. All models include built-in validation
// to ensure data integrity throughout the application.
//
// Terminology:
//   - Incident: a single reported crime event (type, severity, location, time).
//   - Pattern: a derived, confidence-scored finding referencing the incidents
//     that support it.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// CrimeType is the closed enumeration of incident categories.
type CrimeType string

const (
	CrimeTheft       CrimeType = "theft"
	CrimeBurglary    CrimeType = "burglary"
	CrimeRobbery     CrimeType = "robbery"
	CrimeAssault     CrimeType = "assault"
	CrimeVandalism   CrimeType = "vandalism"
	CrimeFraud       CrimeType = "fraud"
	CrimeDrugOffense CrimeType = "drug_offense"
	CrimeVehicle     CrimeType = "vehicle_theft"
)

// CrimeTypes lists every valid crime type in canonical order.
var CrimeTypes = []CrimeType{
	CrimeTheft, CrimeBurglary, CrimeRobbery, CrimeAssault,
	CrimeVandalism, CrimeFraud, CrimeDrugOffense, CrimeVehicle,
}

// Valid reports whether t is a member of the closed enumeration.
func (t CrimeType) Valid() bool {
	for _, known := range CrimeTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Severity is the ordinal severity of an incident: low < medium < high < critical.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Scale maps a severity onto the 1–4 ordinal scale used by the scoring formulas.
// Unknown severities map to 0.
func (s Severity) Scale() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

// Point is a position in the planar analysis grid. Units are abstract
// distance units (the geographic cluster threshold is expressed in the
// same units).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Incident represents a single reported crime event. Incidents are owned by
// the external store and are immutable for the duration of an analysis run.
type Incident struct {
	ID          string    `json:"id"`
	Type        CrimeType `json:"type"`
	Severity    Severity  `json:"severity"`
	Location    string    `json:"location"`              // free-text address key
	Coordinates *Point    `json:"coordinates,omitempty"` // optional derived position
	OccurredAt  time.Time `json:"occurred_at"`
}

// LocationKey returns the normalized grouping key for the incident's
// location: lowercased and trimmed. An empty key marks the incident as
// unusable for grouping.
func (i *Incident) LocationKey() string {
	return strings.ToLower(strings.TrimSpace(i.Location))
}

// Validate checks that all incident fields are valid.
func (i *Incident) Validate() error {
	if i.ID == "" {
		return errors.New("incident ID must not be empty")
	}
	if !i.Type.Valid() {
		return fmt.Errorf("unknown crime type %q", i.Type)
	}
	if i.Severity.Scale() == 0 {
		return fmt.Errorf("unknown severity %q", i.Severity)
	}
	if i.LocationKey() == "" {
		return errors.New("incident location must not be empty")
	}
	if i.OccurredAt.IsZero() {
		return errors.New("incident timestamp must not be zero")
	}
	return nil
}
