package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/crimelens/crimelens/internal/models"
)

// risingFixture puts d incidents on day d of the 14-day window at one
// location: a perfectly linear upward trend.
func risingFixture(seq *incidentSeq, loc string, now time.Time) []models.Incident {
	windowStart := now.AddDate(0, 0, -predictiveWindowDays)
	var incidents []models.Incident
	for d := 0; d < predictiveWindowDays; d++ {
		day := windowStart.Add(time.Duration(d)*24*time.Hour + 2*time.Hour)
		for k := 0; k < d; k++ {
			incidents = append(incidents, makeIncident(seq.next(), models.CrimeTheft, models.SeverityMedium,
				loc, 50, 50, day.Add(time.Duration(k)*time.Minute)))
		}
	}
	return incidents
}

func TestPredictiveDetectorEmitsForRisingTrend(t *testing.T) {
	var seq incidentSeq
	incidents := risingFixture(&seq, "Station Rd", testBase)

	ds := newTestDataset(t, testBase, incidents)
	patterns := PredictiveDetector{}.Detect(ds)

	if len(patterns) != 1 {
		t.Fatalf("Expected 1 predictive pattern, got %d", len(patterns))
	}
	p := patterns[0]

	// Perfect linear fit: trend confidence caps at 0.95, discounted by 0.8.
	if math.Abs(p.Confidence-0.95*predictionDiscount) > 1e-9 {
		t.Errorf("Confidence = %v, want %v", p.Confidence, 0.95*predictionDiscount)
	}
	if p.Statistics["projectionWindow"] != "7-14 days" {
		t.Errorf("projectionWindow = %v", p.Statistics["projectionWindow"])
	}
	slope, ok := p.Statistics["growthRatePerDay"].(float64)
	if !ok || slope <= 0 {
		t.Errorf("growthRatePerDay = %v, want positive", p.Statistics["growthRatePerDay"])
	}
	if len(p.RelatedIncidents) != len(incidents) {
		t.Errorf("Expected %d related incidents, got %d", len(incidents), len(p.RelatedIncidents))
	}
}

func TestPredictiveDetectorIgnoresFallingTrend(t *testing.T) {
	var seq incidentSeq
	windowStart := testBase.AddDate(0, 0, -predictiveWindowDays)
	var incidents []models.Incident
	for d := 0; d < predictiveWindowDays; d++ {
		day := windowStart.Add(time.Duration(d)*24*time.Hour + 2*time.Hour)
		for k := 0; k < predictiveWindowDays-d; k++ {
			incidents = append(incidents, makeIncident(seq.next(), models.CrimeTheft, models.SeverityMedium,
				"Fading Ave", 50, 50, day.Add(time.Duration(k)*time.Minute)))
		}
	}

	ds := newTestDataset(t, testBase, incidents)
	if got := (PredictiveDetector{}).Detect(ds); len(got) != 0 {
		t.Fatalf("Expected no predictions for a falling trend, got %d", len(got))
	}
}

func TestPredictiveDetectorIgnoresOldIncidents(t *testing.T) {
	// Plenty of volume, but all of it older than the 14-day window.
	var seq incidentSeq
	var incidents []models.Incident
	for i := 0; i < 10; i++ {
		incidents = append(incidents, makeIncident(seq.next(), models.CrimeTheft, models.SeverityMedium,
			"History Ln", 50, 50, testBase.AddDate(0, 0, -20-i)))
	}
	ds := newTestDataset(t, testBase, incidents)
	if got := (PredictiveDetector{}).Detect(ds); len(got) != 0 {
		t.Fatalf("Expected no predictions from stale incidents, got %d", len(got))
	}
}

func TestPredictiveDetectorRequiresTwoIncidentsPerLocation(t *testing.T) {
	incidents := []models.Incident{
		makeIncident("only", models.CrimeTheft, models.SeverityMedium, "Lone St", 0, 0, testBase.AddDate(0, 0, -1)),
	}
	ds := newTestDataset(t, testBase, incidents)
	if got := (PredictiveDetector{}).Detect(ds); len(got) != 0 {
		t.Fatalf("Expected no predictions for a single incident, got %d", len(got))
	}
}
