package analysis

import (
	"testing"
	"time"

	"github.com/crimelens/crimelens/internal/models"
)

func TestSeriesDetectorEmitsLinkedCluster(t *testing.T) {
	// 4 burglaries a few days and a few hundred units apart: one series.
	var seq incidentSeq
	var incidents []models.Incident
	severities := []models.Severity{models.SeverityLow, models.SeverityMedium, models.SeverityMedium, models.SeverityHigh}
	for i := 0; i < 4; i++ {
		incidents = append(incidents, makeIncident(seq.next(), models.CrimeBurglary, severities[i],
			"Block 7", float64(i*100), 0, testBase.AddDate(0, 0, -(3-i)*2)))
	}

	ds := newTestDataset(t, testBase, incidents)
	patterns := SeriesDetector{LinkDistance: 500, LinkDays: 14}.Detect(ds)

	if len(patterns) != 1 {
		t.Fatalf("Expected 1 series pattern, got %d", len(patterns))
	}
	p := patterns[0]
	if p.Kind != models.KindCrimeSeries || p.Subtype != string(models.CrimeBurglary) {
		t.Errorf("Unexpected kind/subtype: %v/%v", p.Kind, p.Subtype)
	}
	// 4/5 * 0.8 = 0.64
	if p.Confidence != 0.64 {
		t.Errorf("Confidence = %v, want 0.64", p.Confidence)
	}
	if len(p.RelatedIncidents) != 4 {
		t.Errorf("Expected 4 related incidents, got %d", len(p.RelatedIncidents))
	}
	// Severity rises from low toward high over the series timeline.
	if p.Statistics["escalation"] != "escalating" {
		t.Errorf("escalation = %v, want escalating", p.Statistics["escalation"])
	}
}

func TestSeriesDetectorGatesSmallClusters(t *testing.T) {
	// A 3-incident cluster scores 3/5*0.8 = 0.48, below the 0.5 gate.
	var seq incidentSeq
	var incidents []models.Incident
	for i := 0; i < 3; i++ {
		incidents = append(incidents, makeIncident(seq.next(), models.CrimeRobbery, models.SeverityMedium,
			"Block 7", float64(i*50), 0, testBase.AddDate(0, 0, -i)))
	}
	ds := newTestDataset(t, testBase, incidents)
	if got := (SeriesDetector{LinkDistance: 500, LinkDays: 14}).Detect(ds); len(got) != 0 {
		t.Fatalf("Expected no series from a 3-incident cluster, got %d", len(got))
	}
}

func TestSeriesDetectorSplitsDistantClusters(t *testing.T) {
	// Two groups of 4 thefts each, 30 days apart: two separate series.
	var seq incidentSeq
	var incidents []models.Incident
	for i := 0; i < 4; i++ {
		incidents = append(incidents, makeIncident(seq.next(), models.CrimeTheft, models.SeverityMedium,
			"West End", float64(i*40), 0, testBase.AddDate(0, 0, -i)))
	}
	for i := 0; i < 4; i++ {
		incidents = append(incidents, makeIncident(seq.next(), models.CrimeTheft, models.SeverityMedium,
			"West End", float64(i*40), 0, testBase.AddDate(0, 0, -30-i)))
	}

	ds := newTestDataset(t, testBase, incidents)
	patterns := SeriesDetector{LinkDistance: 500, LinkDays: 14}.Detect(ds)
	if len(patterns) != 2 {
		t.Fatalf("Expected 2 series patterns, got %d", len(patterns))
	}
}

func TestEscalationClassification(t *testing.T) {
	at := func(day int) time.Time { return testBase.AddDate(0, 0, day) }
	mk := func(sev models.Severity, day int) models.Incident {
		return makeIncident("x", models.CrimeAssault, sev, "x", 0, 0, at(day))
	}

	stable := []models.Incident{mk(models.SeverityMedium, 0), mk(models.SeverityMedium, 1), mk(models.SeverityMedium, 2)}
	if got := escalation(stable); got != "stable" {
		t.Errorf("stable cluster classified %q", got)
	}

	rising := []models.Incident{mk(models.SeverityLow, 0), mk(models.SeverityMedium, 1), mk(models.SeverityCritical, 2)}
	if got := escalation(rising); got != "escalating" {
		t.Errorf("rising cluster classified %q", got)
	}

	falling := []models.Incident{mk(models.SeverityCritical, 0), mk(models.SeverityMedium, 1), mk(models.SeverityLow, 2)}
	if got := escalation(falling); got != "de-escalating" {
		t.Errorf("falling cluster classified %q", got)
	}
}
