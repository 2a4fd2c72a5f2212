package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/crimelens/crimelens/internal/models"
)

func TestLinearTrendPerfectLine(t *testing.T) {
	slope, r2 := linearTrend([]float64{1, 2, 3, 4, 5})
	if math.Abs(slope-1) > 1e-9 {
		t.Errorf("slope = %v, want 1", slope)
	}
	if math.Abs(r2-1) > 1e-9 {
		t.Errorf("r2 = %v, want 1", r2)
	}
}

func TestLinearTrendFlatAndShortSeries(t *testing.T) {
	if slope, r2 := linearTrend([]float64{3, 3, 3}); slope != 0 || r2 != 0 {
		t.Errorf("flat series: slope=%v r2=%v, want 0,0", slope, r2)
	}
	if slope, r2 := linearTrend([]float64{7}); slope != 0 || r2 != 0 {
		t.Errorf("short series: slope=%v r2=%v, want 0,0", slope, r2)
	}
}

func TestLinearTrendDecreasing(t *testing.T) {
	slope, _ := linearTrend([]float64{5, 4, 3, 2})
	if slope >= 0 {
		t.Errorf("slope = %v, want negative", slope)
	}
}

func TestTrendConfidence(t *testing.T) {
	if got := trendConfidence(-0.5, 1); got != 0 {
		t.Errorf("falling trend confidence = %v, want 0", got)
	}
	if got := trendConfidence(0, 1); got != 0 {
		t.Errorf("flat trend confidence = %v, want 0", got)
	}
	// Perfect fit, strong growth saturates at the 0.95 cap.
	if got := trendConfidence(2, 1); got != 0.95 {
		t.Errorf("saturated trend confidence = %v, want 0.95", got)
	}
	// Half fit, half growth.
	want := 0.5*0.8 + 0.5*0.4
	if got := trendConfidence(0.4, 0.8); math.Abs(got-want) > 1e-9 {
		t.Errorf("trend confidence = %v, want %v", got, want)
	}
}

func TestDailyCounts(t *testing.T) {
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	incidents := []models.Incident{
		makeIncident("a", models.CrimeTheft, models.SeverityLow, "x", 0, 0, from.Add(2*time.Hour)),           // day 0
		makeIncident("b", models.CrimeTheft, models.SeverityLow, "x", 0, 0, from.AddDate(0, 0, 3)),           // day 3
		makeIncident("c", models.CrimeTheft, models.SeverityLow, "x", 0, 0, from.AddDate(0, 0, 3).Add(time.Hour)), // day 3
		makeIncident("d", models.CrimeTheft, models.SeverityLow, "x", 0, 0, from.AddDate(0, 0, 20)),          // outside
		makeIncident("e", models.CrimeTheft, models.SeverityLow, "x", 0, 0, from.AddDate(0, 0, -1)),          // before window
	}

	counts := dailyCounts(incidents, from, 14)
	if len(counts) != 14 {
		t.Fatalf("Expected 14 buckets, got %d", len(counts))
	}
	if counts[0] != 1 || counts[3] != 2 {
		t.Errorf("counts[0]=%v counts[3]=%v, want 1 and 2", counts[0], counts[3])
	}
	var total float64
	for _, c := range counts {
		total += c
	}
	if total != 3 {
		t.Errorf("total = %v, want 3 (out-of-window incidents ignored)", total)
	}
}
