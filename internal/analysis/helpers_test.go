package analysis

import (
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/crimelens/crimelens/internal/models"
)

// incidentSeq hands out sequential incident IDs per test.
type incidentSeq struct {
	n int
}

func (s *incidentSeq) next() string {
	s.n++
	return fmt.Sprintf("inc-%d", s.n)
}

// makeIncident builds a test incident with explicit coordinates so spatial
// behavior does not depend on the geocoder.
func makeIncident(id string, ct models.CrimeType, sev models.Severity, loc string, x, y float64, at time.Time) models.Incident {
	return models.Incident{
		ID:          id,
		Type:        ct,
		Severity:    sev,
		Location:    loc,
		Coordinates: &models.Point{X: x, Y: y},
		OccurredAt:  at,
	}
}

// newTestDataset sorts incidents newest first (the order the store contract
// guarantees) and indexes them the way the engine does.
func newTestDataset(t *testing.T, now time.Time, incidents []models.Incident) *Dataset {
	t.Helper()
	sorted := make([]models.Incident, len(incidents))
	copy(sorted, incidents)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OccurredAt.After(sorted[j].OccurredAt)
	})
	return newDataset(sanitize(sorted), now, nil)
}

// patternsOfKind filters detector output by kind and subtype ("" matches any).
func patternsOfKind(patterns []models.Pattern, kind models.PatternKind, subtype string) []models.Pattern {
	var out []models.Pattern
	for _, p := range patterns {
		if p.Kind == kind && (subtype == "" || p.Subtype == subtype) {
			out = append(out, p)
		}
	}
	return out
}

// idSet turns related-incident slices into a lookup set.
func idSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
