package store

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimelens/crimelens/internal/models"
)

func newMemStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func insertAll(t *testing.T, s *Store, incidents ...models.Incident) {
	t.Helper()
	for i := range incidents {
		require.NoError(t, s.InsertIncident(context.Background(), &incidents[i]))
	}
}

func TestInsertAndQueryRoundTrip(t *testing.T) {
	s := newMemStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	insertAll(t, s,
		models.Incident{ID: "a", Type: models.CrimeTheft, Severity: models.SeverityLow,
			Location: "Main St", Coordinates: &models.Point{X: 12.5, Y: 40}, OccurredAt: now.Add(-3 * time.Hour)},
		models.Incident{ID: "b", Type: models.CrimeBurglary, Severity: models.SeverityHigh,
			Location: "Main St", OccurredAt: now.Add(-time.Hour)},
		models.Incident{ID: "c", Type: models.CrimeAssault, Severity: models.SeverityCritical,
			Location: "Oak Ave", OccurredAt: now.Add(-2 * time.Hour)},
	)

	got, err := s.QueryIncidents(context.Background(), models.AnalysisOptions{})
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Newest first.
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
	assert.Equal(t, "a", got[2].ID)

	// Coordinates survive the round trip, including their absence.
	require.NotNil(t, got[2].Coordinates)
	assert.Equal(t, 12.5, got[2].Coordinates.X)
	assert.Equal(t, 40.0, got[2].Coordinates.Y)
	assert.Nil(t, got[0].Coordinates)
}

func TestInsertIncidentRejectsInvalid(t *testing.T) {
	s := newMemStore(t)

	err := s.InsertIncident(context.Background(), &models.Incident{
		ID: "bad", Type: "arson", Severity: models.SeverityLow,
		Location: "Main St", OccurredAt: time.Now(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid incident")
}

func TestQueryIncidentsTimeRange(t *testing.T) {
	s := newMemStore(t)
	now := time.Now().UTC()

	insertAll(t, s,
		models.Incident{ID: "recent", Type: models.CrimeTheft, Severity: models.SeverityLow,
			Location: "Main St", OccurredAt: now.Add(-24 * time.Hour)},
		models.Incident{ID: "ancient", Type: models.CrimeTheft, Severity: models.SeverityLow,
			Location: "Main St", OccurredAt: now.AddDate(0, 0, -45)},
	)

	// Default range is 30 days: the 45-day-old incident stays out.
	got, err := s.QueryIncidents(context.Background(), models.AnalysisOptions{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "recent", got[0].ID)

	// The 90-day range brings it back.
	got, err = s.QueryIncidents(context.Background(), models.AnalysisOptions{TimeRange: models.Range90Days})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestQueryIncidentsLocationSubstring(t *testing.T) {
	s := newMemStore(t)
	now := time.Now().UTC()

	insertAll(t, s,
		models.Incident{ID: "a", Type: models.CrimeTheft, Severity: models.SeverityLow,
			Location: "North Main Street", OccurredAt: now.Add(-time.Hour)},
		models.Incident{ID: "b", Type: models.CrimeTheft, Severity: models.SeverityLow,
			Location: "Oak Avenue", OccurredAt: now.Add(-2 * time.Hour)},
	)

	got, err := s.QueryIncidents(context.Background(), models.AnalysisOptions{Location: "MAIN"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestQueryIncidentsCrimeTypes(t *testing.T) {
	s := newMemStore(t)
	now := time.Now().UTC()

	insertAll(t, s,
		models.Incident{ID: "t", Type: models.CrimeTheft, Severity: models.SeverityLow,
			Location: "Main St", OccurredAt: now.Add(-time.Hour)},
		models.Incident{ID: "b", Type: models.CrimeBurglary, Severity: models.SeverityLow,
			Location: "Main St", OccurredAt: now.Add(-2 * time.Hour)},
		models.Incident{ID: "f", Type: models.CrimeFraud, Severity: models.SeverityLow,
			Location: "Main St", OccurredAt: now.Add(-3 * time.Hour)},
	)

	got, err := s.QueryIncidents(context.Background(), models.AnalysisOptions{
		CrimeTypes: []models.CrimeType{models.CrimeTheft, models.CrimeFraud},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "t", got[0].ID)
	assert.Equal(t, "f", got[1].ID)
}

func TestSavePatternsAndCount(t *testing.T) {
	s := newMemStore(t)
	now := time.Now().UTC()

	patterns := []models.Pattern{
		{
			ID: "p1", Kind: models.KindHotspot, Subtype: "theft",
			Description: "cluster on Main St", Confidence: 0.72, Location: "Main St",
			Statistics:       map[string]any{"count": 7},
			RelatedIncidents: []string{"a", "b"},
			Recommendations:  []string{"patrol"},
			RiskLevel:        models.RiskHigh, DetectedAt: now,
		},
		{
			ID: "p2", Kind: models.KindRiskAssessment, Subtype: "area-risk",
			Description: "elevated area risk", Confidence: 0.6, Location: "Oak Ave",
			RelatedIncidents: []string{"c"},
			RiskLevel:        models.RiskMedium, DetectedAt: now,
		},
	}

	require.NoError(t, s.SavePatterns(context.Background(), "run-1", patterns))

	n, err := s.CountPatterns(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.CountPatterns(context.Background(), "run-2")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// Empty runs persist nothing and do not error.
	require.NoError(t, s.SavePatterns(context.Background(), "run-3", nil))
}

func TestQueryIncidentsPropagatesError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, crime_type").WillReturnError(errors.New("disk I/O error"))

	s := NewWithDB(db)
	_, err = s.QueryIncidents(context.Background(), models.AnalysisOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query incidents")
	assert.NoError(t, mock.ExpectationsWereMet())
}
