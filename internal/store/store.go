// Package store provides the sqlite-backed incident store. It implements
// the query contract the analysis engine consumes (time range, location
// substring, crime types, timestamp-descending order) and persists the
// patterns each run produces. The engine itself is read-only over incidents.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/crimelens/crimelens/internal/models"
)

// Store wraps the sqlite database holding incidents and persisted patterns.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS incidents (
	id           TEXT PRIMARY KEY,
	crime_type   TEXT NOT NULL,
	severity     TEXT NOT NULL,
	location     TEXT NOT NULL,
	coord_x      REAL,
	coord_y      REAL,
	occurred_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_incidents_occurred_at ON incidents(occurred_at);
CREATE INDEX IF NOT EXISTS idx_incidents_crime_type ON incidents(crime_type);

CREATE TABLE IF NOT EXISTS patterns (
	id                TEXT PRIMARY KEY,
	run_id            TEXT NOT NULL,
	kind              TEXT NOT NULL,
	subtype           TEXT,
	description       TEXT NOT NULL,
	confidence        REAL NOT NULL,
	location          TEXT NOT NULL,
	risk_level        TEXT NOT NULL,
	statistics        TEXT,
	time_pattern      TEXT,
	related_incidents TEXT NOT NULL,
	recommendations   TEXT,
	detected_at       TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_patterns_run_id ON patterns(run_id);
`

// Open opens (creating if necessary) the sqlite database at path and ensures
// the schema exists. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing database handle. The caller owns schema setup.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertIncident stores one incident after validating it.
func (s *Store) InsertIncident(ctx context.Context, inc *models.Incident) error {
	if err := inc.Validate(); err != nil {
		return fmt.Errorf("invalid incident: %w", err)
	}

	var x, y sql.NullFloat64
	if inc.Coordinates != nil {
		x = sql.NullFloat64{Float64: inc.Coordinates.X, Valid: true}
		y = sql.NullFloat64{Float64: inc.Coordinates.Y, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO incidents (id, crime_type, severity, location, coord_x, coord_y, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inc.ID, string(inc.Type), string(inc.Severity), inc.Location, x, y, inc.OccurredAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert incident %s: %w", inc.ID, err)
	}
	return nil
}

// QueryIncidents returns the incidents matching the options, newest first.
// The time-range tag is resolved against the wall clock at call time with
// the standard 30-day fallback; location is a case-insensitive substring
// match; an empty crime-type set matches all types.
func (s *Store) QueryIncidents(ctx context.Context, opts models.AnalysisOptions) ([]models.Incident, error) {
	since, _ := models.ResolveTimeRange(opts.TimeRange, time.Now())

	query := `
		SELECT id, crime_type, severity, location, coord_x, coord_y, occurred_at
		FROM incidents
		WHERE occurred_at >= ?`
	args := []any{since.UTC()}

	if loc := strings.TrimSpace(opts.Location); loc != "" {
		query += ` AND LOWER(location) LIKE ?`
		args = append(args, "%"+strings.ToLower(loc)+"%")
	}

	if len(opts.CrimeTypes) > 0 {
		placeholders := make([]string, len(opts.CrimeTypes))
		for i, t := range opts.CrimeTypes {
			placeholders[i] = "?"
			args = append(args, string(t))
		}
		query += ` AND crime_type IN (` + strings.Join(placeholders, ", ") + `)`
	}

	query += ` ORDER BY occurred_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query incidents: %w", err)
	}
	defer rows.Close()

	var incidents []models.Incident
	for rows.Next() {
		var (
			inc  models.Incident
			x, y sql.NullFloat64
		)
		if err := rows.Scan(&inc.ID, &inc.Type, &inc.Severity, &inc.Location, &x, &y, &inc.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan incident: %w", err)
		}
		if x.Valid && y.Valid {
			inc.Coordinates = &models.Point{X: x.Float64, Y: y.Float64}
		}
		incidents = append(incidents, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate incidents: %w", err)
	}
	return incidents, nil
}

// SavePatterns persists the patterns of one analysis run in a single
// transaction.
func (s *Store) SavePatterns(ctx context.Context, runID string, patterns []models.Pattern) error {
	if len(patterns) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO patterns (id, run_id, kind, subtype, description, confidence,
			location, risk_level, statistics, time_pattern, related_incidents,
			recommendations, detected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range patterns {
		stats, err := json.Marshal(p.Statistics)
		if err != nil {
			return fmt.Errorf("failed to marshal statistics for pattern %s: %w", p.ID, err)
		}
		related, err := json.Marshal(p.RelatedIncidents)
		if err != nil {
			return fmt.Errorf("failed to marshal related incidents for pattern %s: %w", p.ID, err)
		}
		recs, err := json.Marshal(p.Recommendations)
		if err != nil {
			return fmt.Errorf("failed to marshal recommendations for pattern %s: %w", p.ID, err)
		}

		if _, err := stmt.ExecContext(ctx,
			p.ID, runID, string(p.Kind), p.Subtype, p.Description, p.Confidence,
			p.Location, string(p.RiskLevel), string(stats), p.TimePattern,
			string(related), string(recs), p.DetectedAt.UTC(),
		); err != nil {
			return fmt.Errorf("failed to insert pattern %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit patterns: %w", err)
	}
	return nil
}

// CountPatterns returns the number of persisted patterns for a run.
func (s *Store) CountPatterns(ctx context.Context, runID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM patterns WHERE run_id = ?`, runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count patterns: %w", err)
	}
	return n, nil
}
