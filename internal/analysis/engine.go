// Package analysis implements the crime-pattern analysis engine: it pulls a
// filtered incident snapshot from the incident source, runs six independent
// pattern detectors over it, scores and ranks the candidate patterns, and
// returns the ordered result with run statistics.
//
// The engine is a pure batch computation. Each run works on an immutable
// in-memory snapshot fetched once at the start; no state survives between
// runs, and detectors are read-only over the shared dataset.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/crimelens/crimelens/internal/geocode"
	"github.com/crimelens/crimelens/internal/logger"
	"github.com/crimelens/crimelens/internal/models"
)

// IncidentSource is the engine's only external collaborator: a queryable,
// read-only incident store. Implementations return incidents sorted by
// timestamp descending.
type IncidentSource interface {
	QueryIncidents(ctx context.Context, opts models.AnalysisOptions) ([]models.Incident, error)
}

// minIncidentsForAnalysis is the orchestrator's short-circuit floor: with
// fewer filtered incidents no detector runs at all.
const minIncidentsForAnalysis = 3

// Engine orchestrates one analysis run end to end.
type Engine struct {
	source    IncidentSource
	geo       geocode.Geocoder
	detectors []Detector
}

// New builds an engine with the standard six detectors. clusterDistance is
// the geographic cluster linkage threshold in grid units; the crime-series
// linkage reuses it at double range with a 14-day temporal gate.
func New(source IncidentSource, geo geocode.Geocoder, clusterDistance float64) *Engine {
	return &Engine{
		source: source,
		geo:    geo,
		detectors: []Detector{
			HotspotDetector{},
			TemporalDetector{},
			SeriesDetector{LinkDistance: clusterDistance * 2, LinkDays: 14},
			GeoClusterDetector{Distance: clusterDistance},
			PredictiveDetector{},
			RiskDetector{},
		},
	}
}

// Run executes one analysis: fetch, filter, detect, rank. A retrieval
// failure returns a failed result together with the error; the
// insufficient-data condition (fewer than 3 usable incidents) returns a
// well-formed failed result with basic statistics and a nil error.
func (e *Engine) Run(ctx context.Context, opts models.AnalysisOptions) (*models.AnalysisResult, error) {
	now := time.Now()
	_, resolved := models.ResolveTimeRange(opts.TimeRange, now)
	meta := models.RunMetadata{
		RunID:     uuid.New().String(),
		RunAt:     now,
		TimeRange: resolved,
	}

	incidents, err := e.source.QueryIncidents(ctx, opts)
	if err != nil {
		return &models.AnalysisResult{
			Success:  false,
			Patterns: []models.Pattern{},
			Metadata: meta,
		}, fmt.Errorf("incident fetch failed: %w", err)
	}

	dropped := len(incidents)
	incidents = sanitize(incidents)
	dropped -= len(incidents)
	if dropped > 0 {
		logger.Warn("Excluded %d malformed incidents from run %s", dropped, meta.RunID)
	}

	meta.TotalIncidents = len(incidents)
	basic := basicStats(incidents)

	if len(incidents) < minIncidentsForAnalysis {
		logger.Info("Run %s: %d incidents after filtering, below analysis floor", meta.RunID, len(incidents))
		return &models.AnalysisResult{
			Success:  false,
			Patterns: []models.Pattern{},
			Basic:    basic,
			Metadata: meta,
		}, nil
	}

	ds := newDataset(incidents, now, e.geo)

	var candidates []models.Pattern
	perDetector := make(map[string]int)
	for _, d := range e.detectors {
		// Deadline check before each detector: a very large set must not keep
		// starting detectors after the caller's deadline has passed.
		if err := ctx.Err(); err != nil {
			logger.Warn("Run %s: context done before %s detector, stopping (%v)", meta.RunID, d.Name(), err)
			break
		}

		emitted := d.Detect(ds)
		perDetector[d.Name()] = len(emitted)
		candidates = append(candidates, emitted...)
		meta.Detectors = append(meta.Detectors, d.Name())
		logger.Debug("Run %s: detector %s emitted %d candidates", meta.RunID, d.Name(), len(emitted))
	}

	patterns := FilterAndRank(candidates, opts.EffectiveMinConfidence())
	logger.Info("Run %s: %d incidents, %d candidates, %d patterns above confidence %.2f",
		meta.RunID, len(incidents), len(candidates), len(patterns), opts.EffectiveMinConfidence())

	return &models.AnalysisResult{
		Success:  true,
		Patterns: patterns,
		Basic:    basic,
		Advanced: advancedStats(perDetector, patterns),
		Metadata: meta,
	}, nil
}
