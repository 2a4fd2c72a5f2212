package analysis

import (
	"github.com/crimelens/crimelens/internal/models"
)

// Detector is the shared contract of the six pattern analyzers. Detectors
// are pure and read-only over the dataset: the same dataset always produces
// the same patterns, and detectors may therefore run in any order.
type Detector interface {
	Name() string
	Detect(ds *Dataset) []models.Pattern
}

// minGroupSize is the minimum incident count for most per-group analyses;
// the orchestrator also refuses to run on fewer filtered incidents overall.
const minGroupSize = 3
