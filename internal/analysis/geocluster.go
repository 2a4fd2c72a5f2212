package analysis

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/crimelens/crimelens/internal/models"
)

// GeoClusterDetector groups the whole filtered set by spatial proximity,
// regardless of crime type. Clustering is deterministic single-link over a
// fixed distance threshold.
type GeoClusterDetector struct {
	Distance float64 // linkage threshold, grid units
}

// Name implements Detector.
func (GeoClusterDetector) Name() string { return "geo-cluster" }

const (
	geoClusterMinSize       = 4
	geoClusterMinConfidence = 0.4

	// minClusterRadius floors the radius used for the density figure so a
	// single-point cluster does not divide by zero.
	minClusterRadius = 1.0
)

// Detect implements Detector.
func (d GeoClusterDetector) Detect(ds *Dataset) []models.Pattern {
	var patterns []models.Pattern

	for _, cluster := range clusterIncidents(ds.Incidents, ds.spatialLink(d.Distance)) {
		if len(cluster) < geoClusterMinSize {
			continue
		}
		size := len(cluster)
		confidence := math.Min(0.8, float64(size)/8)
		if confidence < geoClusterMinConfidence {
			continue
		}

		center, ok := ds.centroid(cluster)
		if !ok {
			continue
		}
		radius := ds.clusterRadius(cluster, center)

		// Density is members per unit area over the cluster's disc.
		effRadius := math.Max(radius, minClusterRadius)
		density := float64(size) / (math.Pi * effRadius * effRadius)

		typeDist := make(map[string]int)
		for _, inc := range cluster {
			typeDist[string(inc.Type)]++
		}

		patterns = append(patterns, models.NewPattern(models.Pattern{
			ID:          uuid.New().String(),
			Kind:        models.KindGeographicCluster,
			Subtype:     "proximity",
			Description: fmt.Sprintf("Spatial cluster of %d incidents within a %.0f-unit radius", size, effRadius),
			Confidence:  confidence,
			Location:    patternLocation(cluster),
			Coordinates: &center,
			Statistics: map[string]any{
				"count":            size,
				"centerX":          center.X,
				"centerY":          center.Y,
				"radius":           radius,
				"density":          density,
				"typeDistribution": typeDist,
			},
			TimePattern:      fmt.Sprintf("%s to %s", earliestOf(cluster).Format("2006-01-02"), latestOf(cluster).Format("2006-01-02")),
			RelatedIncidents: incidentIDs(cluster),
			Recommendations: []string{
				"Deploy targeted patrols across the clustered area",
				"Assess environmental factors common to the cluster",
			},
			RiskLevel:  deriveRisk(confidence, averageSeverity(cluster), size),
			DetectedAt: ds.Now,
		}))
	}
	return patterns
}
