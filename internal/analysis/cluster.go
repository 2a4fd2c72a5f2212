package analysis

import (
	"math"

	"github.com/crimelens/crimelens/internal/models"
)

// distance is the Euclidean distance between two grid positions.
func distance(a, b models.Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// linkFunc reports whether two incidents are close enough to be linked into
// the same cluster. Implementations must be symmetric.
type linkFunc func(a, b *models.Incident) bool

// clusterIncidents partitions incidents with greedy single-link clustering:
// incidents are visited in input order, each joining the first existing
// cluster that contains a linked member, otherwise seeding a new cluster.
// Every incident lands in exactly one cluster, and identical input always
// produces identical clusters.
func clusterIncidents(incidents []models.Incident, linked linkFunc) [][]models.Incident {
	var clusters [][]models.Incident

next:
	for i := range incidents {
		for c := range clusters {
			for m := range clusters[c] {
				if linked(&incidents[i], &clusters[c][m]) {
					clusters[c] = append(clusters[c], incidents[i])
					continue next
				}
			}
		}
		clusters = append(clusters, []models.Incident{incidents[i]})
	}
	return clusters
}

// spatialLink builds a linkFunc joining incidents within maxDistance of each
// other on the grid. Incidents whose position cannot be resolved are never
// spatially linked.
func (d *Dataset) spatialLink(maxDistance float64) linkFunc {
	return func(a, b *models.Incident) bool {
		pa, aok := d.pointOf(a)
		pb, bok := d.pointOf(b)
		if !aok || !bok {
			return false
		}
		return distance(pa, pb) <= maxDistance
	}
}

// seriesLink builds a linkFunc joining incidents that are close both in time
// and in space, the linkage used for crime-series candidates.
func (d *Dataset) seriesLink(maxDistance float64, maxGap float64) linkFunc {
	spatial := d.spatialLink(maxDistance)
	return func(a, b *models.Incident) bool {
		gap := math.Abs(a.OccurredAt.Sub(b.OccurredAt).Hours())
		if gap > maxGap*24 {
			return false
		}
		return spatial(a, b)
	}
}

// clusterRadius returns the maximum member distance from the center.
func (d *Dataset) clusterRadius(incidents []models.Incident, center models.Point) float64 {
	radius := 0.0
	for i := range incidents {
		p, ok := d.pointOf(&incidents[i])
		if !ok {
			continue
		}
		if r := distance(p, center); r > radius {
			radius = r
		}
	}
	return radius
}
