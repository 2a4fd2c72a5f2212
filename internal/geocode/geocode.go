// Package geocode resolves location keys to positions in the planar
// analysis grid. The engine depends only on the Geocoder interface; any
// implementation is acceptable as long as it returns a stable point for a
// stable key.
package geocode

import (
	"hash/fnv"
	"strings"

	"github.com/crimelens/crimelens/internal/models"
)

// GridSize is the extent of the synthetic analysis grid in distance units.
const GridSize = 10000.0

// Geocoder resolves a free-text location key to a grid position. The second
// return value is false when the key cannot be resolved.
type Geocoder interface {
	Locate(key string) (models.Point, bool)
}

// Static is a deterministic Geocoder that derives a stable synthetic point
// from the normalized key. It stands in for a real geocoding service in
// deployments that have none; two incidents with the same key always map to
// the same point, which is the only property the engine relies on.
type Static struct{}

// NewStatic returns a Static geocoder.
func NewStatic() *Static {
	return &Static{}
}

// Locate derives a grid point from the FNV-64a hash of the normalized key.
// An empty key does not resolve.
func (s *Static) Locate(key string) (models.Point, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return models.Point{}, false
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	sum := h.Sum64()

	// Split the hash into two independent halves, one per axis.
	x := float64(sum&0xFFFFFFFF) / float64(0xFFFFFFFF) * GridSize
	y := float64(sum>>32) / float64(0xFFFFFFFF) * GridSize
	return models.Point{X: x, Y: y}, true
}
