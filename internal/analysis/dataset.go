package analysis

import (
	"time"

	"github.com/crimelens/crimelens/internal/geocode"
	"github.com/crimelens/crimelens/internal/models"
)

// Dataset is the immutable per-run snapshot every detector reads: the
// filtered incident set (newest first) plus the location and crime-type
// indices built from it. Nothing in a Dataset outlives the run.
type Dataset struct {
	Incidents  []models.Incident
	ByLocation []Group
	ByType     []Group
	Now        time.Time
	Geo        geocode.Geocoder
}

// newDataset indexes an already-sanitized incident set.
func newDataset(incidents []models.Incident, now time.Time, geo geocode.Geocoder) *Dataset {
	return &Dataset{
		Incidents:  incidents,
		ByLocation: groupByLocation(incidents),
		ByType:     groupByType(incidents),
		Now:        now,
		Geo:        geo,
	}
}

// pointOf resolves an incident to a grid position: derived coordinates when
// present, otherwise the geocoder's stable point for its location key.
func (d *Dataset) pointOf(inc *models.Incident) (models.Point, bool) {
	if inc.Coordinates != nil {
		return *inc.Coordinates, true
	}
	if d.Geo == nil {
		return models.Point{}, false
	}
	return d.Geo.Locate(inc.LocationKey())
}

// centroid averages the resolvable positions of the incidents.
func (d *Dataset) centroid(incidents []models.Incident) (models.Point, bool) {
	var sum models.Point
	n := 0
	for i := range incidents {
		p, ok := d.pointOf(&incidents[i])
		if !ok {
			continue
		}
		sum.X += p.X
		sum.Y += p.Y
		n++
	}
	if n == 0 {
		return models.Point{}, false
	}
	return models.Point{X: sum.X / float64(n), Y: sum.Y / float64(n)}, true
}

// patternLocation returns the display location for a set of supporting
// incidents: the raw location of the first one when they all share a
// normalized key, "Multiple locations" otherwise.
func patternLocation(incidents []models.Incident) string {
	key := incidents[0].LocationKey()
	for _, inc := range incidents[1:] {
		if inc.LocationKey() != key {
			return models.MultipleLocations
		}
	}
	return incidents[0].Location
}

// incidentIDs collects the incident identifiers in order.
func incidentIDs(incidents []models.Incident) []string {
	ids := make([]string, len(incidents))
	for i, inc := range incidents {
		ids[i] = inc.ID
	}
	return ids
}
