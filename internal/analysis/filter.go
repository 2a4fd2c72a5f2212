package analysis

import (
	"time"

	"github.com/crimelens/crimelens/internal/models"
)

// Group is an ordered partition of incidents sharing one grouping key.
// Incidents keep the order they had in the filtered set (newest first), and
// groups keep the order their keys were first encountered in, so every
// "first encountered" tie-break downstream is deterministic.
type Group struct {
	Key       string
	Incidents []models.Incident
}

// sanitize drops incidents that cannot participate in grouping: empty
// location keys and zero timestamps. Malformed records are excluded rather
// than aborting the run.
func sanitize(incidents []models.Incident) []models.Incident {
	out := make([]models.Incident, 0, len(incidents))
	for _, inc := range incidents {
		if inc.LocationKey() == "" || inc.OccurredAt.IsZero() {
			continue
		}
		out = append(out, inc)
	}
	return out
}

// groupBy partitions incidents by the given key function, preserving both
// per-group insertion order and key first-seen order.
func groupBy(incidents []models.Incident, key func(*models.Incident) string) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, inc := range incidents {
		k := key(&inc)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Incidents = append(groups[i].Incidents, inc)
	}
	return groups
}

// groupByLocation partitions by normalized location key.
func groupByLocation(incidents []models.Incident) []Group {
	return groupBy(incidents, func(inc *models.Incident) string { return inc.LocationKey() })
}

// groupByType partitions by crime type.
func groupByType(incidents []models.Incident) []Group {
	return groupBy(incidents, func(inc *models.Incident) string { return string(inc.Type) })
}

// timeSpan returns the earliest-to-latest timestamp delta of the incidents.
func timeSpan(incidents []models.Incident) time.Duration {
	if len(incidents) == 0 {
		return 0
	}
	earliest, latest := incidents[0].OccurredAt, incidents[0].OccurredAt
	for _, inc := range incidents[1:] {
		if inc.OccurredAt.Before(earliest) {
			earliest = inc.OccurredAt
		}
		if inc.OccurredAt.After(latest) {
			latest = inc.OccurredAt
		}
	}
	return latest.Sub(earliest)
}

// earliestOf returns the oldest timestamp among the incidents.
func earliestOf(incidents []models.Incident) time.Time {
	earliest := incidents[0].OccurredAt
	for _, inc := range incidents[1:] {
		if inc.OccurredAt.Before(earliest) {
			earliest = inc.OccurredAt
		}
	}
	return earliest
}

// latestOf returns the newest timestamp among the incidents.
func latestOf(incidents []models.Incident) time.Time {
	latest := incidents[0].OccurredAt
	for _, inc := range incidents[1:] {
		if inc.OccurredAt.After(latest) {
			latest = inc.OccurredAt
		}
	}
	return latest
}

// within returns the incidents whose timestamp falls inside [since, now].
func within(incidents []models.Incident, since time.Time) []models.Incident {
	var out []models.Incident
	for _, inc := range incidents {
		if !inc.OccurredAt.Before(since) {
			out = append(out, inc)
		}
	}
	return out
}
