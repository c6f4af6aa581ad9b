package series

import (
	"sort"

	"salespulse/domain/core"
)

// Observation is one daily measurement for one entity. After aggregation
// there is exactly one observation per (EntityID, Day).
type Observation struct {
	EntityID string   `json:"entity_id"`
	Day      core.Day `json:"day"`
	Value    float64  `json:"value"`
}

// Set holds daily observations for one or more entities, ordered by
// entity ID ascending then day ascending. A regularized Set has exactly
// one observation per calendar day per entity over its window, no gaps.
type Set []Observation

// RawRow is one source record after column mapping and value coercion,
// before dates are parsed and rows are grouped.
type RawRow struct {
	EntityID string
	Date     string
	Value    float64
}

// AnomalyRecord is one row of the external anomaly-detection response,
// normalized to a canonical lower/upper bound pair at ingestion.
type AnomalyRecord struct {
	EntityID   string   `json:"entity_id"`
	Day        core.Day `json:"day"`
	Value      float64  `json:"value"`
	LowerBound float64  `json:"lower_bound"`
	UpperBound float64  `json:"upper_bound"`
	IsAnomaly  bool     `json:"is_anomaly"`
}

// ForecastRecord is one predicted day from the external forecasting
// service, strictly after the source series' last day.
type ForecastRecord struct {
	EntityID  string   `json:"entity_id"`
	Day       core.Day `json:"day"`
	Predicted float64  `json:"predicted"`
	Lower80   float64  `json:"lower_80"`
	Upper80   float64  `json:"upper_80"`
	Lower90   float64  `json:"lower_90"`
	Upper90   float64  `json:"upper_90"`
}

// AnnotatedPoint is a regularized observation joined with the anomaly
// fields the service returned for it. HasBounds is false when the service
// returned nothing for this (entity, day) under an outer join.
type AnnotatedPoint struct {
	Observation
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
	IsAnomaly  bool    `json:"is_anomaly"`
	HasBounds  bool    `json:"has_bounds"`
}

// Entities returns the distinct entity IDs in the set, ascending.
func (s Set) Entities() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, obs := range s {
		if _, ok := seen[obs.EntityID]; !ok {
			seen[obs.EntityID] = struct{}{}
			out = append(out, obs.EntityID)
		}
	}
	sort.Strings(out)
	return out
}

// Filter keeps only observations belonging to the given entities,
// preserving order. A nil or empty selection yields an empty set.
func (s Set) Filter(entities []string) Set {
	if len(entities) == 0 {
		return nil
	}
	want := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		want[e] = struct{}{}
	}
	var out Set
	for _, obs := range s {
		if _, ok := want[obs.EntityID]; ok {
			out = append(out, obs)
		}
	}
	return out
}

// ForEntity returns the observations for a single entity, in day order.
func (s Set) ForEntity(entityID string) Set {
	var out Set
	for _, obs := range s {
		if obs.EntityID == entityID {
			out = append(out, obs)
		}
	}
	return out
}

// LastDay returns the latest day across all entities. The second return
// is false for an empty set.
func (s Set) LastDay() (core.Day, bool) {
	if len(s) == 0 {
		return 0, false
	}
	last := s[0].Day
	for _, obs := range s[1:] {
		if obs.Day.After(last) {
			last = obs.Day
		}
	}
	return last, true
}

// sortCanonical orders a set entity ID ascending, then day ascending.
func sortCanonical(s Set) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].EntityID != s[j].EntityID {
			return s[i].EntityID < s[j].EntityID
		}
		return s[i].Day < s[j].Day
	})
}
