package series

import (
	"math"

	"salespulse/domain/core"
)

// JoinPolicy selects how series rows without a matching service row are
// treated.
type JoinPolicy string

const (
	// PolicyOuter keeps every series row; anomaly fields stay absent
	// (HasBounds false) where the service returned nothing.
	PolicyOuter JoinPolicy = "outer"
	// PolicyInner drops series rows the service did not respond for.
	PolicyInner JoinPolicy = "inner"
)

// Join attaches anomaly records to regularized series rows on
// (entity, day) equality. The series' own value is authoritative: when
// both sides carry a value the series copy wins, and only if the series
// value is missing (NaN) is the service copy promoted in its place, so
// the reconciliation is deterministic and never drops data.
func Join(set Set, anomalies []AnomalyRecord, policy JoinPolicy) []AnnotatedPoint {
	type key struct {
		entity string
		day    core.Day
	}
	byKey := make(map[key]AnomalyRecord, len(anomalies))
	for _, rec := range anomalies {
		byKey[key{entity: rec.EntityID, day: rec.Day}] = rec
	}

	out := make([]AnnotatedPoint, 0, len(set))
	for _, obs := range set {
		rec, matched := byKey[key{entity: obs.EntityID, day: obs.Day}]
		if !matched && policy == PolicyInner {
			continue
		}

		point := AnnotatedPoint{Observation: obs}
		if matched {
			point.Value = reconcileValue(obs.Value, rec.Value)
			point.LowerBound = rec.LowerBound
			point.UpperBound = rec.UpperBound
			point.IsAnomaly = rec.IsAnomaly
			point.HasBounds = true
		}
		out = append(out, point)
	}
	return out
}

// reconcileValue resolves the value collision between the series row and
// the service's echo of it. NaN marks a missing copy.
func reconcileValue(base, service float64) float64 {
	if !math.IsNaN(base) {
		return base
	}
	if !math.IsNaN(service) {
		return service
	}
	return 0
}

// Anomalies returns only the points flagged anomalous by the service.
func Anomalies(points []AnnotatedPoint) []AnnotatedPoint {
	var out []AnnotatedPoint
	for _, p := range points {
		if p.IsAnomaly {
			out = append(out, p)
		}
	}
	return out
}
