package app

import (
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"salespulse/domain/series"
)

// KPISet is the dashboard's headline numbers for one analysis.
type KPISet struct {
	TotalValue     float64 `json:"total_value"`
	AnomalyCount   int     `json:"anomaly_count"`
	ProjectedValue float64 `json:"projected_value"`
}

// ComputeKPIs derives the headline numbers from the joined points and
// the forecast rows. ProjectedValue sums the predictions over the
// forecast horizon.
func ComputeKPIs(points []series.AnnotatedPoint, forecasts []series.ForecastRecord) KPISet {
	values := make([]float64, 0, len(points))
	anomalyCount := 0
	for _, p := range points {
		values = append(values, p.Value)
		if p.IsAnomaly {
			anomalyCount++
		}
	}

	predictions := make([]float64, 0, len(forecasts))
	for _, f := range forecasts {
		predictions = append(predictions, f.Predicted)
	}

	total, _ := stats.Sum(values)
	projected, _ := stats.Sum(predictions)

	return KPISet{
		TotalValue:     total,
		AnomalyCount:   anomalyCount,
		ProjectedValue: projected,
	}
}

// EntityProfile summarizes one entity's regularized series for the
// entity picker.
type EntityProfile struct {
	EntityID string  `json:"entity_id"`
	Days     int     `json:"days"`
	Total    float64 `json:"total"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`
	Max      float64 `json:"max"`
}

// Profiles computes per-entity summaries, ordered by entity ID.
func Profiles(set series.Set) []EntityProfile {
	byEntity := make(map[string][]float64)
	for _, obs := range set {
		byEntity[obs.EntityID] = append(byEntity[obs.EntityID], obs.Value)
	}

	out := make([]EntityProfile, 0, len(byEntity))
	for entity, values := range byEntity {
		total, _ := stats.Sum(values)
		mean, _ := stats.Mean(values)
		median, _ := stats.Median(values)
		max, _ := stats.Max(values)

		out = append(out, EntityProfile{
			EntityID: entity,
			Days:     len(values),
			Total:    total,
			Mean:     mean,
			Median:   median,
			StdDev:   stat.StdDev(values, nil),
			Max:      max,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	return out
}
