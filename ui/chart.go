package ui

import (
	"sort"

	"salespulse/domain/series"
)

// ChartPoint is one plotted day.
type ChartPoint struct {
	Day   string  `json:"day"`
	Value float64 `json:"value"`
}

// BandPoint is one forecast day with its confidence bands.
type BandPoint struct {
	Day       string  `json:"day"`
	Predicted float64 `json:"predicted"`
	Lower80   float64 `json:"lower_80"`
	Upper80   float64 `json:"upper_80"`
	Lower90   float64 `json:"lower_90"`
	Upper90   float64 `json:"upper_90"`
}

// EntityChart is everything the page plots for one entity: the history
// line, the flagged anomalies on top of it, and the forecast band. The
// forecast starts with a synthetic point at the last history day so the
// two lines visually connect.
type EntityChart struct {
	EntityID  string       `json:"entity_id"`
	History   []ChartPoint `json:"history"`
	Anomalies []ChartPoint `json:"anomalies"`
	Forecast  []BandPoint  `json:"forecast"`
}

// BuildCharts groups the joined points and forecast rows per entity,
// ordered by entity ID.
func BuildCharts(points []series.AnnotatedPoint, forecasts []series.ForecastRecord) []EntityChart {
	byEntity := make(map[string]*EntityChart)
	chart := func(entity string) *EntityChart {
		ec, ok := byEntity[entity]
		if !ok {
			ec = &EntityChart{EntityID: entity}
			byEntity[entity] = ec
		}
		return ec
	}

	for _, p := range points {
		ec := chart(p.EntityID)
		cp := ChartPoint{Day: p.Day.String(), Value: p.Value}
		ec.History = append(ec.History, cp)
		if p.IsAnomaly {
			ec.Anomalies = append(ec.Anomalies, cp)
		}
	}

	for _, f := range forecasts {
		ec := chart(f.EntityID)
		if len(ec.Forecast) == 0 && len(ec.History) > 0 {
			last := ec.History[len(ec.History)-1]
			ec.Forecast = append(ec.Forecast, BandPoint{
				Day:       last.Day,
				Predicted: last.Value,
				Lower80:   last.Value,
				Upper80:   last.Value,
				Lower90:   last.Value,
				Upper90:   last.Value,
			})
		}
		ec.Forecast = append(ec.Forecast, BandPoint{
			Day:       f.Day.String(),
			Predicted: f.Predicted,
			Lower80:   f.Lower80,
			Upper80:   f.Upper80,
			Lower90:   f.Lower90,
			Upper90:   f.Upper90,
		})
	}

	out := make([]EntityChart, 0, len(byEntity))
	for _, ec := range byEntity {
		out = append(out, *ec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntityID < out[j].EntityID })
	return out
}
