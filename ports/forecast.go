package ports

import (
	"context"

	"salespulse/domain/series"
)

// AnomalyOptions controls the anomaly-detection interval width.
type AnomalyOptions struct {
	// Level is the confidence level percentage, e.g. 99.0.
	Level float64
}

// ForecastOptions controls the forecast horizon and interval levels.
type ForecastOptions struct {
	// Horizon is the number of future days requested.
	Horizon int
	// Levels are the confidence interval percentages, e.g. 80 and 90.
	Levels []int
}

// AnomalyDetector is the port for the external zero-shot anomaly
// detection call. Implementations must return an empty result without a
// network call when the set is empty.
type AnomalyDetector interface {
	DetectAnomalies(ctx context.Context, set series.Set, opts AnomalyOptions) ([]series.AnomalyRecord, error)
}

// Forecaster is the port for the external zero-shot forecasting call.
type Forecaster interface {
	Forecast(ctx context.Context, set series.Set, opts ForecastOptions) ([]series.ForecastRecord, error)
}
