package timegpt

import (
	"salespulse/domain/series"
)

// seriesPoint is one observation in the service's wire schema: an entity
// key, an ISO day and a value.
type seriesPoint struct {
	UniqueID string  `json:"unique_id"`
	DS       string  `json:"ds"`
	Y        float64 `json:"y"`
}

// anomalyRequest is the detect-anomalies payload. Frequency is always
// daily; the confidence level controls the interval width.
type anomalyRequest struct {
	Series []seriesPoint `json:"series"`
	Freq   string        `json:"freq"`
	Level  float64       `json:"level"`
}

// forecastRequest is the forecast payload. Horizon counts future days;
// levels lists the requested interval percentages.
type forecastRequest struct {
	Series  []seriesPoint `json:"series"`
	Freq    string        `json:"freq"`
	Horizon int           `json:"h"`
	Levels  []int         `json:"level"`
}

// serviceResponse carries result rows whose column set varies with the
// requested levels, so rows stay dynamic until normalization.
type serviceResponse struct {
	Data []map[string]any `json:"data"`
}

// errorResponse is the service's error envelope.
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func toWire(set series.Set) []seriesPoint {
	points := make([]seriesPoint, 0, len(set))
	for _, obs := range set {
		points = append(points, seriesPoint{
			UniqueID: obs.EntityID,
			DS:       obs.Day.String(),
			Y:        obs.Value,
		})
	}
	return points
}
