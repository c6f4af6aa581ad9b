package insight

import (
	"sort"

	"salespulse/domain/core"
	"salespulse/domain/series"
)

// Direction classifies which side of the confidence band an anomaly broke.
type Direction string

const (
	Spike Direction = "Spike"
	Dip   Direction = "Dip"
)

// Insight is the business reading of one flagged anomaly. Insights are
// derived per analysis request and never persisted.
type Insight struct {
	EntityID       string    `json:"entity_id"`
	Day            core.Day  `json:"day"`
	Actual         float64   `json:"actual"`
	Direction      Direction `json:"direction"`
	Magnitude      float64   `json:"magnitude"`
	Recommendation string    `json:"recommendation"`
}

// Digest is the presentable subset of insights: the most recent ones up
// to a display limit, plus how many were cut off.
type Digest struct {
	Insights  []Insight `json:"insights"`
	Truncated int       `json:"truncated"`
}

// MaxDisplayed caps how many insight cards a digest carries.
const MaxDisplayed = 6

// Classify turns one anomalous point into an insight. Above the upper
// bound it is a spike with magnitude actual/upper (actual itself when the
// upper bound is non-positive); otherwise a dip with magnitude
// lower/actual (zero when the actual is non-positive).
func Classify(p series.AnnotatedPoint) Insight {
	actual := p.Value
	var direction Direction
	var magnitude float64

	if actual > p.UpperBound {
		direction = Spike
		if p.UpperBound > 0 {
			magnitude = actual / p.UpperBound
		} else {
			magnitude = actual
		}
	} else {
		direction = Dip
		if actual > 0 {
			magnitude = p.LowerBound / actual
		} else {
			magnitude = 0
		}
	}

	return Insight{
		EntityID:       p.EntityID,
		Day:            p.Day,
		Actual:         actual,
		Direction:      direction,
		Magnitude:      magnitude,
		Recommendation: Recommend(p.EntityID, direction, magnitude),
	}
}

// Build classifies every flagged anomaly among the joined points, orders
// the results by day descending and keeps the MaxDisplayed most recent,
// reporting the remainder count. Pure and stateless.
func Build(points []series.AnnotatedPoint) Digest {
	var all []Insight
	for _, p := range points {
		if !p.IsAnomaly || !p.HasBounds {
			continue
		}
		all = append(all, Classify(p))
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Day > all[j].Day
	})

	if len(all) <= MaxDisplayed {
		return Digest{Insights: all}
	}
	return Digest{
		Insights:  all[:MaxDisplayed],
		Truncated: len(all) - MaxDisplayed,
	}
}
