package app

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"salespulse/domain/series"
)

// DemoConfig configures the synthetic sales generator used when no input
// file is configured, and by tests that need realistic raw rows.
type DemoConfig struct {
	Days int
	Seed int64
}

// DefaultDemoConfig returns sensible defaults for demo data generation
func DefaultDemoConfig() DemoConfig {
	return DemoConfig{
		Days: 200,
		Seed: 42,
	}
}

// demoEntities are category-named so the insight rule table exercises
// its keyword matches on demo data.
var demoEntities = []struct {
	name string
	base float64
}{
	{"Beauty & Cosmetics", 1200},
	{"Consumer Electronics", 3400},
	{"Clothing & Fashion", 2100},
	{"Home & Living", 900},
}

// GenerateDemoRows produces deterministic synthetic daily sales rows:
// a weekly cycle with noise, several same-day duplicate rows to exercise
// aggregation, and a few injected spikes and dips.
func GenerateDemoRows(cfg DemoConfig) []series.RawRow {
	if cfg.Days <= 0 {
		cfg.Days = DefaultDemoConfig().Days
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	end := time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -(cfg.Days - 1))

	var rows []series.RawRow
	for _, entity := range demoEntities {
		for d := 0; d < cfg.Days; d++ {
			day := start.AddDate(0, 0, d)

			// Weekend uplift plus mild annual drift and noise.
			value := entity.base
			if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
				value *= 1.4
			}
			value *= 1 + 0.1*math.Sin(float64(d)/30.0)
			value *= 1 + rng.NormFloat64()*0.08

			// Inject an occasional spike or dip.
			switch {
			case rng.Float64() < 0.015:
				value *= 2.5 + rng.Float64()
			case rng.Float64() < 0.015:
				value *= 0.1
			}

			// Split some days into multiple transactions.
			parts := 1
			if rng.Float64() < 0.3 {
				parts = 2 + rng.Intn(2)
			}
			for p := 0; p < parts; p++ {
				rows = append(rows, series.RawRow{
					EntityID: entity.name,
					Date:     fmt.Sprintf("%s %02d:00:00", day.Format("2006-01-02"), 9+p),
					Value:    value / float64(parts),
				})
			}
		}
	}
	return rows
}
