package series

import (
	"salespulse/domain/core"
)

// Mode selects how the daily calendar for each entity is computed.
type Mode string

const (
	// ModeFullSpan builds each entity's calendar from its own first to
	// last observed day.
	ModeFullSpan Mode = "full_span"
	// ModeFixedWindow builds one shared calendar covering the last
	// WindowDays days up to the global max day, identical for every
	// entity. Observations outside the window are dropped.
	ModeFixedWindow Mode = "fixed_window"
)

// DefaultWindowDays is the shared fixed-window length in days.
const DefaultWindowDays = 180

// Config controls regularization.
type Config struct {
	Mode       Mode
	WindowDays int // fixed-window length; DefaultWindowDays when zero
}

// Regularize reindexes an aggregated set onto complete daily calendars:
// every entity ends up with exactly one observation per day over its
// window, absent days filled with zero. Downstream services require a
// gapless daily grid. Output ordering is entity ID ascending, day
// ascending. Regularize is idempotent and returns an empty set for empty
// input.
func Regularize(set Set, cfg Config) Set {
	if len(set) == 0 {
		return Set{}
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeFullSpan
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = DefaultWindowDays
	}

	byEntity := make(map[string]Set)
	for _, obs := range set {
		byEntity[obs.EntityID] = append(byEntity[obs.EntityID], obs)
	}

	var windowStart, windowEnd core.Day
	if cfg.Mode == ModeFixedWindow {
		maxDay, _ := set.LastDay()
		windowEnd = maxDay
		windowStart = maxDay.AddDays(-cfg.WindowDays)
	}

	out := make(Set, 0, len(set))
	for _, entity := range set.Entities() {
		obs := byEntity[entity]
		start, end := windowStart, windowEnd
		if cfg.Mode == ModeFullSpan {
			start, end = obs[0].Day, obs[0].Day
			for _, o := range obs[1:] {
				if o.Day.Before(start) {
					start = o.Day
				}
				if o.Day.After(end) {
					end = o.Day
				}
			}
		}
		out = append(out, reindex(entity, obs, start, end)...)
	}
	return out
}

// reindex left-joins an entity's observations onto the complete daily
// calendar [start, end], filling absent days with zero. An entity with no
// observations inside the window still gets an all-zero series over it.
func reindex(entity string, obs Set, start, end core.Day) Set {
	values := make(map[core.Day]float64, len(obs))
	for _, o := range obs {
		if o.Day.Before(start) || o.Day.After(end) {
			continue
		}
		values[o.Day] = o.Value
	}

	out := make(Set, 0, core.DaysBetween(start, end)+1)
	for day := start; day <= end; day++ {
		out = append(out, Observation{EntityID: entity, Day: day, Value: values[day]})
	}
	return out
}
