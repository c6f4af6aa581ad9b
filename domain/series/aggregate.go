package series

import (
	"salespulse/domain/core"
	"salespulse/internal/errors"
)

// Aggregate parses each row's date down to a calendar day, groups rows by
// (entity, day) and sums their values. Output is ordered entity ID
// ascending, then day ascending. Empty input yields an empty set.
//
// An unparseable date aborts the whole aggregation with an input error
// identifying the offending value.
func Aggregate(rows []RawRow) (Set, error) {
	if len(rows) == 0 {
		return Set{}, nil
	}

	type key struct {
		entity string
		day    core.Day
	}
	sums := make(map[key]float64, len(rows))

	for _, row := range rows {
		day, err := core.ParseDay(row.Date)
		if err != nil {
			return nil, errors.Wrap(errors.InputErrorf("unparseable date %q", row.Date), "daily aggregation failed")
		}
		sums[key{entity: row.EntityID, day: day}] += row.Value
	}

	out := make(Set, 0, len(sums))
	for k, total := range sums {
		out = append(out, Observation{EntityID: k.entity, Day: k.day, Value: total})
	}
	sortCanonical(out)
	return out, nil
}
