package timegpt

import (
	"fmt"
	"sort"
	"strings"

	"salespulse/domain/core"
	"salespulse/domain/series"
)

// reservedKeys are the fixed wire columns; everything else is a candidate
// bound or prediction column.
var reservedKeys = map[string]struct{}{
	"unique_id": {},
	"ds":        {},
	"y":         {},
	"anomaly":   {},
}

// normalizeAnomalyRows converts the service's dynamic anomaly rows into a
// canonical record set. Bound columns are located by case-insensitive
// "hi"/"lo" substring match, so downstream code never sees the service's
// exact column naming.
func normalizeAnomalyRows(rows []map[string]any) ([]series.AnomalyRecord, error) {
	out := make([]series.AnomalyRecord, 0, len(rows))
	for _, row := range rows {
		entity, day, err := identity(row)
		if err != nil {
			return nil, err
		}

		rec := series.AnomalyRecord{EntityID: entity, Day: day}
		if y, ok := asFloat(row["y"]); ok {
			rec.Value = y
		}
		if flag, ok := asBool(row["anomaly"]); ok {
			rec.IsAnomaly = flag
		}
		if v, ok := matchColumn(row, "hi"); ok {
			rec.UpperBound = v
		} else {
			return nil, fmt.Errorf("anomaly row for %s/%s carries no upper bound column", entity, day)
		}
		if v, ok := matchColumn(row, "lo"); ok {
			rec.LowerBound = v
		} else {
			return nil, fmt.Errorf("anomaly row for %s/%s carries no lower bound column", entity, day)
		}
		out = append(out, rec)
	}
	return out, nil
}

// normalizeForecastRows converts dynamic forecast rows into canonical
// records with 80% and 90% bands.
func normalizeForecastRows(rows []map[string]any) ([]series.ForecastRecord, error) {
	out := make([]series.ForecastRecord, 0, len(rows))
	for _, row := range rows {
		entity, day, err := identity(row)
		if err != nil {
			return nil, err
		}

		rec := series.ForecastRecord{EntityID: entity, Day: day}
		predicted, ok := predictionColumn(row)
		if !ok {
			return nil, fmt.Errorf("forecast row for %s/%s carries no prediction column", entity, day)
		}
		rec.Predicted = predicted
		rec.Lower80, _ = matchColumn(row, "lo", "80")
		rec.Upper80, _ = matchColumn(row, "hi", "80")
		rec.Lower90, _ = matchColumn(row, "lo", "90")
		rec.Upper90, _ = matchColumn(row, "hi", "90")
		out = append(out, rec)
	}
	return out, nil
}

func identity(row map[string]any) (string, core.Day, error) {
	entity, _ := row["unique_id"].(string)
	ds, _ := row["ds"].(string)
	if entity == "" || ds == "" {
		return "", 0, fmt.Errorf("result row missing unique_id or ds: %v", row)
	}
	day, err := core.ParseDay(ds)
	if err != nil {
		return "", 0, fmt.Errorf("result row for %s: %w", entity, err)
	}
	return entity, day, nil
}

// matchColumn finds the first non-reserved column whose lowercased name
// contains every given substring. Keys are scanned in sorted order so the
// match is deterministic across rows.
func matchColumn(row map[string]any, substrings ...string) (float64, bool) {
	keys := make([]string, 0, len(row))
	for k := range row {
		if _, reserved := reservedKeys[k]; reserved {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		lower := strings.ToLower(k)
		matched := true
		for _, sub := range substrings {
			if !strings.Contains(lower, sub) {
				matched = false
				break
			}
		}
		if matched {
			if v, ok := asFloat(row[k]); ok {
				return v, true
			}
		}
	}
	return 0, false
}

// predictionColumn locates the forecast point estimate: the first
// non-reserved column that is not a bound column.
func predictionColumn(row map[string]any) (float64, bool) {
	keys := make([]string, 0, len(row))
	for k := range row {
		if _, reserved := reservedKeys[k]; reserved {
			continue
		}
		lower := strings.ToLower(k)
		if strings.Contains(lower, "lo") || strings.Contains(lower, "hi") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return 0, false
	}
	return asFloat(row[keys[0]])
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		var f float64
		if _, err := fmt.Sscanf(t, "%g", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

func asBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case float64:
		return t != 0, true
	case int:
		return t != 0, true
	}
	return false, false
}
