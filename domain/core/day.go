package core

import (
	"fmt"
	"strings"
	"time"
)

// Day represents a calendar day (UTC), stored as days since the Unix epoch.
// It is comparable, sortable with <, and safe to use as a map key.
type Day int

// dateLayouts are the accepted input formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2/1/2006",
	"01/02/2006",
}

// DayOf truncates a timestamp to its calendar day, discarding time-of-day.
func DayOf(t time.Time) Day {
	t = t.UTC()
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Day(midnight.Unix() / 86400)
}

// ParseDay parses a date-like string into a Day. Time-of-day components are
// discarded. Returns an error naming the offending value when no accepted
// layout matches.
func ParseDay(s string) (Day, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("empty date value")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return DayOf(t), nil
		}
	}
	return 0, fmt.Errorf("unparseable date value %q", s)
}

// Time returns the day as a UTC midnight timestamp.
func (d Day) Time() time.Time {
	return time.Unix(int64(d)*86400, 0).UTC()
}

// String formats the day as YYYY-MM-DD.
func (d Day) String() string {
	return d.Time().Format("2006-01-02")
}

// AddDays returns the day shifted by n calendar days.
func (d Day) AddDays(n int) Day {
	return d + Day(n)
}

// Before reports whether d falls before other.
func (d Day) Before(other Day) bool { return d < other }

// After reports whether d falls after other.
func (d Day) After(other Day) bool { return d > other }

// DaysBetween returns the number of calendar days from a to b (b − a).
func DaysBetween(a, b Day) int {
	return int(b - a)
}

// MarshalJSON encodes the day as a YYYY-MM-DD string.
func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a day from any accepted date layout.
func (d *Day) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
