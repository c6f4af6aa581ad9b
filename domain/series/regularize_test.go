package series

import (
	"reflect"
	"testing"

	"salespulse/domain/core"
)

func day(t *testing.T, s string) core.Day {
	t.Helper()
	d, err := core.ParseDay(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func TestRegularize_FullSpan_FillsGapsWithZero(t *testing.T) {
	// Entity A: two rows on day 1 (summed upstream to 25), one on day 3,
	// nothing on day 2. Regularized series must be [(D1,25),(D2,0),(D3,5)].
	rows := []RawRow{
		{EntityID: "A", Date: "2023-06-01", Value: 10},
		{EntityID: "A", Date: "2023-06-01", Value: 15},
		{EntityID: "A", Date: "2023-06-03", Value: 5},
	}
	agg, err := Aggregate(rows)
	if err != nil {
		t.Fatal(err)
	}

	got := Regularize(agg, Config{Mode: ModeFullSpan})

	want := Set{
		{EntityID: "A", Day: day(t, "2023-06-01"), Value: 25},
		{EntityID: "A", Day: day(t, "2023-06-02"), Value: 0},
		{EntityID: "A", Day: day(t, "2023-06-03"), Value: 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("regularized series mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestRegularize_OneRowPerDayPerEntity(t *testing.T) {
	set := Set{
		{EntityID: "A", Day: day(t, "2023-01-01"), Value: 1},
		{EntityID: "A", Day: day(t, "2023-03-15"), Value: 2},
		{EntityID: "B", Day: day(t, "2023-02-01"), Value: 3},
		{EntityID: "B", Day: day(t, "2023-02-10"), Value: 4},
	}

	got := Regularize(set, Config{Mode: ModeFullSpan})

	counts := map[string]map[core.Day]int{}
	for _, obs := range got {
		if counts[obs.EntityID] == nil {
			counts[obs.EntityID] = map[core.Day]int{}
		}
		counts[obs.EntityID][obs.Day]++
	}

	// Per entity: exactly (end-start)+1 rows, each day exactly once.
	wantLen := map[string]int{
		"A": core.DaysBetween(day(t, "2023-01-01"), day(t, "2023-03-15")) + 1,
		"B": core.DaysBetween(day(t, "2023-02-01"), day(t, "2023-02-10")) + 1,
	}
	for entity, days := range counts {
		if len(days) != wantLen[entity] {
			t.Errorf("entity %s has %d days, want %d", entity, len(days), wantLen[entity])
		}
		for d, n := range days {
			if n != 1 {
				t.Errorf("entity %s day %s appears %d times", entity, d, n)
			}
		}
	}
}

func TestRegularize_FixedWindow_SharedCalendar(t *testing.T) {
	// Global max day is 2023-06-30. Every entity gets the identical
	// [max-180, max] calendar regardless of its own span.
	set := Set{
		{EntityID: "A", Day: day(t, "2023-06-30"), Value: 9},
		{EntityID: "A", Day: day(t, "2023-06-01"), Value: 4},
		// B's only observation predates the window entirely.
		{EntityID: "B", Day: day(t, "2022-01-01"), Value: 100},
	}

	got := Regularize(set, Config{Mode: ModeFixedWindow, WindowDays: 180})

	windowLen := 181
	var aLen, bLen int
	var bTotal float64
	for _, obs := range got {
		switch obs.EntityID {
		case "A":
			aLen++
		case "B":
			bLen++
			bTotal += obs.Value
		}
	}
	if aLen != windowLen || bLen != windowLen {
		t.Errorf("window lengths A=%d B=%d, want %d for both", aLen, bLen, windowLen)
	}
	if bTotal != 0 {
		t.Errorf("entity with no observations in window must be all-zero, total=%v", bTotal)
	}

	start := day(t, "2023-06-30").AddDays(-180)
	if got[0].EntityID != "A" || got[0].Day != start {
		t.Errorf("first row = %+v, want entity A at %s", got[0], start)
	}
}

func TestRegularize_Idempotent(t *testing.T) {
	rows := []RawRow{
		{EntityID: "A", Date: "2023-06-01", Value: 10},
		{EntityID: "A", Date: "2023-06-05", Value: 3},
		{EntityID: "B", Date: "2023-06-02", Value: 8},
	}
	agg, err := Aggregate(rows)
	if err != nil {
		t.Fatal(err)
	}

	once := Regularize(agg, Config{Mode: ModeFullSpan})
	twice := Regularize(once, Config{Mode: ModeFullSpan})
	if !reflect.DeepEqual(once, twice) {
		t.Error("regularization must be idempotent")
	}
}

func TestRegularize_EmptySet(t *testing.T) {
	got := Regularize(Set{}, Config{Mode: ModeFixedWindow})
	if len(got) != 0 {
		t.Errorf("empty input should give empty output, got %d rows", len(got))
	}
}
