package core

import (
	"testing"
	"time"
)

func TestParseDay_AcceptedLayouts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"iso date", "2023-02-14", "2023-02-14"},
		{"iso datetime truncates", "2023-02-14 18:45:12", "2023-02-14"},
		{"rfc3339 truncates", "2023-02-14T06:00:00Z", "2023-02-14"},
		{"day first slashes", "5/8/2022", "2022-08-05"},
		{"padded surrounding space", "  2023-02-14  ", "2023-02-14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDay(tt.input)
			if err != nil {
				t.Fatalf("ParseDay(%q) failed: %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseDay(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDay_RejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "not-a-date", "2023-13-45"} {
		if _, err := ParseDay(input); err == nil {
			t.Errorf("ParseDay(%q) should fail", input)
		}
	}
}

func TestParseDay_ErrorNamesValue(t *testing.T) {
	_, err := ParseDay("bogus!!")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != `unparseable date value "bogus!!"` {
		t.Errorf("error should identify the offending value, got %q", got)
	}
}

func TestDayOf_DiscardsTimeOfDay(t *testing.T) {
	morning := time.Date(2023, 6, 1, 8, 30, 0, 0, time.UTC)
	evening := time.Date(2023, 6, 1, 23, 59, 59, 0, time.UTC)
	if DayOf(morning) != DayOf(evening) {
		t.Error("same calendar day should produce equal Days")
	}
}

func TestDayArithmetic(t *testing.T) {
	d, _ := ParseDay("2023-06-01")
	if d.AddDays(30).String() != "2023-07-01" {
		t.Errorf("AddDays(30) = %s", d.AddDays(30))
	}
	if DaysBetween(d, d.AddDays(180)) != 180 {
		t.Errorf("DaysBetween = %d, want 180", DaysBetween(d, d.AddDays(180)))
	}
	if !d.Before(d.AddDays(1)) || !d.AddDays(1).After(d) {
		t.Error("ordering broken")
	}
}

func TestDayJSONRoundTrip(t *testing.T) {
	d, _ := ParseDay("2023-06-01")
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2023-06-01"` {
		t.Errorf("MarshalJSON = %s", b)
	}
	var back Day
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatal(err)
	}
	if back != d {
		t.Errorf("round trip mismatch: %v != %v", back, d)
	}
}
