package seed

import (
	"testing"
	"time"

	"github.com/example/tablebook/internal/reserve"
)

const sample = `
restaurants:
  - name: Chez Test
    timezone: America/New_York
    slot_duration_minutes: 30
    min_advance_hours: 2
    max_advance_days: 60
    opening_hours:
      monday: 11:00-22:00
      tuesday: 11:00-22:00
      sunday: closed
    tables:
      - name: window-1
        capacity: 2
        location: window
      - capacity: 4
      - name: back-8
        capacity: 8
        inactive: true
`

func TestParse(t *testing.T) {
	got, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("restaurants = %d", len(got))
	}
	r := got[0].Restaurant
	if r.Name != "Chez Test" || r.SlotDurationMinutes != 30 || r.MinAdvanceHours != 2 || r.MaxAdvanceDays != 60 {
		t.Errorf("restaurant = %+v", r)
	}
	if r.Hours[time.Monday] != (reserve.DayHours{Opens: 660, Closes: 1320}) {
		t.Errorf("monday = %+v", r.Hours[time.Monday])
	}
	if !r.Hours[time.Sunday].Closed || !r.Hours[time.Wednesday].Closed {
		t.Error("sunday and unlisted days should be closed")
	}

	tables := got[0].Tables
	if len(tables) != 3 {
		t.Fatalf("tables = %d", len(tables))
	}
	if tables[1].Name != "T2" {
		t.Errorf("unnamed table = %q, want generated name", tables[1].Name)
	}
	if tables[2].Active {
		t.Error("inactive table parsed as active")
	}
	for _, table := range tables {
		if table.RestaurantID != r.ID {
			t.Error("table not bound to its restaurant")
		}
	}
}

func TestParseBadHoursFallsBackClosed(t *testing.T) {
	got, err := Parse([]byte(`
restaurants:
  - name: Broken Hours
    timezone: UTC
    opening_hours:
      monday: 22:00-11:00
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got[0].Restaurant.Hours != reserve.DefaultSchedule() {
		t.Error("invalid hours must provision the closed default schedule")
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"no name", "restaurants:\n  - timezone: UTC\n"},
		{"no timezone", "restaurants:\n  - name: X\n"},
		{"bad timezone", "restaurants:\n  - name: X\n    timezone: Mars/Phobos\n"},
		{"zero capacity", "restaurants:\n  - name: X\n    timezone: UTC\n    tables:\n      - capacity: 0\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.in)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
