package reserve

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse time %q: %v", s, err)
	}
	return ts
}

func TestOverlaps(t *testing.T) {
	base := mustTime(t, "2026-09-10T18:00:00Z")
	hour := time.Hour

	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{"identical", base, base.Add(2 * hour), base, base.Add(2 * hour), true},
		{"contained", base, base.Add(4 * hour), base.Add(hour), base.Add(2 * hour), true},
		{"partial", base, base.Add(2 * hour), base.Add(hour), base.Add(3 * hour), true},
		{"touching end-start", base, base.Add(2 * hour), base.Add(2 * hour), base.Add(4 * hour), false},
		{"touching start-end", base.Add(2 * hour), base.Add(4 * hour), base, base.Add(2 * hour), false},
		{"disjoint", base, base.Add(hour), base.Add(3 * hour), base.Add(4 * hour), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Errorf("Overlaps = %v, want %v", got, tc.want)
			}
			// overlap is symmetric
			if got := Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd); got != tc.want {
				t.Errorf("Overlaps swapped = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTableConflictsIgnoresInactiveBookings(t *testing.T) {
	start := mustTime(t, "2026-09-10T18:00:00Z")
	candidate := NewInterval(start, 120)

	mk := func(status BookingStatus) Booking {
		return Booking{
			ID:              uuid.New(),
			TableID:         uuid.New(),
			Start:           start.Add(30 * time.Minute),
			DurationMinutes: 120,
			Status:          status,
		}
	}

	for _, status := range []BookingStatus{StatusCancelled, StatusCompleted, StatusNoShow} {
		if TableConflicts(candidate, []Booking{mk(status)}) {
			t.Errorf("status %s should not block the table", status)
		}
	}
	for _, status := range []BookingStatus{StatusPending, StatusConfirmed, StatusSeated} {
		if !TableConflicts(candidate, []Booking{mk(status)}) {
			t.Errorf("status %s should block the table", status)
		}
	}
}
