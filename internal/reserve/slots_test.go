package reserve

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// Restaurant open 11:00-22:00, 30-minute slots, 2h minimum notice, one
// four-top: asking for today's availability mid-afternoon must hide everything
// before now+2h and start at the next slot boundary.
func TestAvailableSlotsRespectsAdvanceWindow(t *testing.T) {
	r := testRestaurant()
	loc, _ := r.Location()
	four := table(4, true)

	now := time.Date(2026, 9, 10, 14, 10, 0, 0, loc) // Thursday
	slots, err := AvailableSlots(r, []Table{four}, nil, now, 120, 2, now)
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if len(slots) == 0 {
		t.Fatal("expected slots for the evening")
	}

	earliest := now.Add(2 * time.Hour) // 16:10
	for _, s := range slots {
		if s.Start.Before(earliest) {
			t.Errorf("slot %s offered before minimum notice boundary %s", s.Start, earliest)
		}
	}
	// Next 30-minute boundary at/after 16:10 is 16:30.
	want := time.Date(2026, 9, 10, 16, 30, 0, 0, loc)
	if !slots[0].Start.Equal(want) {
		t.Errorf("first slot = %s, want %s", slots[0].Start, want)
	}
	// Last slot must still fit the 120-minute booking before 22:00.
	last := slots[len(slots)-1].Start
	if wantLast := time.Date(2026, 9, 10, 20, 0, 0, 0, loc); !last.Equal(wantLast) {
		t.Errorf("last slot = %s, want %s", last, wantLast)
	}
}

func TestAvailableSlotsMarksConflicts(t *testing.T) {
	r := testRestaurant()
	loc, _ := r.Location()
	four := table(4, true)

	now := time.Date(2026, 9, 9, 12, 0, 0, 0, loc) // day before
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, loc)
	existing := activeBooking(four.ID, time.Date(2026, 9, 10, 18, 0, 0, 0, loc), 120)
	byTable := map[uuid.UUID][]Booking{four.ID: {existing}}

	slots, err := AvailableSlots(r, []Table{four}, byTable, date, 120, 2, now)
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}

	byStart := make(map[string]bool, len(slots))
	for _, s := range slots {
		byStart[s.Start.In(loc).Format("15:04")] = s.Available
	}

	// [18:00,20:00) is taken; a 120-minute probe collides from 16:30 onward.
	for _, hhmm := range []string{"16:30", "17:00", "18:00", "19:30"} {
		if avail, ok := byStart[hhmm]; !ok || avail {
			t.Errorf("slot %s: available=%v, want listed and unavailable", hhmm, avail)
		}
	}
	for _, hhmm := range []string{"11:00", "16:00", "20:00"} {
		if avail, ok := byStart[hhmm]; !ok || !avail {
			t.Errorf("slot %s: available=%v, want available", hhmm, avail)
		}
	}
}

func TestAvailableSlotsClosedDay(t *testing.T) {
	r := testRestaurant()
	loc, _ := r.Location()
	now := time.Date(2026, 9, 9, 12, 0, 0, 0, loc)
	sunday := time.Date(2026, 9, 13, 0, 0, 0, 0, loc)

	slots, err := AvailableSlots(r, []Table{table(4, true)}, nil, sunday, 120, 2, now)
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("closed day returned %d slots", len(slots))
	}
}

func TestAvailableSlotsIsRestartable(t *testing.T) {
	r := testRestaurant()
	loc, _ := r.Location()
	four := table(4, true)
	now := time.Date(2026, 9, 9, 12, 0, 0, 0, loc)
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, loc)
	byTable := map[uuid.UUID][]Booking{
		four.ID: {activeBooking(four.ID, time.Date(2026, 9, 10, 18, 0, 0, 0, loc), 120)},
	}

	first, err := AvailableSlots(r, []Table{four}, byTable, date, 120, 2, now)
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	second, err := AvailableSlots(r, []Table{four}, byTable, date, 120, 2, now)
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("runs disagree: %d vs %d slots", len(first), len(second))
	}
	for i := range first {
		if !first[i].Start.Equal(second[i].Start) || first[i].Available != second[i].Available {
			t.Errorf("slot %d differs between runs", i)
		}
	}
	if len(byTable[four.ID]) != 1 {
		t.Error("snapshot mutated by availability computation")
	}
}
