package reserve

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
)

func table(capacity int, active bool) Table {
	return Table{ID: uuid.New(), Capacity: capacity, Active: active}
}

func activeBooking(tableID uuid.UUID, start time.Time, minutes int) Booking {
	return Booking{
		ID:              uuid.New(),
		TableID:         tableID,
		Start:           start,
		DurationMinutes: minutes,
		Status:          StatusConfirmed,
	}
}

func TestAssignTableSmallestFitFirst(t *testing.T) {
	small := table(2, true)
	medium := table(4, true)
	large := table(8, true)
	tables := []Table{large, small, medium}

	got, err := AssignTable(tables, nil, NewInterval(mustTime(t, "2026-09-10T18:00:00Z"), 120), 2)
	if err != nil {
		t.Fatalf("AssignTable: %v", err)
	}
	if got.ID != small.ID {
		t.Errorf("assigned capacity %d, want the capacity-2 table", got.Capacity)
	}
}

func TestAssignTableCapacityFilter(t *testing.T) {
	two := table(2, true)
	start := mustTime(t, "2026-09-10T18:00:00Z")

	_, err := AssignTable([]Table{two}, nil, NewInterval(start, 120), 3)
	if !errors.Is(err, ErrNoSuitableTable) {
		t.Fatalf("err = %v, want ErrNoSuitableTable", err)
	}

	// A larger free table must never hand back the too-small one.
	four := table(4, true)
	got, err := AssignTable([]Table{two, four}, nil, NewInterval(start, 120), 3)
	if err != nil {
		t.Fatalf("AssignTable: %v", err)
	}
	if got.ID == two.ID {
		t.Error("capacity-2 table returned for party of 3")
	}
}

func TestAssignTableInactiveInvisible(t *testing.T) {
	inactive := table(4, false)
	_, err := AssignTable([]Table{inactive}, nil, NewInterval(mustTime(t, "2026-09-10T18:00:00Z"), 120), 2)
	if !errors.Is(err, ErrNoSuitableTable) {
		t.Fatalf("err = %v, want ErrNoSuitableTable", err)
	}
}

func TestAssignTableConflicts(t *testing.T) {
	four := table(4, true)
	start := mustTime(t, "2026-09-10T18:00:00Z")
	byTable := map[uuid.UUID][]Booking{
		four.ID: {activeBooking(four.ID, start, 120)}, // [18:00, 20:00)
	}

	// 18:30 overlaps.
	_, err := AssignTable([]Table{four}, byTable, NewInterval(start.Add(30*time.Minute), 120), 4)
	if !errors.Is(err, ErrNoAvailability) {
		t.Fatalf("err = %v, want ErrNoAvailability", err)
	}

	// 20:00 touches the existing end and is free.
	got, err := AssignTable([]Table{four}, byTable, NewInterval(start.Add(2*time.Hour), 120), 4)
	if err != nil {
		t.Fatalf("AssignTable at 20:00: %v", err)
	}
	if got.ID != four.ID {
		t.Errorf("assigned %s, want %s", got.ID, four.ID)
	}
}

func TestAssignTableSkipsToNextFreeTable(t *testing.T) {
	first := table(4, true)
	second := table(4, true)
	start := mustTime(t, "2026-09-10T18:00:00Z")
	byTable := map[uuid.UUID][]Booking{
		first.ID:  {activeBooking(first.ID, start, 120)},
		second.ID: {activeBooking(second.ID, start, 120)},
	}
	// Free exactly one of the equal-capacity tables.
	delete(byTable, second.ID)

	got, err := AssignTable([]Table{first, second}, byTable, NewInterval(start.Add(time.Hour), 60), 3)
	if err != nil {
		t.Fatalf("AssignTable: %v", err)
	}
	if got.ID != second.ID {
		t.Errorf("assigned busy table %s", got.ID)
	}
}

func TestAssignTableDeterministic(t *testing.T) {
	tables := []Table{table(4, true), table(4, true), table(4, true)}
	candidate := NewInterval(mustTime(t, "2026-09-10T18:00:00Z"), 120)

	first, err := AssignTable(tables, nil, candidate, 4)
	if err != nil {
		t.Fatalf("AssignTable: %v", err)
	}
	for i := 0; i < 10; i++ {
		// Shuffle the input order; the result must not change.
		shuffled := append([]Table(nil), tables...)
		rand.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got, err := AssignTable(shuffled, nil, candidate, 4)
		if err != nil {
			t.Fatalf("AssignTable: %v", err)
		}
		if got.ID != first.ID {
			t.Fatalf("assignment changed with input order: %s vs %s", got.ID, first.ID)
		}
	}
}

// Randomized invariant check: repeatedly committing whatever AssignTable hands
// out must never produce two overlapping active bookings on one table.
func TestAssignTableNeverDoubleBooks(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	day := mustTime(t, "2026-09-10T00:00:00Z")

	for trial := 0; trial < 50; trial++ {
		tables := make([]Table, 0, 4)
		for i := 0; i < 1+rng.Intn(4); i++ {
			tables = append(tables, table(2+2*rng.Intn(4), true))
		}
		byTable := make(map[uuid.UUID][]Booking)

		for req := 0; req < 40; req++ {
			start := day.Add(time.Duration(rng.Intn(48)) * 30 * time.Minute)
			minutes := 30 * (1 + rng.Intn(6))
			party := 1 + rng.Intn(8)

			got, err := AssignTable(tables, byTable, NewInterval(start, minutes), party)
			if err != nil {
				continue
			}
			byTable[got.ID] = append(byTable[got.ID], activeBooking(got.ID, start, minutes))
		}

		for id, bookings := range byTable {
			for i := range bookings {
				for j := i + 1; j < len(bookings); j++ {
					if bookings[i].Interval().Overlaps(bookings[j].Interval()) {
						t.Fatalf("trial %d: table %s double-booked: %v and %v",
							trial, id, bookings[i].Interval(), bookings[j].Interval())
					}
				}
			}
		}
	}
}
