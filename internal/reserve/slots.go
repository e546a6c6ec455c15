package reserve

import (
	"time"

	"github.com/google/uuid"
)

// Slot is one offered start time for a day, with its availability for the
// requested party size.
type Slot struct {
	Start     time.Time
	Available bool
}

// AvailableSlots enumerates every multiple of the restaurant's slot duration
// from 00:00 to 24:00 of date (in the restaurant's timezone). Starts that fail
// the advance window or opening hours are omitted; the rest are probed through
// AssignTable without committing anything. The result is a pure function of
// the snapshot, so a slot reported available can still be lost to a concurrent
// create; Create re-validates.
func AvailableSlots(r Restaurant, tables []Table, activeByTable map[uuid.UUID][]Booking, date time.Time, durationMinutes, partySize int, now time.Time) ([]Slot, error) {
	if partySize < 1 {
		return nil, ErrInvalidPartySize
	}
	loc, err := r.Location()
	if err != nil {
		return nil, err
	}
	step := r.SlotDurationMinutes
	if step < 1 {
		step = 30
	}

	// The date's own calendar fields name the service day; the day runs on
	// the restaurant's wall clock.
	year, month, day := date.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, loc)

	var slots []Slot
	for m := 0; m < 24*60; m += step {
		start := midnight.Add(time.Duration(m) * time.Minute)
		if err := WithinAdvanceWindow(r, start, now); err != nil {
			continue
		}
		if !WithinOpeningHours(r, start, durationMinutes) {
			continue
		}
		_, err := AssignTable(tables, activeByTable, NewInterval(start, durationMinutes), partySize)
		slots = append(slots, Slot{Start: start, Available: err == nil})
	}
	return slots, nil
}
