package reserve

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle state of a booking. Only the active statuses
// (pending, confirmed, seated) occupy their table for conflict purposes.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusSeated    BookingStatus = "seated"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// Active reports whether a booking in this status counts toward table conflicts.
func (s BookingStatus) Active() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusSeated:
		return true
	}
	return false
}

// Valid reports whether s is one of the defined statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusSeated, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Restaurant carries the booking policy knobs the engine needs. It is treated
// as an immutable snapshot for the duration of any single computation.
type Restaurant struct {
	ID       uuid.UUID
	Name     string
	Timezone string // IANA name, e.g. "America/New_York"

	SlotDurationMinutes int
	MinAdvanceHours     int
	MaxAdvanceDays      int

	Hours WeeklySchedule
}

// Location resolves the restaurant's IANA timezone.
func (r Restaurant) Location() (*time.Location, error) {
	return time.LoadLocation(r.Timezone)
}

// Table is a physical table. Inactive tables are invisible to assignment.
type Table struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Name         string
	Capacity     int
	Active       bool
	Location     string // display only, e.g. "patio"
}

// Guest is the contact info attached to a booking.
type Guest struct {
	Name  string
	Email string
	Phone string
}

// Booking is a committed (or historical) table reservation. Its occupancy
// interval is [Start, Start+Duration).
type Booking struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	TableID      uuid.UUID

	Guest           Guest
	Start           time.Time
	DurationMinutes int
	PartySize       int
	Status          BookingStatus
	SpecialRequests string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// End returns the exclusive end of the occupancy interval.
func (b Booking) End() time.Time {
	return b.Start.Add(time.Duration(b.DurationMinutes) * time.Minute)
}

// Interval returns the booking's occupancy interval.
func (b Booking) Interval() Interval {
	return Interval{Start: b.Start, End: b.End()}
}
