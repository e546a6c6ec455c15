package internaltypes

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition is returned for status changes the state machine forbids.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrReservationConflict is the store's signal that a committed booking
	// already occupies the same (table, interval).
	ErrReservationConflict = errors.New("reservation conflict")
	// ErrAlreadyFinal is returned when operating on a booking or waitlist
	// entry that reached a terminal status.
	ErrAlreadyFinal = errors.New("already in a terminal status")
)
