package reserve

import "errors"

var (
	// ErrTooSoon means the requested start violates the minimum advance notice.
	ErrTooSoon = errors.New("start time is too soon")
	// ErrTooFarAhead means the requested start is beyond the maximum advance window.
	ErrTooFarAhead = errors.New("start time is too far ahead")
	// ErrClosed means the occupancy interval falls outside opening hours.
	ErrClosed = errors.New("restaurant is closed for the requested interval")
	// ErrInvalidPartySize means the party size is not a positive integer.
	ErrInvalidPartySize = errors.New("invalid party size")
	// ErrNoSuitableTable means no active table is large enough for the party.
	ErrNoSuitableTable = errors.New("no table large enough for the party")
	// ErrNoAvailability means every suitable table conflicts with an existing booking.
	ErrNoAvailability = errors.New("no table available for the requested time")
)
