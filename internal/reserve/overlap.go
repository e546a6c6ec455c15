package reserve

import "time"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval builds the occupancy interval for a start and duration.
func NewInterval(start time.Time, durationMinutes int) Interval {
	return Interval{Start: start, End: start.Add(time.Duration(durationMinutes) * time.Minute)}
}

// Overlaps reports whether two half-open intervals intersect. Touching
// endpoints (aEnd == bStart) do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Overlaps reports whether iv intersects other.
func (iv Interval) Overlaps(other Interval) bool {
	return Overlaps(iv.Start, iv.End, other.Start, other.End)
}

// TableConflicts reports whether the candidate interval overlaps any of the
// given bookings. Bookings in inactive statuses never block, whether or not
// the caller pre-filtered the snapshot.
func TableConflicts(candidate Interval, existing []Booking) bool {
	for _, b := range existing {
		if !b.Status.Active() {
			continue
		}
		if candidate.Overlaps(b.Interval()) {
			return true
		}
	}
	return false
}
