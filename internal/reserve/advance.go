package reserve

import "time"

// WithinAdvanceWindow checks the restaurant's advance-notice policy for a
// candidate start. A start exactly at either boundary is valid.
func WithinAdvanceWindow(r Restaurant, start, now time.Time) error {
	earliest := now.Add(time.Duration(r.MinAdvanceHours) * time.Hour)
	if start.Before(earliest) {
		return ErrTooSoon
	}
	latest := now.Add(time.Duration(r.MaxAdvanceDays) * 24 * time.Hour)
	if start.After(latest) {
		return ErrTooFarAhead
	}
	return nil
}
