package reserve

import (
	"fmt"
	"strings"
	"time"
)

// DayHours is one weekday's open window expressed in minutes since local
// midnight. A closed day has Closed set; Opens/Closes are then ignored.
type DayHours struct {
	Opens  int
	Closes int
	Closed bool
}

// WeeklySchedule is a fixed 7-entry schedule indexed by time.Weekday
// (Sunday == 0). Windows crossing midnight are not representable; the engine
// treats closing times as same-day only.
type WeeklySchedule [7]DayHours

// DefaultSchedule returns the fallback used when stored or imported hours
// cannot be parsed: closed every day. A misconfigured restaurant offers no
// slots rather than silently wrong ones.
func DefaultSchedule() WeeklySchedule {
	var s WeeklySchedule
	for i := range s {
		s[i].Closed = true
	}
	return s
}

// ParseClock converts "HH:MM" to minutes since midnight. "24:00" is accepted
// as the end-of-day closing value.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "24:00" {
		return 24 * 60, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDayHours parses a window like "11:00-22:00". The literal "closed"
// (any case) or an empty string yields a closed day.
func ParseDayHours(s string) (DayHours, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "closed") {
		return DayHours{Closed: true}, nil
	}
	open, close, ok := strings.Cut(s, "-")
	if !ok {
		return DayHours{}, fmt.Errorf("invalid hours %q (want HH:MM-HH:MM or closed)", s)
	}
	opens, err := ParseClock(open)
	if err != nil {
		return DayHours{}, err
	}
	closes, err := ParseClock(close)
	if err != nil {
		return DayHours{}, err
	}
	if closes <= opens {
		return DayHours{}, fmt.Errorf("invalid hours %q: close must be after open", s)
	}
	return DayHours{Opens: opens, Closes: closes}, nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeeklySchedule builds a schedule from weekday-name keyed windows, e.g.
// {"monday": "11:00-22:00", "tuesday": "closed"}. Days absent from the map are
// closed. Unknown day names or malformed windows fail the whole parse; callers
// fall back to DefaultSchedule and report a configuration error.
func ParseWeeklySchedule(days map[string]string) (WeeklySchedule, error) {
	s := DefaultSchedule()
	for name, window := range days {
		wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return DefaultSchedule(), fmt.Errorf("unknown weekday %q", name)
		}
		dh, err := ParseDayHours(window)
		if err != nil {
			return DefaultSchedule(), fmt.Errorf("%s: %w", name, err)
		}
		s[wd] = dh
	}
	return s, nil
}

// MinuteOfDay returns t's minutes since midnight in loc.
func MinuteOfDay(t time.Time, loc *time.Location) int {
	lt := t.In(loc)
	return lt.Hour()*60 + lt.Minute()
}

// WithinOpeningHours reports whether [start, start+duration) lies entirely
// inside the restaurant's open window for start's weekday in the restaurant's
// timezone. An unresolvable timezone counts as closed.
func WithinOpeningHours(r Restaurant, start time.Time, durationMinutes int) bool {
	loc, err := r.Location()
	if err != nil {
		return false
	}
	local := start.In(loc)
	day := r.Hours[local.Weekday()]
	if day.Closed {
		return false
	}
	startMin := local.Hour()*60 + local.Minute()
	return day.Opens <= startMin && startMin+durationMinutes <= day.Closes
}
