package reserve

import (
	"errors"
	"testing"
	"time"
)

func TestWithinAdvanceWindow(t *testing.T) {
	r := testRestaurant() // min 2h, max 60d
	now := mustTime(t, "2026-09-10T12:00:00Z")

	tests := []struct {
		name  string
		start time.Time
		want  error
	}{
		{"too soon", now.Add(time.Hour), ErrTooSoon},
		{"exactly at minimum", now.Add(2 * time.Hour), nil},
		{"comfortably inside", now.Add(48 * time.Hour), nil},
		{"exactly at maximum", now.Add(60 * 24 * time.Hour), nil},
		{"past maximum", now.Add(60*24*time.Hour + time.Minute), ErrTooFarAhead},
		{"in the past", now.Add(-time.Hour), ErrTooSoon},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := WithinAdvanceWindow(r, tc.start, now); !errors.Is(err, tc.want) {
				t.Errorf("WithinAdvanceWindow = %v, want %v", err, tc.want)
			}
		})
	}
}
