// Package clock parses and formats wall-clock times as minutes from midnight
package clock

import (
	"errors"
	"fmt"
	"time"
)

// Minute is an offset from local midnight in minutes, 0..1440 inclusive
type Minute int

const (
	// Midnight is the first minute of a day
	Midnight Minute = 0
	// EndOfDay is the exclusive end of a day, written 24:00
	EndOfDay Minute = 24 * 60

	// DateLayout is the calendar date format used on the wire and in storage
	DateLayout = "2006-01-02"
)

// ErrMalformed is returned for any string that is not a valid HH:MM or date
var ErrMalformed = errors.New("clock: malformed time")

// Parse reads a strict HH:MM string; 24:00 is accepted as the end of day
func Parse(s string) (Minute, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	h, ok1 := twoDigits(s[0], s[1])
	m, ok2 := twoDigits(s[3], s[4])
	if !ok1 || !ok2 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	return Minute(h*60 + m), nil
}

// MustParse is Parse for literals in tests and tables
func MustParse(s string) Minute {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// String formats m as HH:MM
func (m Minute) String() string { return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60) }

// Add returns m shifted by d minutes
func (m Minute) Add(d int) Minute { return m + Minute(d) }

// ParseDate reads a YYYY-MM-DD calendar date as a UTC midnight
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	return d, nil
}

// SameDate reports whether a and b fall on the same calendar day, ignoring zones
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}
