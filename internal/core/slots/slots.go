// Package slots computes bookable start times from weekly rules, blocks and bookings
package slots

import (
	"time"

	"bookable/internal/core/clock"
	perr "bookable/internal/platform/errors"
)

// Rule is a weekly opening window as stored
type Rule struct {
	ProviderID string
	Weekday    time.Weekday
	Start      string
	End        string
}

// Block is an unavailable window on one date; empty Start and End mean the whole day
type Block struct {
	ProviderID string
	Date       time.Time
	Start      string
	End        string
}

// Booking is an existing reservation occupying [Start, Start+DurationMin)
type Booking struct {
	ProviderID  string
	Date        time.Time
	Start       string
	DurationMin int
}

// Input is everything Compute needs for one provider and one date
type Input struct {
	ProviderID  string
	Date        time.Time
	DurationMin int
	Rules       []Rule
	Blocks      []Block
	Bookings    []Booking
}

// Slot is a bookable span of exactly the requested duration
type Slot struct {
	Start clock.Minute
	End   clock.Minute
}

// String returns the slot start as HH:MM
func (s Slot) String() string { return s.Start.String() }

// Compute returns the ordered slots for in.ProviderID on in.Date
// no rule for the weekday is not an error, the result is simply empty
func Compute(in Input) ([]Slot, error) {
	if in.DurationMin <= 0 {
		return nil, perr.Validationf("duration_min", "gt", "duration_min must be greater than 0")
	}

	open, err := openIntervals(in)
	if err != nil {
		return nil, err
	}
	if len(open) == 0 {
		return []Slot{}, nil
	}

	busy, err := busyIntervals(in)
	if err != nil {
		return nil, err
	}

	out := []Slot{}
	for _, free := range Subtract(open, busy) {
		for start := free.Start; start.Add(in.DurationMin) <= free.End; start = start.Add(in.DurationMin) {
			out = append(out, Slot{Start: start, End: start.Add(in.DurationMin)})
		}
	}
	return out, nil
}

// Starts renders slots as HH:MM strings
func Starts(ss []Slot) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.String()
	}
	return out
}

// Contains reports whether a slot starting at start is in ss
func Contains(ss []Slot, start clock.Minute) bool {
	for _, s := range ss {
		if s.Start == start {
			return true
		}
	}
	return false
}

func openIntervals(in Input) ([]Interval, error) {
	wd := in.Date.Weekday()
	var ivs []Interval
	for _, r := range in.Rules {
		if r.ProviderID != in.ProviderID || r.Weekday != wd {
			continue
		}
		iv, err := span(r.Start, r.End, "availability rule")
		if err != nil {
			return nil, err
		}
		if iv.Empty() {
			return nil, perr.DataIntegrityf("availability rule %s-%s ends before it starts", r.Start, r.End)
		}
		ivs = append(ivs, iv)
	}
	return Union(ivs), nil
}

func busyIntervals(in Input) ([]Interval, error) {
	var busy []Interval
	for _, b := range in.Blocks {
		if b.ProviderID != in.ProviderID || !clock.SameDate(b.Date, in.Date) {
			continue
		}
		if b.Start == "" && b.End == "" {
			busy = append(busy, Interval{Start: clock.Midnight, End: clock.EndOfDay})
			continue
		}
		iv, err := span(b.Start, b.End, "blocked interval")
		if err != nil {
			return nil, err
		}
		if iv.End < iv.Start {
			return nil, perr.DataIntegrityf("blocked interval %s-%s ends before it starts", b.Start, b.End)
		}
		busy = append(busy, iv)
	}
	for _, bk := range in.Bookings {
		if bk.ProviderID != in.ProviderID || !clock.SameDate(bk.Date, in.Date) {
			continue
		}
		start, err := clock.Parse(bk.Start)
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeDataIntegrity, "booking has a malformed start time")
		}
		if bk.DurationMin <= 0 {
			return nil, perr.DataIntegrityf("booking at %s has non positive duration %d", bk.Start, bk.DurationMin)
		}
		busy = append(busy, Interval{Start: start, End: start.Add(bk.DurationMin)})
	}
	return busy, nil
}

func span(start, end, what string) (Interval, error) {
	s, err := clock.Parse(start)
	if err != nil {
		return Interval{}, perr.Wrapf(err, perr.ErrorCodeDataIntegrity, "%s has a malformed start time", what)
	}
	e, err := clock.Parse(end)
	if err != nil {
		return Interval{}, perr.Wrapf(err, perr.ErrorCodeDataIntegrity, "%s has a malformed end time", what)
	}
	return Interval{Start: s, End: e}, nil
}
