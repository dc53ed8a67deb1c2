package slots

import (
	"slices"

	"bookable/internal/core/clock"
)

// Interval is a half-open span [Start, End) within one day
type Interval struct {
	Start clock.Minute
	End   clock.Minute
}

// Len returns the length in minutes
func (iv Interval) Len() int { return int(iv.End - iv.Start) }

// Empty reports whether the interval covers no time
func (iv Interval) Empty() bool { return iv.End <= iv.Start }

// Overlaps reports whether iv and o share any minute
func (iv Interval) Overlaps(o Interval) bool { return iv.Start < o.End && o.Start < iv.End }

// Union merges overlapping and adjacent intervals into a sorted disjoint list
func Union(in []Interval) []Interval {
	list := make([]Interval, 0, len(in))
	for _, iv := range in {
		if !iv.Empty() {
			list = append(list, iv)
		}
	}
	if len(list) == 0 {
		return nil
	}
	sortByStart(list)

	out := []Interval{list[0]}
	for _, iv := range list[1:] {
		last := &out[len(out)-1]
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		out = append(out, iv)
	}
	return out
}

// Subtract removes every busy span from the open intervals
// open must be sorted and disjoint, as returned by Union
func Subtract(open, busy []Interval) []Interval {
	busy = Union(busy)
	var out []Interval
	for _, o := range open {
		cur := o.Start
		for _, b := range busy {
			if b.End <= cur {
				continue
			}
			if b.Start >= o.End {
				break
			}
			if b.Start > cur {
				out = append(out, Interval{Start: cur, End: b.Start})
			}
			if b.End > cur {
				cur = b.End
			}
			if cur >= o.End {
				break
			}
		}
		if cur < o.End {
			out = append(out, Interval{Start: cur, End: o.End})
		}
	}
	return out
}

func sortByStart(list []Interval) {
	slices.SortStableFunc(list, func(a, b Interval) int {
		if a.Start != b.Start {
			return int(a.Start - b.Start)
		}
		return int(a.End - b.End)
	})
}
