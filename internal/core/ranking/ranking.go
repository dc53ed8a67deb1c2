package ranking

import (
	"cmp"
	"errors"
	"slices"
)

// SlotCheck reports, keyed by candidate id, which of cs can take a booking at
// the requested slot. Search calls it once with the candidates that pass every
// other filter; ids missing from the result count as unavailable.
type SlotCheck func(cs []Candidate, at Slot) (map[string]bool, error)

// ErrNoSlotCheck is returned when cr.Available is set but no SlotCheck was given
var ErrNoSlotCheck = errors.New("ranking: availability filter requested without a slot check")

// Search filters, sorts and pages candidates
// candidates is not modified; check may be nil only when cr.Available is nil
func Search(cr Criteria, candidates []Candidate, check SlotCheck) (Page, error) {
	cr = cr.Normalize()
	if cr.Available != nil && check == nil {
		return Page{}, ErrNoSlotCheck
	}
	ps := predicates(cr)

	kept := make([]Candidate, 0, len(candidates))
next:
	for _, c := range candidates {
		c.DistanceKm = nil
		for _, p := range ps {
			if !p(&c) {
				continue next
			}
		}
		kept = append(kept, c)
	}

	if cr.Available != nil && len(kept) > 0 {
		open, err := check(kept, *cr.Available)
		if err != nil {
			return Page{}, err
		}
		kept = slices.DeleteFunc(kept, func(c Candidate) bool { return !open[c.ID] })
	}

	Sort(kept, cr.SortBy, cr.Order, cr.Origin != nil)

	return Page{Items: window(kept, cr.Offset, cr.Limit), Total: len(kept)}, nil
}

// Sort orders list in place by key and direction, keeping ties in input order
// without an origin every distance compares equal
func Sort(list []Candidate, key SortKey, order Order, hasOrigin bool) {
	compare := comparator(key, hasOrigin)
	if order == Desc {
		asc := compare
		compare = func(a, b *Candidate) int { return asc(b, a) }
	}
	slices.SortStableFunc(list, func(a, b Candidate) int { return compare(&a, &b) })
}

func comparator(key SortKey, hasOrigin bool) func(a, b *Candidate) int {
	switch key {
	case SortDistance:
		if !hasOrigin {
			return func(_, _ *Candidate) int { return 0 }
		}
		return func(a, b *Candidate) int { return cmp.Compare(distance(a), distance(b)) }
	case SortRating:
		return func(a, b *Candidate) int { return cmp.Compare(a.Rating, b.Rating) }
	case SortPrice:
		return func(a, b *Candidate) int { return cmp.Compare(a.BasePrice, b.BasePrice) }
	case SortReviews:
		return func(a, b *Candidate) int { return cmp.Compare(a.ReviewCount, b.ReviewCount) }
	case SortNewest:
		return func(a, b *Candidate) int { return a.CreatedAt.Compare(b.CreatedAt) }
	default:
		return func(_, _ *Candidate) int { return 0 }
	}
}

func distance(c *Candidate) float64 {
	if c.DistanceKm == nil {
		return 0
	}
	return *c.DistanceKm
}

// window applies offset then limit
func window(list []Candidate, offset, limit int) []Candidate {
	offset = max(offset, 0)
	if offset >= len(list) {
		return []Candidate{}
	}
	end := len(list)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}
