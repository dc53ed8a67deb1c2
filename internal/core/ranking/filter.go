package ranking

import (
	"strings"

	"bookable/internal/core/geo"

	"golang.org/x/text/cases"
)

// predicate reports whether c passes one filter
type predicate func(c *Candidate) bool

// predicates builds the hard filters implied by cr, cheapest first
func predicates(cr Criteria) []predicate {
	var ps []predicate

	if cr.CategoryID != "" {
		ps = append(ps, func(c *Candidate) bool { return c.CategoryID == cr.CategoryID })
	}
	if cr.VerifiedOnly {
		ps = append(ps, func(c *Candidate) bool { return c.Verified })
	}
	if cr.HomeService {
		ps = append(ps, func(c *Candidate) bool { return c.HomeService })
	}
	if cr.MinRating != nil {
		floor := *cr.MinRating
		ps = append(ps, func(c *Candidate) bool { return c.Rating >= floor })
	}
	if cr.MinPrice != nil {
		lo := *cr.MinPrice
		ps = append(ps, func(c *Candidate) bool { return c.BasePrice >= lo })
	}
	if cr.MaxPrice != nil {
		hi := *cr.MaxPrice
		ps = append(ps, func(c *Candidate) bool { return c.BasePrice <= hi })
	}
	if len(cr.ServiceIDs) > 0 {
		want := make(map[string]struct{}, len(cr.ServiceIDs))
		for _, id := range cr.ServiceIDs {
			want[id] = struct{}{}
		}
		ps = append(ps, func(c *Candidate) bool {
			for _, id := range c.ServiceIDs {
				if _, ok := want[id]; ok {
					return true
				}
			}
			return false
		})
	}
	if q := strings.TrimSpace(cr.Query); q != "" {
		needle := fold(q)
		ps = append(ps, func(c *Candidate) bool { return matchesText(c, needle) })
	}
	if cr.Origin != nil {
		origin, radius := *cr.Origin, cr.RadiusKm
		ps = append(ps, func(c *Candidate) bool {
			d := geo.DistanceKm(origin, c.Location)
			c.DistanceKm = &d
			return d <= radius
		})
	}
	return ps
}

// matchesText is true when any searchable field contains the folded needle
func matchesText(c *Candidate, needle string) bool {
	if strings.Contains(fold(c.Name), needle) || strings.Contains(fold(c.Description), needle) {
		return true
	}
	for _, n := range c.ServiceNames {
		if strings.Contains(fold(n), needle) {
			return true
		}
	}
	return false
}

// fold applies unicode case folding so "ÉLECTRICIEN" finds "électricien"
func fold(s string) string { return cases.Fold().String(s) }
