// Package ranking filters, orders and pages provider candidates for search
package ranking

import (
	"time"

	"bookable/internal/core/geo"
)

// SortKey names the attribute results are ordered by
type SortKey string

// Order is the direction of a sort
type Order string

const (
	SortDistance SortKey = "distance"
	SortRating   SortKey = "rating"
	SortPrice    SortKey = "price"
	SortReviews  SortKey = "reviews"
	SortNewest   SortKey = "newest"

	Asc  Order = "asc"
	Desc Order = "desc"
)

// Defaults applied by Criteria.Normalize
const (
	DefaultRadiusKm = 25.0
	DefaultLimit    = 20
	MaxLimit        = 50
	MinRadiusKm     = 1.0
	MaxRadiusKm     = 100.0
)

// Slot asks for providers that can start a booking at Time on Date
type Slot struct {
	Date time.Time
	Time string
}

// Criteria is an already validated search request
type Criteria struct {
	Query        string
	CategoryID   string
	Origin       *geo.Point
	RadiusKm     float64
	MinRating    *float64
	MinPrice     *float64
	MaxPrice     *float64
	ServiceIDs   []string
	SortBy       SortKey
	Order        Order
	Limit        int
	Offset       int
	Available    *Slot
	HomeService  bool
	VerifiedOnly bool
}

// Normalize fills the documented defaults and returns the result
// distance ordering is the default whenever an origin is present
func (c Criteria) Normalize() Criteria {
	if c.RadiusKm == 0 {
		c.RadiusKm = DefaultRadiusKm
	}
	if c.Limit == 0 {
		c.Limit = DefaultLimit
	}
	if c.SortBy == "" {
		c.SortBy = SortRating
		if c.Origin != nil {
			c.SortBy = SortDistance
		}
	}
	if c.Order == "" {
		c.Order = DefaultOrder(c.SortBy)
	}
	return c
}

// DefaultOrder is ascending for distance and price, descending otherwise
func DefaultOrder(k SortKey) Order {
	switch k {
	case SortDistance, SortPrice:
		return Asc
	default:
		return Desc
	}
}

// Candidate is one provider row as read for ranking
type Candidate struct {
	ID           string
	Name         string
	Description  string
	CategoryID   string
	Location     geo.Point
	Rating       float64
	ReviewCount  int
	BasePrice    float64
	Verified     bool
	HomeService  bool
	CreatedAt    time.Time
	ServiceIDs   []string
	ServiceNames []string
	// Durations maps each offered service id to its length in minutes
	Durations map[string]int
	// MinDurationMin is the shortest service the provider offers, 0 when unknown
	MinDurationMin int

	// DistanceKm is set by Search only when the criteria carry an origin
	DistanceKm *float64
}

// Page is one window of ranked candidates plus the filtered total
type Page struct {
	Items []Candidate
	Total int
}
